package processing

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/crepsource/video-editor-sub000/pkg/composition"
	"github.com/crepsource/video-editor-sub000/pkg/raster"
	"github.com/crepsource/video-editor-sub000/pkg/scene"
)

// CreateAnalysisOverlay renders the composition and scene findings onto a
// copy of the frame: the thirds grid, detected focal regions, face regions
// and the visual balance center. Useful for eyeballing why a frame scored
// the way it did.
func (p *Processor) CreateAnalysisOverlay(f raster.Frame, comp composition.Result, cls scene.Classification) *image.NRGBA {
	nrgba := imaging.Clone(frameToNRGBA(f))
	w, h := f.Width, f.Height

	gray := color.NRGBA{180, 180, 180, 255} // thirds grid
	gold := color.NRGBA{255, 204, 0, 255}   // focal regions
	green := color.NRGBA{0, 255, 0, 255}    // face regions
	red := color.NRGBA{255, 0, 0, 255}      // balance center
	blue := color.NRGBA{0, 170, 255, 255}   // frame center

	stroke := int(math.Max(2, 0.004*float64(minInt(w, h))))
	cross := int(math.Max(4, 0.01*float64(minInt(w, h))))

	// Thirds grid
	for i := 1; i <= 2; i++ {
		drawHLine(nrgba, i*h/3, 0, w, gray)
		drawVLine(nrgba, i*w/3, 0, h, gray)
	}

	for _, fr := range comp.FocalRegions {
		drawRect(nrgba, fr.X, fr.Y, fr.Width, fr.Height, gold, stroke)
	}
	for _, face := range cls.VisualFeatures.FaceRegions {
		drawRect(nrgba, face.X, face.Y, face.Width, face.Height, green, stroke)
	}

	// Balance center crosshair
	bx := int(comp.BalanceCenter.X*float64(w) + 0.5)
	by := int(comp.BalanceCenter.Y*float64(h) + 0.5)
	drawHLine(nrgba, by, bx-cross, bx+cross, red)
	drawVLine(nrgba, bx, by-cross, by+cross, red)

	// Frame center marker
	drawHLine(nrgba, h/2, w/2-6, w/2+6, blue)
	drawVLine(nrgba, w/2, h/2-6, h/2+6, blue)

	return nrgba
}

func drawRect(img *image.NRGBA, x, y, w, h int, c color.NRGBA, stroke int) {
	if w <= 0 || h <= 0 {
		return
	}
	for s := 0; s < stroke; s++ {
		drawHLine(img, y+s, x, x+w, c)
		drawHLine(img, y+h-1-s, x, x+w, c)
		drawVLine(img, x+s, y, y+h, c)
		drawVLine(img, x+w-1-s, y, y+h, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
