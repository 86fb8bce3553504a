package processing

import (
	"path/filepath"
	"testing"

	"github.com/crepsource/video-editor-sub000/pkg/composition"
	"github.com/crepsource/video-editor-sub000/pkg/raster"
	"github.com/crepsource/video-editor-sub000/pkg/scene"
)

func solidFrame(width, height int, r, g, b uint8) raster.Frame {
	pix := make([]byte, width*height*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, 255
	}
	return raster.Frame{Width: width, Height: height, Pix: pix}
}

func TestSaveAndLoadFrameRoundtrip(t *testing.T) {
	p := NewProcessor()
	f := solidFrame(48, 32, 200, 100, 50)
	path := filepath.Join(t.TempDir(), "frame.png")

	if err := p.SaveImage(frameToNRGBA(f), path, "png", 90, false); err != nil {
		t.Fatal(err)
	}

	loaded, err := p.LoadFrame(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Width != 48 || loaded.Height != 32 {
		t.Fatalf("loaded frame is %dx%d, want 48x32", loaded.Width, loaded.Height)
	}
	r, g, b, _ := loaded.RGBA(10, 10)
	if r != 200 || g != 100 || b != 50 {
		t.Errorf("pixel = (%d,%d,%d), want (200,100,50)", r, g, b)
	}
}

func TestResizeForAnalysisCapsLongEdge(t *testing.T) {
	p := NewProcessor()
	f := solidFrame(2000, 1000, 128, 128, 128)

	out, err := p.ResizeForAnalysis(f, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if out.Width != 1000 || out.Height != 500 {
		t.Errorf("resized to %dx%d, want 1000x500", out.Width, out.Height)
	}
}

func TestResizeForAnalysisKeepsSmallFrames(t *testing.T) {
	p := NewProcessor()
	f := solidFrame(320, 240, 128, 128, 128)

	out, err := p.ResizeForAnalysis(f, 1280)
	if err != nil {
		t.Fatal(err)
	}
	if out.Width != 320 || out.Height != 240 {
		t.Errorf("resized to %dx%d, want unchanged 320x240", out.Width, out.Height)
	}
}

func TestLoadFrameFromURLRejectsBadScheme(t *testing.T) {
	p := NewProcessor()
	if _, err := p.LoadFrameFromURL("ftp://example.com/frame.jpg"); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}

func TestEncodeFrameBase64(t *testing.T) {
	p := NewProcessor()
	f := solidFrame(64, 48, 10, 20, 30)

	b64, err := p.EncodeFrameBase64(f, "jpg", 32, 85)
	if err != nil {
		t.Fatal(err)
	}
	if b64 == "" {
		t.Fatal("empty base64 output")
	}
}

func TestOverlayDrawsGridAndRegions(t *testing.T) {
	p := NewProcessor()
	f := solidFrame(90, 90, 0, 0, 0)

	comp := composition.Result{
		FocalRegions:  []composition.FocalRegion{{X: 10, Y: 10, Width: 20, Height: 20, Strength: 0.8}},
		BalanceCenter: composition.Point{X: 0.5, Y: 0.5},
	}
	cls := scene.Classification{
		VisualFeatures: scene.VisualFeatures{
			FaceRegions: []scene.FaceRegion{{X: 50, Y: 50, Width: 24, Height: 24, Confidence: 0.7}},
		},
	}

	overlay := p.CreateAnalysisOverlay(f, comp, cls)

	// Vertical thirds line at x=30.
	i := 5*overlay.Stride + 30*4
	if overlay.Pix[i] != 180 || overlay.Pix[i+1] != 180 || overlay.Pix[i+2] != 180 {
		t.Errorf("thirds grid pixel = (%d,%d,%d), want (180,180,180)",
			overlay.Pix[i], overlay.Pix[i+1], overlay.Pix[i+2])
	}
	// Face region top edge at (55, 50) should be green.
	i = 50*overlay.Stride + 55*4
	if overlay.Pix[i+1] != 255 {
		t.Errorf("face region edge green channel = %d, want 255", overlay.Pix[i+1])
	}
	// The source frame must be untouched.
	if f.Pix[0] != 0 {
		t.Error("overlay mutated the source frame")
	}
}
