package raster

import "math"

// Sobel kernels for horizontal and vertical intensity gradients.
var (
	sobelX = [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY = [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
)

// Luminance returns the BT.601 luminance of the pixel at (x, y) in [0,255].
func (f Frame) Luminance(x, y int) float64 {
	i := (y*f.Width + x) * 4
	return 0.299*float64(f.Pix[i]) + 0.587*float64(f.Pix[i+1]) + 0.114*float64(f.Pix[i+2])
}

// RGBToHSV converts 8-bit RGB to HSV with hue in degrees [0,360) and
// saturation/value in [0,1].
func RGBToHSV(r, g, b uint8) (h, s, v float64) {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	diff := max - min

	v = max
	if max > 0 {
		s = diff / max
	}

	switch {
	case diff == 0:
		h = 0
	case max == rf:
		h = 60 * math.Mod((gf-bf)/diff, 6)
	case max == gf:
		h = 60 * ((bf-rf)/diff + 2)
	default:
		h = 60 * ((rf-gf)/diff + 4)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// Sobel computes the gradient magnitude and orientation at (x, y) using the
// 3x3 Sobel kernels over luminance. The orientation is the gradient angle in
// degrees, folded into [0,180). Border pixels return (0, 0).
func (f Frame) Sobel(x, y int) (mag, angle float64) {
	if x < 1 || y < 1 || x >= f.Width-1 || y >= f.Height-1 {
		return 0, 0
	}

	var gx, gy float64
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			l := f.Luminance(x+kx, y+ky)
			gx += l * sobelX[ky+1][kx+1]
			gy += l * sobelY[ky+1][kx+1]
		}
	}

	mag = math.Sqrt(gx*gx + gy*gy)
	angle = math.Atan2(gy, gx) * 180 / math.Pi
	angle = math.Mod(angle+360, 180)
	return mag, angle
}

// Laplacian computes the second-derivative response at (x, y) with the
// kernel [[0,-1,0],[-1,4,-1],[0,-1,0]]. Border pixels return 0.
func (f Frame) Laplacian(x, y int) float64 {
	if x < 1 || y < 1 || x >= f.Width-1 || y >= f.Height-1 {
		return 0
	}
	return 4*f.Luminance(x, y) -
		f.Luminance(x-1, y) - f.Luminance(x+1, y) -
		f.Luminance(x, y-1) - f.Luminance(x, y+1)
}

// BlockStats returns the mean and variance of luminance over the axis-aligned
// region, sampling every stride-th pixel in each direction. The region is
// clipped to the frame; an empty sample set yields (0, 0, 0).
//
// Sampling strides trade accuracy for speed. Scores depend on the chosen
// stride, so callers must keep it fixed for reproducible results.
func (f Frame) BlockStats(x0, y0, w, h, stride int) (mean, variance float64, count int) {
	if stride < 1 {
		stride = 1
	}
	x1 := minInt(x0+w, f.Width)
	y1 := minInt(y0+h, f.Height)
	x0 = maxInt(x0, 0)
	y0 = maxInt(y0, 0)

	var sum, sumSq float64
	for y := y0; y < y1; y += stride {
		for x := x0; x < x1; x += stride {
			l := f.Luminance(x, y)
			sum += l
			sumSq += l * l
			count++
		}
	}
	if count == 0 {
		return 0, 0, 0
	}

	mean = sum / float64(count)
	variance = sumSq/float64(count) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, variance, count
}

// BlockVariance returns the luminance variance over the region at full
// resolution (stride 1).
func (f Frame) BlockVariance(x0, y0, w, h int) float64 {
	_, variance, _ := f.BlockStats(x0, y0, w, h, 1)
	return variance
}

// Histogram builds a 256-bin luminance histogram over every stride-th pixel.
func (f Frame) Histogram(stride int) [256]int {
	if stride < 1 {
		stride = 1
	}
	var hist [256]int
	for y := 0; y < f.Height; y += stride {
		for x := 0; x < f.Width; x += stride {
			l := int(f.Luminance(x, y))
			if l > 255 {
				l = 255
			}
			hist[l]++
		}
	}
	return hist
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
