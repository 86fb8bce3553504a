package quality

import (
	"reflect"
	"testing"

	"github.com/crepsource/video-editor-sub000/pkg/raster"
)

func solidFrame(width, height int, v uint8) raster.Frame {
	pix := make([]byte, width*height*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
	}
	return raster.Frame{Width: width, Height: height, Pix: pix}
}

func checkerboard(width, height, block int) raster.Frame {
	f := solidFrame(width, height, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/block+y/block)%2 == 0 {
				i := (y*width + x) * 4
				f.Pix[i], f.Pix[i+1], f.Pix[i+2] = 255, 255, 255
			}
		}
	}
	return f
}

// gradientFrame ramps luminance 0..255 left to right.
func gradientFrame(height int) raster.Frame {
	f := solidFrame(256, height, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < 256; x++ {
			i := (y*256 + x) * 4
			v := uint8(x)
			f.Pix[i], f.Pix[i+1], f.Pix[i+2] = v, v, v
		}
	}
	return f
}

// twoToneFrame splits the frame between two gray values, giving a luminance
// standard deviation of exactly (hi-lo)/2.
func twoToneFrame(width, height int, lo, hi uint8) raster.Frame {
	f := solidFrame(width, height, lo)
	for y := 0; y < height; y++ {
		for x := width / 2; x < width; x++ {
			i := (y*width + x) * 4
			f.Pix[i], f.Pix[i+1], f.Pix[i+2] = hi, hi, hi
		}
	}
	return f
}

func TestAnalyzeInvalidFrame(t *testing.T) {
	a := New()
	if _, err := a.Analyze(raster.Frame{Width: 4, Height: 4, Pix: []byte{1, 2, 3}}); err == nil {
		t.Fatal("expected error for mismatched buffer")
	}
}

func TestScoreWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, w := range scoreWeights {
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("overall score weights sum to %f, want 1.0", sum)
	}
}

func TestAnalyzeRanges(t *testing.T) {
	frames := map[string]raster.Frame{
		"flat gray":    solidFrame(160, 120, 128),
		"checkerboard": checkerboard(600, 600, 100),
		"gradient":     gradientFrame(64),
		"tiny":         solidFrame(1, 1, 255),
	}

	a := New()
	for name, f := range frames {
		res, err := a.Analyze(f)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		scores := map[string]float64{
			"sharpness":        res.Sharpness,
			"exposure":         res.Exposure,
			"contrast":         res.Contrast,
			"color_saturation": res.ColorSaturation,
			"noise_level":      res.NoiseLevel,
			"motion_blur":      res.MotionBlur,
			"overall_score":    res.OverallScore,
		}
		for field, v := range scores {
			if v < 0 || v > 100 {
				t.Errorf("%s: %s = %f out of [0,100]", name, field, v)
			}
		}
		if res.AnalysisConfidence < 0 || res.AnalysisConfidence > 1 {
			t.Errorf("%s: confidence = %f out of [0,1]", name, res.AnalysisConfidence)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	f := checkerboard(400, 400, 40)
	a := New()
	first, err := a.Analyze(f)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Analyze(f)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over identical bytes produced different results")
	}
}

func TestFlatFrameScores(t *testing.T) {
	a := New()
	res, err := a.Analyze(solidFrame(200, 200, 128))
	if err != nil {
		t.Fatal(err)
	}

	if res.Sharpness != 0 {
		t.Errorf("flat frame sharpness = %f, want 0", res.Sharpness)
	}
	if res.SharpnessDetails.EdgeDensity != 0 {
		t.Errorf("flat frame edge density = %f, want 0", res.SharpnessDetails.EdgeDensity)
	}
	if res.Contrast >= 20 {
		t.Errorf("flat frame contrast = %f, want < 20", res.Contrast)
	}
	if res.NoiseLevel != 100 {
		t.Errorf("flat frame noise_level = %f, want 100 (perfectly clean)", res.NoiseLevel)
	}
	if res.NoiseDetails.ISOEstimate != 100 {
		t.Errorf("flat frame ISO estimate = %d, want 100", res.NoiseDetails.ISOEstimate)
	}
}

func TestCheckerboardScores(t *testing.T) {
	a := New()
	res, err := a.Analyze(checkerboard(600, 600, 100))
	if err != nil {
		t.Fatal(err)
	}

	if res.Sharpness <= 70 {
		t.Errorf("checkerboard sharpness = %f, want > 70", res.Sharpness)
	}
	if res.Contrast <= 70 {
		t.Errorf("checkerboard contrast = %f, want > 70", res.Contrast)
	}
	if res.SharpnessDetails.MaxGradient < 800 {
		t.Errorf("checkerboard max gradient = %f, want >= 800", res.SharpnessDetails.MaxGradient)
	}
}

func TestExposureClippingMonotonic(t *testing.T) {
	// Rising black-clipped fraction must strictly lower the exposure score.
	// The gradient base keeps band mass spread so no skew penalty kicks in.
	// Start from a frame that is already clipped enough to sit below the
	// 100 clamp, so each step must move the score.
	a := New()
	var prev float64
	for i, blackRows := range []int{4, 6, 8, 10} {
		f := gradientFrame(64)
		for y := 0; y < blackRows; y++ {
			for x := 0; x < 256; x++ {
				p := (y*256 + x) * 4
				f.Pix[p], f.Pix[p+1], f.Pix[p+2] = 0, 0, 0
			}
		}

		res, err := a.Analyze(f)
		if err != nil {
			t.Fatal(err)
		}
		if i > 0 && res.Exposure >= prev {
			t.Errorf("exposure with %d clipped rows = %f, not below previous %f",
				blackRows, res.Exposure, prev)
		}
		prev = res.Exposure
	}
}

func TestContrastMonotonicInGoodBand(t *testing.T) {
	// Standard deviation rising from 20 toward 80 must strictly raise the
	// contrast score.
	a := New()
	var prev float64
	for i, spread := range []uint8{20, 40, 60, 80} {
		f := twoToneFrame(128, 128, 128-spread, 128+spread)
		res, err := a.Analyze(f)
		if err != nil {
			t.Fatal(err)
		}
		if i > 0 && res.Contrast <= prev {
			t.Errorf("contrast at spread %d = %f, not above previous %f", spread, res.Contrast, prev)
		}
		prev = res.Contrast
	}
}

func TestColorCastDetection(t *testing.T) {
	a := New()

	red := solidFrame(64, 64, 0)
	for i := 0; i < len(red.Pix); i += 4 {
		red.Pix[i], red.Pix[i+1], red.Pix[i+2] = 200, 60, 60
	}
	res, err := a.Analyze(red)
	if err != nil {
		t.Fatal(err)
	}
	if !res.ColorDetails.CastDetected || res.ColorDetails.CastChannel != "red" {
		t.Errorf("red frame cast = %v/%q, want detected red",
			res.ColorDetails.CastDetected, res.ColorDetails.CastChannel)
	}

	gray, err := a.Analyze(solidFrame(64, 64, 120))
	if err != nil {
		t.Fatal(err)
	}
	if gray.ColorDetails.CastDetected {
		t.Error("neutral gray frame flagged with a color cast")
	}
}

func TestMotionBlurDistinguishesRamps(t *testing.T) {
	// A sawtooth luminance ramp has strong but gradual gradients (reads as
	// smeared); checkerboard edges are hard steps.
	blurry := solidFrame(256, 128, 0)
	for y := 0; y < 128; y++ {
		for x := 0; x < 256; x++ {
			i := (y*256 + x) * 4
			v := uint8((x % 64) * 4)
			blurry.Pix[i], blurry.Pix[i+1], blurry.Pix[i+2] = v, v, v
		}
	}

	a := New()
	blurRes, err := a.Analyze(blurry)
	if err != nil {
		t.Fatal(err)
	}
	sharpRes, err := a.Analyze(checkerboard(256, 128, 32))
	if err != nil {
		t.Fatal(err)
	}

	if blurRes.MotionBlur >= sharpRes.MotionBlur {
		t.Errorf("blurry ramp motion_blur = %f, sharp frame = %f; want ramp strictly lower",
			blurRes.MotionBlur, sharpRes.MotionBlur)
	}
}

func TestNeutralMotionBlurWithoutEdges(t *testing.T) {
	a := New()
	res, err := a.Analyze(solidFrame(100, 100, 90))
	if err != nil {
		t.Fatal(err)
	}
	if res.MotionBlur != neutralMotionBlur {
		t.Errorf("edge-free frame motion_blur = %f, want neutral %f", res.MotionBlur, neutralMotionBlur)
	}
}

func BenchmarkAnalyze(b *testing.B) {
	f := checkerboard(640, 360, 40)
	a := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a.Analyze(f)
	}
}
