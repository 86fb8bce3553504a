// Package quality scores the technical condition of a frame: sharpness,
// exposure, contrast, saturation, noise and motion blur. Every score is a
// deterministic closed-form function of the input pixels.
package quality

import (
	"math"
	"sort"

	"github.com/crepsource/video-editor-sub000/pkg/raster"
)

// Analyzer computes technical quality scores. Stateless and safe for
// concurrent use.
type Analyzer struct {
	config Config
}

// Config holds tuning parameters. Strides trade accuracy for speed and are
// part of the score definition; keep them fixed for reproducible results.
type Config struct {
	HistogramStride int     // pixel step for histogram and saturation stats
	EdgeStride      int     // pixel step for sharpness and blur sampling
	NoiseBlockSize  int     // side of the noise variance blocks
	FocusBlockSize  int     // side of the focus region blocks
	EdgeThreshold   float64 // minimum gradient magnitude counted as an edge
	MaxFocusRegions int
}

// DefaultConfig returns the tuning used across the pipeline.
func DefaultConfig() Config {
	return Config{
		HistogramStride: 2,
		EdgeStride:      4,
		NoiseBlockSize:  8,
		FocusBlockSize:  32,
		EdgeThreshold:   30,
		MaxFocusRegions: 3,
	}
}

// scoreWeights combines the six sub-scores into the overall score.
// They must sum to 1.
var scoreWeights = map[string]float64{
	"sharpness":        0.25,
	"exposure":         0.20,
	"contrast":         0.15,
	"color_saturation": 0.15,
	"noise_level":      0.15,
	"motion_blur":      0.10,
}

// Sharpness blend: laplacian variance, edge density, max gradient.
const (
	sharpnessLaplacianWeight = 0.4
	sharpnessEdgeWeight      = 0.3
	sharpnessGradientWeight  = 0.3
	laplacianScale           = 1.5   // stddev of laplacian response -> score
	edgeDensityFullScale     = 0.25  // edge fraction that maps to 100
	gradientFullScale        = 800.0 // gradient magnitude that maps to 100
)

// Exposure scoring constants.
const (
	clippingPenalty   = 500.0 // per clipped fraction, both ends
	skewThreshold     = 0.7   // band mass above this is penalized
	skewPenalty       = 150.0
	dynamicRangeBonus = 20.0
)

// Noise scoring constants.
const (
	cleanBlockVariance = 25.0 // blocks below this count as clean
	grainFullScale     = 30.0 // block stddev that maps grain to max
	noiseGrainWeight   = 0.7
	noiseCleanWeight   = 0.3
)

// Motion blur constants. An edge whose luminance transition is gradual
// despite a strong gradient reads as blurred.
const (
	blurTransitionDelta = 10.0
	blurPenaltyScale    = 120.0
	neutralMotionBlur   = 70.0 // no edges means no blur evidence either way
)

// New creates an Analyzer with the default configuration.
func New() *Analyzer {
	return &Analyzer{config: DefaultConfig()}
}

// NewWithConfig creates an Analyzer with custom tuning.
func NewWithConfig(config Config) *Analyzer {
	return &Analyzer{config: config}
}

// Analyze computes the technical quality result for a frame.
func (a *Analyzer) Analyze(f raster.Frame) (Result, error) {
	if err := f.Validate(); err != nil {
		return Result{}, err
	}

	var res Result
	var samples int
	res.Sharpness, res.SharpnessDetails = a.sharpness(f)
	res.Exposure, res.ExposureDetails = a.exposure(f)
	res.Contrast = a.contrast(f)
	res.ColorSaturation, res.ColorDetails, samples = a.colorSaturation(f)
	res.NoiseLevel, res.NoiseDetails = a.noise(f)
	res.MotionBlur = a.motionBlur(f)

	res.OverallScore = clamp100(
		scoreWeights["sharpness"]*res.Sharpness +
			scoreWeights["exposure"]*res.Exposure +
			scoreWeights["contrast"]*res.Contrast +
			scoreWeights["color_saturation"]*res.ColorSaturation +
			scoreWeights["noise_level"]*res.NoiseLevel +
			scoreWeights["motion_blur"]*res.MotionBlur)

	// Larger sample sets give the statistics more backing.
	res.AnalysisConfidence = clamp01(0.5 + 0.5*math.Min(1, float64(samples)/20000))

	return res, nil
}

func (a *Analyzer) sharpness(f raster.Frame) (float64, SharpnessDetails) {
	var lapSum, lapSqSum, maxGrad float64
	edges, count := 0, 0

	for y := 0; y < f.Height; y += a.config.EdgeStride {
		for x := 0; x < f.Width; x += a.config.EdgeStride {
			lap := f.Laplacian(x, y)
			lapSum += lap
			lapSqSum += lap * lap

			mag, _ := f.Sobel(x, y)
			if mag > a.config.EdgeThreshold {
				edges++
			}
			if mag > maxGrad {
				maxGrad = mag
			}
			count++
		}
	}

	details := SharpnessDetails{MaxGradient: maxGrad}
	if count == 0 {
		return 0, details
	}

	mean := lapSum / float64(count)
	lapVar := lapSqSum/float64(count) - mean*mean
	if lapVar < 0 {
		lapVar = 0
	}
	details.LaplacianVariance = lapVar
	details.EdgeDensity = float64(edges) / float64(count)
	details.FocusRegions = a.focusRegions(f)

	lapScore := math.Min(100, math.Sqrt(lapVar)*laplacianScale)
	edgeScore := math.Min(100, details.EdgeDensity/edgeDensityFullScale*100)
	gradScore := math.Min(100, maxGrad/gradientFullScale*100)

	score := sharpnessLaplacianWeight*lapScore +
		sharpnessEdgeWeight*edgeScore +
		sharpnessGradientWeight*gradScore
	return clamp100(score), details
}

// focusRegions finds the blocks with the highest laplacian variance, the
// usual proxy for where focus actually landed.
func (a *Analyzer) focusRegions(f raster.Frame) []FocusRegion {
	block := a.config.FocusBlockSize
	var regions []FocusRegion

	for y := 0; y < f.Height; y += block {
		for x := 0; x < f.Width; x += block {
			w := minInt(block, f.Width-x)
			h := minInt(block, f.Height-y)

			var sum, sumSq float64
			n := 0
			for by := y; by < y+h; by += a.config.EdgeStride {
				for bx := x; bx < x+w; bx += a.config.EdgeStride {
					lap := f.Laplacian(bx, by)
					sum += lap
					sumSq += lap * lap
					n++
				}
			}
			if n == 0 {
				continue
			}
			mean := sum / float64(n)
			variance := sumSq/float64(n) - mean*mean
			if variance <= 0 {
				continue
			}

			sharp := math.Min(100, math.Sqrt(variance)*laplacianScale)
			if sharp > 30 {
				regions = append(regions, FocusRegion{X: x, Y: y, Width: w, Height: h, Sharpness: sharp})
			}
		}
	}

	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Sharpness != regions[j].Sharpness {
			return regions[i].Sharpness > regions[j].Sharpness
		}
		if regions[i].Y != regions[j].Y {
			return regions[i].Y < regions[j].Y
		}
		return regions[i].X < regions[j].X
	})
	if len(regions) > a.config.MaxFocusRegions {
		regions = regions[:a.config.MaxFocusRegions]
	}
	return regions
}

func (a *Analyzer) exposure(f raster.Frame) (float64, ExposureDetails) {
	hist := f.Histogram(a.config.HistogramStride)

	total := 0
	for _, n := range hist {
		total += n
	}
	if total == 0 {
		return 50, ExposureDetails{}
	}

	var details ExposureDetails
	var shadows, midtones, highlights, blackClip, whiteClip int
	lowest, highest := -1, -1
	for i, n := range hist {
		switch {
		case i < 85:
			shadows += n
		case i < 171:
			midtones += n
		default:
			highlights += n
		}
		if i < 3 {
			blackClip += n
		}
		if i > 252 {
			whiteClip += n
		}
		if n > 0 {
			if lowest < 0 {
				lowest = i
			}
			highest = i
		}
	}

	ft := float64(total)
	details.Shadows = float64(shadows) / ft
	details.Midtones = float64(midtones) / ft
	details.Highlights = float64(highlights) / ft
	details.BlackClipping = float64(blackClip) / ft
	details.WhiteClipping = float64(whiteClip) / ft
	if highest >= lowest && lowest >= 0 {
		details.DynamicRange = highest - lowest
	}

	score := 100.0
	score -= details.BlackClipping * clippingPenalty
	score -= details.WhiteClipping * clippingPenalty

	largestBand := math.Max(details.Shadows, math.Max(details.Midtones, details.Highlights))
	if largestBand > skewThreshold {
		score -= (largestBand - skewThreshold) * skewPenalty
	}

	score += float64(details.DynamicRange) / 255 * dynamicRangeBonus
	return clamp100(score), details
}

// contrast maps luminance standard deviation through a non-linear curve:
// flat frames are punished, a broad middle band reads as good, and extreme
// spreads taper off.
func (a *Analyzer) contrast(f raster.Frame) float64 {
	_, variance, count := f.BlockStats(0, 0, f.Width, f.Height, a.config.HistogramStride)
	if count == 0 {
		return 50
	}
	stdDev := math.Sqrt(variance)

	var score float64
	switch {
	case stdDev < 20:
		score = stdDev * 2.0
	case stdDev <= 100:
		score = 40 + (stdDev-20)*0.75
	default:
		score = 100 - (stdDev-100)*0.5
	}
	return clamp100(score)
}

func (a *Analyzer) colorSaturation(f raster.Frame) (float64, ColorDetails, int) {
	var satSum, satSqSum float64
	var rSum, gSum, bSum float64
	count := 0

	for y := 0; y < f.Height; y += a.config.HistogramStride {
		for x := 0; x < f.Width; x += a.config.HistogramStride {
			r, g, b, _ := f.RGBA(x, y)
			_, s, _ := raster.RGBToHSV(r, g, b)
			satSum += s
			satSqSum += s * s
			rSum += float64(r)
			gSum += float64(g)
			bSum += float64(b)
			count++
		}
	}
	if count == 0 {
		return 50, ColorDetails{}, 0
	}

	n := float64(count)
	avg := satSum / n
	satVar := satSqSum/n - avg*avg
	if satVar < 0 {
		satVar = 0
	}

	details := ColorDetails{
		AverageSaturation: avg,
		SaturationStdDev:  math.Sqrt(satVar),
	}

	// Ideal band is roughly 0.3-0.8: natural but not garish.
	var score float64
	switch {
	case avg < 0.3:
		score = 40 + avg/0.3*50
	case avg <= 0.8:
		score = 100 - math.Abs(avg-0.55)*40
	default:
		score = 90 - (avg-0.8)*150
	}

	// Cast detection: one channel mean pulling away from the others by more
	// than 2% of full scale.
	rMean, gMean, bMean := rSum/n, gSum/n, bSum/n
	maxMean := math.Max(rMean, math.Max(gMean, bMean))
	minMean := math.Min(rMean, math.Min(gMean, bMean))
	if diff := maxMean - minMean; diff > 0.02*255 {
		details.CastDetected = true
		switch maxMean {
		case rMean:
			details.CastChannel = "red"
		case gMean:
			details.CastChannel = "green"
		default:
			details.CastChannel = "blue"
		}
		score -= math.Min(15, (diff-0.02*255)*1.5)
	}

	return clamp100(score), details, count
}

func (a *Analyzer) noise(f raster.Frame) (float64, NoiseDetails) {
	block := a.config.NoiseBlockSize
	var stdSum, varSum float64
	blocks, clean := 0, 0

	for y := 0; y+block <= f.Height; y += block {
		for x := 0; x+block <= f.Width; x += block {
			variance := f.BlockVariance(x, y, block, block)
			stdSum += math.Sqrt(variance)
			varSum += variance
			if variance < cleanBlockVariance {
				clean++
			}
			blocks++
		}
	}

	if blocks == 0 {
		// Frame smaller than one noise block: nothing to estimate.
		return 50, NoiseDetails{ISOEstimate: 100}
	}

	avgStd := stdSum / float64(blocks)
	avgVar := varSum / float64(blocks)
	details := NoiseDetails{
		GrainEstimate:      math.Min(1, avgStd/grainFullScale),
		CleanRegionPercent: 100 * float64(clean) / float64(blocks),
		ISOEstimate:        isoEstimate(avgVar),
	}

	score := noiseGrainWeight*(1-details.GrainEstimate)*100 +
		noiseCleanWeight*details.CleanRegionPercent
	return clamp100(score), details
}

func isoEstimate(avgVariance float64) int {
	switch {
	case avgVariance < 50:
		return 100
	case avgVariance < 150:
		return 200
	case avgVariance < 400:
		return 400
	case avgVariance < 1000:
		return 800
	default:
		return 1600
	}
}

// motionBlur flags edges whose luminance transition is gradual despite a
// strong gradient: a sharp step keeps the center far from its neighborhood
// mean, a motion-smeared edge does not.
func (a *Analyzer) motionBlur(f raster.Frame) float64 {
	edges, blurred := 0, 0

	for y := 0; y < f.Height; y += a.config.EdgeStride {
		for x := 0; x < f.Width; x += a.config.EdgeStride {
			// Sobel is zero on the border, so neighbor reads below stay in
			// bounds whenever the edge test passes.
			mag, _ := f.Sobel(x, y)
			if mag <= a.config.EdgeThreshold {
				continue
			}
			edges++

			var neighborSum float64
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					neighborSum += f.Luminance(x+dx, y+dy)
				}
			}
			if math.Abs(f.Luminance(x, y)-neighborSum/8) < blurTransitionDelta {
				blurred++
			}
		}
	}

	if edges == 0 {
		return neutralMotionBlur
	}
	ratio := float64(blurred) / float64(edges)
	return clamp100(100 - ratio*blurPenaltyScale)
}

func clamp100(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
