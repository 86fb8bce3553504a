// Package composition scores how a frame is arranged: rule-of-thirds
// placement, leading lines, balance, symmetry, focal regions and color
// harmony. All scores are deterministic functions of the input pixels.
package composition

import (
	"math"
	"sort"

	"github.com/crepsource/video-editor-sub000/pkg/raster"
)

// Analyzer computes composition scores. It holds no per-frame state and is
// safe for concurrent use.
type Analyzer struct {
	config Config
}

// Config holds tuning parameters for composition analysis. Strides are a
// documented accuracy/performance trade-off: changing them changes scores.
type Config struct {
	SampleStride    int     // pixel sampling step for weight/hue statistics
	LineStride      int     // grid step for edge direction binning
	EdgeThreshold   float64 // minimum gradient magnitude counted as an edge
	FocalBlockSize  int     // side of the focal-region scan blocks
	FocalThreshold  float64 // minimum strength for a focal region, in [0,1]
	MaxFocalRegions int
	MaxColors       int
}

// DefaultConfig returns the tuning used across the pipeline.
func DefaultConfig() Config {
	return Config{
		SampleStride:    4,
		LineStride:      8,
		EdgeThreshold:   30,
		FocalBlockSize:  32,
		FocalThreshold:  0.45,
		MaxFocalRegions: 5,
		MaxColors:       3,
	}
}

// scoreWeights combines the six sub-scores into the overall score.
// They must sum to 1.
var scoreWeights = map[string]float64{
	"rule_of_thirds":       0.25,
	"leading_lines":        0.15,
	"visual_balance":       0.20,
	"symmetry":             0.10,
	"focal_point_strength": 0.15,
	"color_harmony":        0.15,
}

// harmonicBands are the named hue ranges rewarded by the color harmony
// score. Hues between bands read as muddy transitions.
var harmonicBands = []struct {
	name   string
	lo, hi float64
}{
	{"red_orange", 0, 40},
	{"yellow_gold", 40, 70},
	{"green", 80, 160},
	{"blue", 180, 260},
	{"purple_magenta", 270, 330},
	{"red_orange", 340, 360},
}

// New creates an Analyzer with the default configuration.
func New() *Analyzer {
	return &Analyzer{config: DefaultConfig()}
}

// NewWithConfig creates an Analyzer with custom tuning.
func NewWithConfig(config Config) *Analyzer {
	return &Analyzer{config: config}
}

// Analyze computes the composition result for a frame. The frame is only
// read; identical input bytes always produce identical results.
func (a *Analyzer) Analyze(f raster.Frame) (Result, error) {
	if err := f.Validate(); err != nil {
		return Result{}, err
	}

	var res Result
	res.RuleOfThirds, res.GridPoints = a.ruleOfThirds(f)
	res.LeadingLines, res.DominantLines = a.leadingLines(f)
	res.VisualBalance, res.BalanceCenter = a.visualBalance(f)
	res.Symmetry = a.symmetry(f)
	res.FocalPointStrength, res.FocalRegions = a.focalRegions(f)
	res.ColorHarmony = a.colorHarmony(f)
	res.DominantColors = a.dominantColors(f)

	res.OverallScore = clamp100(
		scoreWeights["rule_of_thirds"]*res.RuleOfThirds +
			scoreWeights["leading_lines"]*res.LeadingLines +
			scoreWeights["visual_balance"]*res.VisualBalance +
			scoreWeights["symmetry"]*res.Symmetry +
			scoreWeights["focal_point_strength"]*res.FocalPointStrength +
			scoreWeights["color_harmony"]*res.ColorHarmony)

	// More detected structure means more signal behind the scores.
	res.AnalysisConfidence = clamp01(0.3 +
		0.1*float64(len(res.FocalRegions)) +
		0.07*float64(len(res.DominantLines)))

	return res, nil
}

// visualWeight estimates how strongly a neighborhood draws the eye:
// luminance contrast scaled by average saturation.
func (a *Analyzer) visualWeight(f raster.Frame, cx, cy, radius int) float64 {
	_, variance, count := f.BlockStats(cx-radius, cy-radius, 2*radius, 2*radius, a.config.SampleStride)
	if count == 0 {
		return 0
	}
	contrast := math.Sqrt(variance) / 128

	var satSum float64
	satCount := 0
	x0, y0 := maxInt(cx-radius, 0), maxInt(cy-radius, 0)
	x1, y1 := minInt(cx+radius, f.Width), minInt(cy+radius, f.Height)
	for y := y0; y < y1; y += a.config.SampleStride {
		for x := x0; x < x1; x += a.config.SampleStride {
			r, g, b, _ := f.RGBA(x, y)
			_, s, _ := raster.RGBToHSV(r, g, b)
			satSum += s
			satCount++
		}
	}
	avgSat := 0.0
	if satCount > 0 {
		avgSat = satSum / float64(satCount)
	}

	return contrast * (0.25 + avgSat)
}

func (a *Analyzer) ruleOfThirds(f raster.Frame) (float64, []GridPoint) {
	thirdX, thirdY := f.Width/3, f.Height/3
	radius := maxInt(8, minInt(f.Width, f.Height)/12)

	intersections := [4][2]int{
		{thirdX, thirdY},
		{2 * thirdX, thirdY},
		{thirdX, 2 * thirdY},
		{2 * thirdX, 2 * thirdY},
	}

	points := make([]GridPoint, 0, 4)
	best := 0.0
	for _, p := range intersections {
		w := a.visualWeight(f, p[0], p[1], radius)
		points = append(points, GridPoint{X: p[0], Y: p[1], Weight: w})
		if w > best {
			best = w
		}
	}

	// Reward weight at a thirds intersection relative to dead center, so a
	// subject on the grid beats the same subject centered.
	center := a.visualWeight(f, f.Width/2, f.Height/2, radius)
	score := 50 * (1 + (best-center)/(best+center+1e-6))
	return clamp100(score), points
}

func (a *Analyzer) leadingLines(f raster.Frame) (float64, []DominantLine) {
	const buckets = 8
	const bucketWidth = 180.0 / buckets

	var strength [buckets]float64
	edgeSamples := 0
	total := 0.0
	for y := 0; y < f.Height; y += a.config.LineStride {
		for x := 0; x < f.Width; x += a.config.LineStride {
			mag, angle := f.Sobel(x, y)
			if mag < a.config.EdgeThreshold {
				continue
			}
			b := int(angle / bucketWidth)
			if b >= buckets {
				b = buckets - 1
			}
			strength[b] += mag
			total += mag
			edgeSamples++
		}
	}

	var lines []DominantLine
	if edgeSamples >= 20 && total > 0 {
		for b := 0; b < buckets; b++ {
			share := strength[b] / total
			if share <= 0.2 {
				continue
			}
			// Gradients point across a line, so rotate by 90 degrees to get
			// the line direction itself.
			gradAngle := float64(b)*bucketWidth + bucketWidth/2
			lineAngle := math.Mod(gradAngle+90, 180)
			lines = append(lines, DominantLine{
				Angle:       lineAngle,
				Strength:    share,
				Orientation: classifyOrientation(lineAngle),
			})
		}
	}

	topShare := 0.0
	for _, l := range lines {
		if l.Strength > topShare {
			topShare = l.Strength
		}
	}
	score := 25*float64(len(lines)) + 50*topShare
	return clamp100(score), lines
}

func classifyOrientation(lineAngle float64) Orientation {
	switch {
	case lineAngle <= 15 || lineAngle >= 165:
		return Horizontal
	case math.Abs(lineAngle-90) <= 15:
		return Vertical
	default:
		return Diagonal
	}
}

func (a *Analyzer) visualBalance(f raster.Frame) (float64, Point) {
	var sumW, sumX, sumY float64
	for y := 0; y < f.Height; y += a.config.SampleStride {
		for x := 0; x < f.Width; x += a.config.SampleStride {
			w := f.Luminance(x, y)
			sumW += w
			sumX += w * float64(x)
			sumY += w * float64(y)
		}
	}

	center := Point{X: 0.5, Y: 0.5}
	if sumW == 0 {
		// A pitch-black frame has no weight anywhere; treat it as balanced.
		return 100, center
	}

	balance := Point{
		X: sumX / sumW / float64(f.Width),
		Y: sumY / sumW / float64(f.Height),
	}
	dx, dy := balance.X-center.X, balance.Y-center.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	// Half the unit diagonal is the farthest a centroid can sit from center.
	score := 100 * (1 - dist/math.Sqrt2*2)
	return clamp100(score), balance
}

func (a *Analyzer) symmetry(f raster.Frame) float64 {
	var diffSum float64
	count := 0
	for y := 0; y < f.Height; y += a.config.SampleStride {
		for x := 0; x < f.Width/2; x += a.config.SampleStride {
			diffSum += math.Abs(f.Luminance(x, y) - f.Luminance(f.Width-1-x, y))
			count++
		}
	}
	if count == 0 {
		return 50
	}
	return clamp100(100 * (1 - diffSum/float64(count)/128))
}

func (a *Analyzer) focalRegions(f raster.Frame) (float64, []FocalRegion) {
	block := a.config.FocalBlockSize
	var regions []FocalRegion
	maxStrength := 0.0

	for y := 0; y < f.Height; y += block {
		for x := 0; x < f.Width; x += block {
			w := minInt(block, f.Width-x)
			h := minInt(block, f.Height-y)

			_, variance, _ := f.BlockStats(x, y, w, h, a.config.SampleStride)
			contrast := math.Min(1, math.Sqrt(variance)/80)

			edges, samples := 0, 0
			for by := y; by < y+h; by += a.config.SampleStride {
				for bx := x; bx < x+w; bx += a.config.SampleStride {
					mag, _ := f.Sobel(bx, by)
					if mag > a.config.EdgeThreshold {
						edges++
					}
					samples++
				}
			}
			density := 0.0
			if samples > 0 {
				density = math.Min(1, float64(edges)/float64(samples)/0.3)
			}

			strength := 0.6*contrast + 0.4*density
			if strength > maxStrength {
				maxStrength = strength
			}
			if strength > a.config.FocalThreshold {
				regions = append(regions, FocalRegion{
					X: x, Y: y, Width: w, Height: h,
					Strength: clamp01(strength),
				})
			}
		}
	}

	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Strength != regions[j].Strength {
			return regions[i].Strength > regions[j].Strength
		}
		// Deterministic order for equal strengths.
		if regions[i].Y != regions[j].Y {
			return regions[i].Y < regions[j].Y
		}
		return regions[i].X < regions[j].X
	})
	if len(regions) > a.config.MaxFocalRegions {
		regions = regions[:a.config.MaxFocalRegions]
	}

	if len(regions) == 0 {
		return clamp100(maxStrength * 100), nil
	}
	return clamp100(regions[0].Strength * 100), regions
}

func (a *Analyzer) colorHarmony(f raster.Frame) float64 {
	inBand, chromatic := 0, 0
	for y := 0; y < f.Height; y += a.config.SampleStride {
		for x := 0; x < f.Width; x += a.config.SampleStride {
			r, g, b, _ := f.RGBA(x, y)
			h, s, v := raster.RGBToHSV(r, g, b)
			if s < 0.15 || v < 0.1 {
				continue
			}
			chromatic++
			for _, band := range harmonicBands {
				if h >= band.lo && h < band.hi {
					inBand++
					break
				}
			}
		}
	}
	if chromatic == 0 {
		// Achromatic frames carry no harmony signal either way.
		return 50
	}
	return clamp100(100 * float64(inBand) / float64(chromatic))
}

func (a *Analyzer) dominantColors(f raster.Frame) []DominantColor {
	counts := make(map[uint32]int)
	total := 0
	for y := 0; y < f.Height; y += a.config.SampleStride {
		for x := 0; x < f.Width; x += a.config.SampleStride {
			r, g, b, _ := f.RGBA(x, y)
			// Quantize to 4 bits per channel to merge near-identical colors.
			key := uint32(r&0xf0)<<16 | uint32(g&0xf0)<<8 | uint32(b&0xf0)
			counts[key]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	type kv struct {
		key   uint32
		count int
	}
	sorted := make([]kv, 0, len(counts))
	for k, c := range counts {
		sorted = append(sorted, kv{k, c})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].key < sorted[j].key
	})

	n := minInt(a.config.MaxColors, len(sorted))
	colors := make([]DominantColor, 0, n)
	for _, e := range sorted[:n] {
		colors = append(colors, DominantColor{
			R:          uint8(e.key >> 16),
			G:          uint8(e.key >> 8),
			B:          uint8(e.key),
			Percentage: 100 * float64(e.count) / float64(total),
		})
	}
	return colors
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

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
