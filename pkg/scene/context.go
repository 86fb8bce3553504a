package scene

import (
	"math"

	"github.com/crepsource/video-editor-sub000/pkg/raster"
)

// contextStats holds the single-pass color and luminance statistics feeding
// the environment inference and the scene corrections.
type contextStats struct {
	meanLum      float64
	p5, p95      float64
	warmFrac     float64 // chromatic pixels in the warm hue band
	coolFrac     float64
	grayFrac     float64 // near-achromatic pixels
	greenFrac    float64 // vegetation band
	skyBlueFrac  float64 // sky-blue pixels in the top half only
	topMeanLum   float64
	topMeanSat   float64
	centerLum    float64
	borderLum    float64
	blockMeanVar float64 // variance of coarse block means, region uniformity
}

func (c *Classifier) gatherContext(f raster.Frame) contextStats {
	stride := c.config.SampleStride
	var st contextStats

	var lumSum, topLumSum, topSatSum float64
	var centerSum, borderSum float64
	samples, topSamples := 0, 0
	centerN, borderN := 0, 0
	warm, cool, gray, green, skyBlue := 0, 0, 0, 0, 0

	cx, cy := f.Width/4, f.Height/4
	for y := 0; y < f.Height; y += stride {
		for x := 0; x < f.Width; x += stride {
			r, g, b, _ := f.RGBA(x, y)
			h, s, v := raster.RGBToHSV(r, g, b)
			l := f.Luminance(x, y)

			lumSum += l
			samples++
			if y < f.Height/2 {
				topLumSum += l
				topSatSum += s
				topSamples++
				if h >= 180 && h < 250 && s > 0.25 && v > 0.5 {
					skyBlue++
				}
			}

			if x >= cx && x < f.Width-cx && y >= cy && y < f.Height-cy {
				centerSum += l
				centerN++
			} else {
				borderSum += l
				borderN++
			}

			if s < 0.1 {
				gray++
				continue
			}
			if s > 0.2 {
				if h < 90 || h >= 330 {
					warm++
				} else if h >= 90 && h < 270 {
					cool++
				}
				if h >= 70 && h < 170 {
					green++
				}
			}
		}
	}

	if samples > 0 {
		n := float64(samples)
		st.meanLum = lumSum / n
		st.warmFrac = float64(warm) / n
		st.coolFrac = float64(cool) / n
		st.grayFrac = float64(gray) / n
		st.greenFrac = float64(green) / n
	}
	if topSamples > 0 {
		st.topMeanLum = topLumSum / float64(topSamples)
		st.topMeanSat = topSatSum / float64(topSamples)
		st.skyBlueFrac = float64(skyBlue) / float64(topSamples)
	}
	if centerN > 0 {
		st.centerLum = centerSum / float64(centerN)
	}
	if borderN > 0 {
		st.borderLum = borderSum / float64(borderN)
	}

	st.p5, st.p95 = luminancePercentiles(f.Histogram(stride), 0.05, 0.95)
	st.blockMeanVar = blockMeanVariance(f)
	return st
}

// luminancePercentiles reads the lo and hi percentile bins off a histogram.
func luminancePercentiles(hist [256]int, lo, hi float64) (p5, p95 float64) {
	total := 0
	for _, n := range hist {
		total += n
	}
	if total == 0 {
		return 0, 0
	}

	loTarget := int(lo * float64(total))
	hiTarget := int(hi * float64(total))
	cum := 0
	p5, p95 = -1, -1
	for i, n := range hist {
		cum += n
		if p5 < 0 && cum >= loTarget {
			p5 = float64(i)
		}
		if p95 < 0 && cum >= hiTarget {
			p95 = float64(i)
		}
	}
	if p5 < 0 {
		p5 = 0
	}
	if p95 < 0 {
		p95 = 255
	}
	return p5, p95
}

// blockMeanVariance measures how uniform the frame is region to region: the
// variance of coarse block luminance means. Studio backdrops score near zero.
func blockMeanVariance(f raster.Frame) float64 {
	const grid = 4
	bw, bh := f.Width/grid, f.Height/grid
	if bw < 1 || bh < 1 {
		return 0
	}

	var sum, sumSq float64
	n := 0
	for gy := 0; gy < grid; gy++ {
		for gx := 0; gx < grid; gx++ {
			mean, _, count := f.BlockStats(gx*bw, gy*bh, bw, bh, 4)
			if count == 0 {
				continue
			}
			sum += mean
			sumSq += mean * mean
			n++
		}
	}
	if n == 0 {
		return 0
	}
	mean := sum / float64(n)
	v := sumSq/float64(n) - mean*mean
	if v < 0 {
		v = 0
	}
	return v
}

// sceneContext derives lighting, setting, time of day and weather hints from
// the gathered statistics. Each dimension is an ordered rule list; the first
// matching rule wins.
func (c *Classifier) sceneContext(st contextStats) SceneContext {
	ctx := SceneContext{
		Lighting:  classifyLighting(st),
		Setting:   classifySetting(st),
		TimeOfDay: classifyTimeOfDay(st),
	}
	ctx.WeatherHints = weatherHints(st)
	return ctx
}

func classifyLighting(st contextStats) Lighting {
	switch {
	case st.borderLum-st.centerLum > 50:
		return LightingBacklit
	case st.p95-st.p5 > 200:
		return LightingDramatic
	case st.meanLum > 180:
		return LightingBright
	case st.meanLum < 60:
		return LightingDim
	case st.skyBlueFrac > 0.08:
		return LightingNatural
	case st.warmFrac > 0.5:
		return LightingArtificial
	default:
		return LightingNatural
	}
}

func classifySetting(st contextStats) Setting {
	switch {
	case st.skyBlueFrac > 0.12:
		return SettingOutdoor
	case st.greenFrac > 0.3:
		return SettingOutdoor
	case st.blockMeanVar < 200 && st.meanLum > 100 && st.grayFrac > 0.6:
		return SettingStudio
	case st.warmFrac > 0.45 && st.skyBlueFrac < 0.02:
		return SettingIndoor
	default:
		return SettingUnknown
	}
}

func classifyTimeOfDay(st contextStats) TimeOfDay {
	switch {
	case st.meanLum < 50:
		return TimeNight
	case st.warmFrac > 0.55 && st.meanLum >= 80 && st.meanLum <= 170:
		return TimeGoldenHour
	case st.meanLum > 120 || st.skyBlueFrac > 0.08:
		return TimeDay
	default:
		return TimeUnknown
	}
}

func weatherHints(st contextStats) []string {
	var hints []string
	if st.skyBlueFrac > 0.2 {
		hints = append(hints, "clear")
	}
	if st.topMeanLum > 170 && st.topMeanSat < 0.12 && st.skyBlueFrac < 0.05 {
		hints = append(hints, "overcast")
	}
	if st.p95-st.p5 < 60 && st.grayFrac > 0.7 &&
		st.meanLum >= 90 && st.meanLum <= 180 && math.Abs(st.centerLum-st.borderLum) < 20 {
		hints = append(hints, "fog")
	}
	return hints
}
