package scene

import (
	"math"

	"github.com/crepsource/video-editor-sub000/pkg/raster"
)

// Motion level thresholds over the combined motion score.
const (
	motionLowFloor     = 20.0
	motionMediumFloor  = 40.0
	motionHighFloor    = 60.0
	motionExtremeFloor = 80.0
)

// motionFeatures infers movement indicators from a single frame. True motion
// needs temporal data; everything here reads blur and edge smear as a proxy,
// matching how a human would judge a paused frame.
func (c *Classifier) motionFeatures(f raster.Frame, vf VisualFeatures) MotionFeatures {
	edgeChange, blur, hShare, vShare := c.edgeAndBlurStats(f)

	mf := MotionFeatures{
		EdgeChangeIntensity: edgeChange,
		BlurIndicator:       blur,
		MotionVectors:       c.motionVectors(f),
	}
	mf.CameraMovement = c.cameraMovement(blur, edgeChange, hShare, vShare, vf)
	return mf
}

// edgeAndBlurStats walks the sampling grid once, collecting the mean edge
// magnitude, the smeared-edge ratio and the orientation split of strong
// gradients. Loops start at 0 so the grid stays stride-aligned; Sobel's
// border guard covers the neighbor reads.
func (c *Classifier) edgeAndBlurStats(f raster.Frame) (edgeChange, blur, horizShare, vertShare float64) {
	stride := c.config.SampleStride

	var magSum float64
	samples := 0
	edges, smeared := 0, 0
	horiz, vert := 0, 0

	for y := 0; y < f.Height; y += stride {
		for x := 0; x < f.Width; x += stride {
			mag, angle := f.Sobel(x, y)
			magSum += mag
			samples++
			if mag < c.config.EdgeThreshold {
				continue
			}
			edges++

			// Gradient near 90 degrees means a horizontal structure (streaks
			// from a pan); near 0/180 means a vertical one (tilt streaks).
			if angle >= 67.5 && angle < 112.5 {
				horiz++
			} else if angle < 22.5 || angle >= 157.5 {
				vert++
			}

			center := f.Luminance(x, y)
			var neighborSum float64
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if f.In(x+dx, y+dy) {
						neighborSum += f.Luminance(x+dx, y+dy)
						neighbors++
					}
				}
			}
			if neighbors > 0 && math.Abs(center-neighborSum/float64(neighbors)) < 10 {
				smeared++
			}
		}
	}

	if samples > 0 {
		edgeChange = math.Min(100, magSum/float64(samples))
	}
	if edges > 0 {
		blur = float64(smeared) / float64(edges) * 100
		horizShare = float64(horiz) / float64(edges)
		vertShare = float64(vert) / float64(edges)
	}
	return edgeChange, blur, horizShare, vertShare
}

// motionVectors produces one approximate vector per cell of a 4x4 grid,
// pointing along the dominant smear direction with magnitude scaled by the
// cell's mean gradient. Cells without strong edges are skipped.
func (c *Classifier) motionVectors(f raster.Frame) []MotionVector {
	const grid = 4
	cellW := f.Width / grid
	cellH := f.Height / grid
	if cellW < 2 || cellH < 2 {
		return nil
	}

	var vectors []MotionVector
	for gy := 0; gy < grid; gy++ {
		for gx := 0; gx < grid; gx++ {
			x0, y0 := gx*cellW, gy*cellH

			var gxSum, gySum, magSum float64
			count := 0
			for y := y0; y < y0+cellH; y += c.config.SampleStride {
				for x := x0; x < x0+cellW; x += c.config.SampleStride {
					mag, angle := f.Sobel(x, y)
					if mag < c.config.EdgeThreshold {
						continue
					}
					rad := angle * math.Pi / 180
					gxSum += math.Cos(rad) * mag
					gySum += math.Sin(rad) * mag
					magSum += mag
					count++
				}
			}
			if count < 4 {
				continue
			}

			// Smear runs perpendicular to the mean gradient.
			scale := math.Min(1, magSum/float64(count)/255)
			vectors = append(vectors, MotionVector{
				X:  x0 + cellW/2,
				Y:  y0 + cellH/2,
				DX: -gySum / magSum * scale,
				DY: gxSum / magSum * scale,
			})
		}
	}
	return vectors
}

// cameraMovement classifies the camera motion type from blur level, edge
// orientation dominance and the focus split.
func (c *Classifier) cameraMovement(blur, edgeChange, horizShare, vertShare float64, vf VisualFeatures) CameraMovement {
	cm := CameraMovement{
		Intensity: math.Min(100, blur*0.7+edgeChange*0.3),
	}

	switch {
	case blur > 55:
		cm.Detected = true
		switch {
		case horizShare > 0.5:
			cm.Type = CameraPan
		case vertShare > 0.5:
			cm.Type = CameraTilt
		default:
			cm.Type = CameraShake
		}
	case blur > 35:
		cm.Detected = true
		if vf.DepthOfField > 50 && vf.ForegroundFocus > 60 {
			cm.Type = CameraZoom
		} else {
			cm.Type = CameraDolly
		}
	default:
		cm.Intensity = blur * 0.5
	}
	return cm
}

// classifyMotion buckets the combined motion score into a level with a fixed
// per-level confidence. Mid-range levels get lower confidence because single
// frame evidence is weakest there.
func classifyMotion(mf MotionFeatures) (MotionLevel, float64) {
	score := 0.4*mf.BlurIndicator + 0.3*mf.CameraMovement.Intensity + 0.3*mf.EdgeChangeIntensity

	switch {
	case score < motionLowFloor:
		return MotionStatic, 85
	case score < motionMediumFloor:
		return MotionLow, 75
	case score < motionHighFloor:
		return MotionMedium, 70
	case score < motionExtremeFloor:
		return MotionHigh, 75
	default:
		return MotionExtreme, 80
	}
}
