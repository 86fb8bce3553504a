package scene

import (
	"math"
	"sort"

	"github.com/crepsource/video-editor-sub000/pkg/raster"
)

// faceCandidate is a scan block that passed the skin-tone and aspect checks.
type faceCandidate struct {
	x, y, w, h int
	confidence float64
}

// isSkinTone applies the classic RGB skin heuristic. It over-triggers on
// warm wood and sand; the ratio bounds in detectFaces compensate.
func isSkinTone(r, g, b uint8) bool {
	ri, gi, bi := int(r), int(g), int(b)
	return ri > 95 && gi > 40 && bi > 20 &&
		ri > gi && ri > bi &&
		ri-gi > 15 && ri-bi > 15
}

// detectFaces scans overlapping blocks for skin-tone density, clusters the
// accepted blocks into connected regions and keeps the strongest few. A block
// qualifies when its skin fraction is plausible for a face against background:
// near-zero means no face, near-one means a skin-colored wall.
func (c *Classifier) detectFaces(f raster.Frame) []FaceRegion {
	block := c.config.FaceBlockSize
	step := c.config.FaceScanStep

	var candidates []faceCandidate
	for y := 0; y+block <= f.Height || y == 0; y += step {
		bh := minInt(block, f.Height-y)
		if bh < block/2 {
			break
		}
		for x := 0; x+block <= f.Width || x == 0; x += step {
			bw := minInt(block, f.Width-x)
			if bw < block/2 {
				break
			}
			if float64(bw)/float64(bh) < 0.6 || float64(bw)/float64(bh) > 1.4 {
				continue
			}

			skin, total := 0, 0
			for py := y; py < y+bh; py += 2 {
				for px := x; px < x+bw; px += 2 {
					r, g, b, _ := f.RGBA(px, py)
					if isSkinTone(r, g, b) {
						skin++
					}
					total++
				}
			}
			if total == 0 {
				continue
			}

			ratio := float64(skin) / float64(total)
			if ratio <= 0.2 || ratio >= 0.9 {
				continue
			}
			candidates = append(candidates, faceCandidate{
				x: x, y: y, w: bw, h: bh,
				confidence: 1 - math.Abs(ratio-0.55)*2,
			})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	regions := clusterFaces(candidates)
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Confidence != regions[j].Confidence {
			return regions[i].Confidence > regions[j].Confidence
		}
		if regions[i].Y != regions[j].Y {
			return regions[i].Y < regions[j].Y
		}
		return regions[i].X < regions[j].X
	})
	if len(regions) > c.config.MaxFaceRegions {
		regions = regions[:c.config.MaxFaceRegions]
	}
	return regions
}

// clusterFaces merges overlapping or touching candidate blocks into bounding
// boxes so one face spanning many scan positions yields one region whose size
// tracks the actual skin area.
func clusterFaces(candidates []faceCandidate) []FaceRegion {
	parent := make([]int, len(candidates))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if a.x <= b.x+b.w && b.x <= a.x+a.w && a.y <= b.y+b.h && b.y <= a.y+a.h {
				parent[find(i)] = find(j)
			}
		}
	}

	boxes := make(map[int]*FaceRegion)
	for i, c := range candidates {
		root := find(i)
		box, ok := boxes[root]
		if !ok {
			boxes[root] = &FaceRegion{X: c.x, Y: c.y, Width: c.w, Height: c.h, Confidence: c.confidence}
			continue
		}
		x1 := maxInt(box.X+box.Width, c.x+c.w)
		y1 := maxInt(box.Y+box.Height, c.y+c.h)
		box.X = minInt(box.X, c.x)
		box.Y = minInt(box.Y, c.y)
		box.Width = x1 - box.X
		box.Height = y1 - box.Y
		if c.confidence > box.Confidence {
			box.Confidence = c.confidence
		}
	}

	regions := make([]FaceRegion, 0, len(boxes))
	for _, box := range boxes {
		regions = append(regions, *box)
	}
	return regions
}

// subjectCount estimates how many distinct subjects the frame holds. Face
// regions count directly; without faces it falls back to counting coarse
// blocks with strong local contrast, a rough stand-in for textured objects
// against a plain background.
func (c *Classifier) subjectCount(f raster.Frame, faces []FaceRegion) int {
	if len(faces) > 0 {
		return len(faces)
	}

	const block = 64
	count := 0
	for y := 0; y+block <= f.Height; y += block {
		for x := 0; x+block <= f.Width; x += block {
			_, variance, _ := f.BlockStats(x, y, block, block, 4)
			if math.Sqrt(variance) > 40 {
				count++
			}
		}
	}
	return minInt(count, 8)
}

// backgroundComplexity measures edge density over the outer quarter of the
// frame, scaled to [0,100].
func (c *Classifier) backgroundComplexity(f raster.Frame) float64 {
	mx := f.Width / 4
	my := f.Height / 4

	edges, total := 0, 0
	for y := 0; y < f.Height; y += c.config.SampleStride {
		for x := 0; x < f.Width; x += c.config.SampleStride {
			if x >= mx && x < f.Width-mx && y >= my && y < f.Height-my {
				continue
			}
			mag, _ := f.Sobel(x, y)
			if mag >= c.config.EdgeThreshold {
				edges++
			}
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return clamp100(float64(edges) / float64(total) / 0.3 * 100)
}

// focusSplit compares sharpness in the center half of the frame against the
// border ring. Sharpness here is Laplacian variance, the same focus measure
// the quality analyzer uses. It returns the foreground focus score (share of
// sharpness sitting in the center, [0,100]) and a depth-of-field score
// (imbalance between the two, [0,100], higher meaning shallower).
func (c *Classifier) focusSplit(f raster.Frame) (foregroundFocus, depthOfField float64) {
	cx := f.Width / 4
	cy := f.Height / 4

	var stats [2]struct {
		sum, sumSq float64
		count      int
	}
	for y := 0; y < f.Height; y += c.config.SampleStride {
		for x := 0; x < f.Width; x += c.config.SampleStride {
			region := 1 // border ring
			if x >= cx && x < f.Width-cx && y >= cy && y < f.Height-cy {
				region = 0 // center
			}
			l := f.Laplacian(x, y)
			stats[region].sum += l
			stats[region].sumSq += l * l
			stats[region].count++
		}
	}

	variance := func(i int) float64 {
		if stats[i].count == 0 {
			return 0
		}
		mean := stats[i].sum / float64(stats[i].count)
		v := stats[i].sumSq/float64(stats[i].count) - mean*mean
		if v < 0 {
			v = 0
		}
		return v
	}
	center, border := variance(0), variance(1)

	if center+border == 0 {
		return 0, 0
	}
	foregroundFocus = 100 * center / (center + border)
	depthOfField = 100 * math.Abs(center-border) / (center + border)
	return foregroundFocus, depthOfField
}

// detectTextRegions looks for blocks with the signature of rendered text:
// dense hard edges plus a bimodal luminance spread between dark strokes and a
// light background (or the inverse).
func (c *Classifier) detectTextRegions(f raster.Frame) []TextRegion {
	const (
		blockW     = 48
		blockH     = 24
		maxRegions = 8
	)

	var regions []TextRegion
	for y := 0; y+blockH <= f.Height; y += blockH {
		for x := 0; x+blockW <= f.Width; x += blockW {
			edges, total := 0, 0
			minL, maxL := 255.0, 0.0
			var sum, sumSq float64
			for py := y; py < y+blockH; py += 2 {
				for px := x; px < x+blockW; px += 2 {
					mag, _ := f.Sobel(px, py)
					if mag >= 60 {
						edges++
					}
					l := f.Luminance(px, py)
					minL = math.Min(minL, l)
					maxL = math.Max(maxL, l)
					sum += l
					sumSq += l * l
					total++
				}
			}
			if total == 0 {
				continue
			}

			mean := sum / float64(total)
			variance := sumSq/float64(total) - mean*mean
			if float64(edges)/float64(total) > 0.25 && variance > 2000 &&
				minL < 60 && maxL > 180 {
				regions = append(regions, TextRegion{X: x, Y: y, Width: blockW, Height: blockH})
				if len(regions) == maxRegions {
					return regions
				}
			}
		}
	}
	return regions
}

// visualFeatures runs the full subject-level pass.
func (c *Classifier) visualFeatures(f raster.Frame) VisualFeatures {
	faces := c.detectFaces(f)
	fg, dof := c.focusSplit(f)
	return VisualFeatures{
		FaceRegions:          faces,
		SubjectCount:         c.subjectCount(f, faces),
		BackgroundComplexity: c.backgroundComplexity(f),
		ForegroundFocus:      fg,
		DepthOfField:         dof,
		TextRegions:          c.detectTextRegions(f),
	}
}
