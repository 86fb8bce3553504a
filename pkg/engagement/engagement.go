// Package engagement estimates how engaging a frame is for viewers by
// combining the composition, quality and scene results with a small number
// of direct pixel statistics. The calculator is deterministic and pure.
package engagement

import (
	"fmt"
	"math"
	"sort"

	"github.com/crepsource/video-editor-sub000/pkg/composition"
	"github.com/crepsource/video-editor-sub000/pkg/quality"
	"github.com/crepsource/video-editor-sub000/pkg/raster"
	"github.com/crepsource/video-editor-sub000/pkg/scene"
)

// Factor names key the weight tables below.
const (
	factorVisual      = "visual_interest"
	factorEmotional   = "emotional_appeal"
	factorHuman       = "human_presence"
	factorAction      = "action_intensity"
	factorColor       = "color_appeal"
	factorComposition = "composition_strength"
	factorTechnical   = "technical_quality"
	factorSceneAppeal = "scene_type_appeal"
)

// factorWeights combines the eight factors into the overall score.
var factorWeights = map[string]float64{
	factorVisual:      0.20,
	factorEmotional:   0.18,
	factorHuman:       0.15,
	factorAction:      0.12,
	factorColor:       0.10,
	factorComposition: 0.10,
	factorTechnical:   0.08,
	factorSceneAppeal: 0.07,
}

// predictionWeights maps each viewer-behavior prediction to its factor
// coefficients. Every row sums to 1.
var predictionWeights = map[string]map[string]float64{
	"attention_grabbing": {
		factorVisual: 0.30, factorAction: 0.20, factorColor: 0.20,
		factorEmotional: 0.15, factorSceneAppeal: 0.15,
	},
	"retention_potential": {
		factorEmotional: 0.25, factorHuman: 0.25, factorVisual: 0.20,
		factorComposition: 0.15, factorTechnical: 0.15,
	},
	"emotional_impact": {
		factorEmotional: 0.40, factorHuman: 0.25, factorColor: 0.20,
		factorSceneAppeal: 0.15,
	},
	"shareability": {
		factorEmotional: 0.25, factorVisual: 0.20, factorHuman: 0.20,
		factorAction: 0.20, factorColor: 0.15,
	},
}

// audienceWeights maps each audience segment to its factor coefficients.
// Every row sums to 1.
var audienceWeights = map[string]map[string]float64{
	"general": {
		factorVisual: 0.20, factorEmotional: 0.20, factorHuman: 0.15,
		factorTechnical: 0.15, factorComposition: 0.15, factorColor: 0.15,
	},
	"social_media": {
		factorHuman: 0.25, factorAction: 0.20, factorColor: 0.20,
		factorVisual: 0.20, factorEmotional: 0.15,
	},
	"professional": {
		factorTechnical: 0.30, factorComposition: 0.30, factorVisual: 0.20,
		factorSceneAppeal: 0.20,
	},
	"artistic": {
		factorComposition: 0.30, factorColor: 0.25, factorEmotional: 0.20,
		factorVisual: 0.15, factorTechnical: 0.10,
	},
}

// minimalFaceAppeal is reported when the frame holds no faces at all.
const minimalFaceAppeal = 10.0

// lightingMood scores the emotional warmth of each lighting class.
var lightingMood = map[scene.Lighting]float64{
	scene.LightingBright:     70,
	scene.LightingDim:        55,
	scene.LightingNatural:    75,
	scene.LightingArtificial: 60,
	scene.LightingDramatic:   85,
	scene.LightingBacklit:    65,
}

// intimacyByShot scores how close the framing feels.
var intimacyByShot = map[scene.ShotType]float64{
	scene.ShotExtremeCloseUp: 90,
	scene.ShotCloseUp:        85,
	scene.ShotMediumCloseUp:  75,
	scene.ShotMedium:         60,
	scene.ShotMediumWide:     50,
	scene.ShotWide:           35,
	scene.ShotExtremeWide:    25,
	scene.ShotTwoShot:        80,
	scene.ShotOverShoulder:   78,
}

// energyByMotion scores the kinetic feel of each motion level.
var energyByMotion = map[scene.MotionLevel]float64{
	scene.MotionStatic:  30,
	scene.MotionLow:     45,
	scene.MotionMedium:  65,
	scene.MotionHigh:    85,
	scene.MotionExtreme: 95,
}

// excitementByMotion scores raw motion excitement, spread wider than the
// emotional energy table.
var excitementByMotion = map[scene.MotionLevel]float64{
	scene.MotionStatic:  15,
	scene.MotionLow:     35,
	scene.MotionMedium:  60,
	scene.MotionHigh:    85,
	scene.MotionExtreme: 95,
}

// cameraEnergyBase scores each camera movement type before intensity scaling.
var cameraEnergyBase = map[scene.CameraMovementType]float64{
	scene.CameraPan:   55,
	scene.CameraTilt:  55,
	scene.CameraZoom:  70,
	scene.CameraDolly: 65,
	scene.CameraShake: 85,
}

// sceneDynamics scores how much is happening per scene type.
var sceneDynamics = map[scene.SceneType]float64{
	scene.SceneAction:    90,
	scene.SceneCrowd:     75,
	scene.SceneDialogue:  45,
	scene.SceneLandscape: 30,
	scene.SceneTitleCard: 20,
	scene.SceneCloseUp:   40,
}

// sceneTypeAppeal scores the intrinsic viewer draw of each scene type.
var sceneTypeAppeal = map[scene.SceneType]float64{
	scene.SceneEstablishing: 66,
	scene.SceneLandscape:    78,
	scene.SceneInterior:     58,
	scene.SceneExterior:     64,
	scene.SceneCloseUp:      75,
	scene.SceneMediumShot:   60,
	scene.SceneWideShot:     62,
	scene.SceneDialogue:     70,
	scene.SceneCrowd:        72,
	scene.SceneAction:       85,
	scene.SceneTitleCard:    45,
	scene.SceneNature:       80,
	scene.SceneUrban:        68,
	scene.SceneNight:        65,
	scene.SceneUnknown:      50,
}

// Config tunes the calculator's own pixel pass.
type Config struct {
	// SampleStride is the pixel sampling step for the palette pass.
	SampleStride int
	// EdgeThreshold is the Sobel magnitude above which a sample counts as
	// an edge for the complexity measure.
	EdgeThreshold float64
}

// DefaultConfig returns the production parameters.
func DefaultConfig() Config {
	return Config{SampleStride: 8, EdgeThreshold: 30}
}

// Calculator derives engagement estimates from a frame and its upstream
// analysis results.
type Calculator struct {
	config Config
}

// New returns a Calculator with default configuration.
func New() *Calculator {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig returns a Calculator with the given configuration. Zero
// values fall back to defaults.
func NewWithConfig(cfg Config) *Calculator {
	def := DefaultConfig()
	if cfg.SampleStride <= 0 {
		cfg.SampleStride = def.SampleStride
	}
	if cfg.EdgeThreshold <= 0 {
		cfg.EdgeThreshold = def.EdgeThreshold
	}
	return &Calculator{config: cfg}
}

// palette holds the calculator's own frame statistics.
type palette struct {
	warmFrac     float64
	coolFrac     float64
	edgeFrac     float64
	colorVariety float64 // distinct coarse colors, normalized to [0,1]
}

// Calculate combines the three upstream results with a light pixel pass into
// the engagement analysis. The frame must be the same one the upstream
// analyzers saw.
func (c *Calculator) Calculate(f raster.Frame, comp composition.Result, qual quality.Result, cls scene.Classification) (Analysis, error) {
	if err := f.Validate(); err != nil {
		return Analysis{}, fmt.Errorf("engagement: %w", err)
	}

	pal := c.scanPalette(f)

	details := Details{
		VisualInterest:  c.visualInterest(pal, comp, qual),
		EmotionalAppeal: c.emotionalAppeal(pal, qual, cls),
		HumanInterest:   c.humanInterest(f, cls),
		ActionDynamics:  c.actionDynamics(comp, cls),
	}

	factors := Factors{
		VisualInterest: clamp100(0.4*details.VisualInterest.Complexity +
			0.3*details.VisualInterest.ContrastAppeal +
			0.3*details.VisualInterest.Novelty),
		EmotionalAppeal: (details.EmotionalAppeal.ColorEmotion +
			details.EmotionalAppeal.LightingMood +
			details.EmotionalAppeal.Intimacy +
			details.EmotionalAppeal.Energy) / 4,
		HumanPresence: clamp100(0.4*details.HumanInterest.FaceAppeal +
			0.2*details.HumanInterest.Gesture +
			0.2*details.HumanInterest.EyeContact +
			0.2*details.HumanInterest.SocialContext),
		ActionIntensity: (details.ActionDynamics.MotionExcitement +
			details.ActionDynamics.CameraEnergy +
			details.ActionDynamics.SceneDynamics +
			details.ActionDynamics.Tension) / 4,
		ColorAppeal:         clamp100(0.5*comp.ColorHarmony + 0.5*qual.ColorSaturation),
		CompositionStrength: comp.OverallScore,
		TechnicalQuality:    qual.OverallScore,
		SceneTypeAppeal:     sceneTypeAppeal[cls.PrimarySceneType],
	}

	byName := factors.byName()
	return Analysis{
		OverallEngagementScore: clamp100(weighted(factorWeights, byName)),
		EngagementFactors:      factors,
		EngagementDetails:      details,
		EngagementPredictions: Predictions{
			AttentionGrabbing:  clamp100(weighted(predictionWeights["attention_grabbing"], byName)),
			RetentionPotential: clamp100(weighted(predictionWeights["retention_potential"], byName)),
			EmotionalImpact:    clamp100(weighted(predictionWeights["emotional_impact"], byName)),
			Shareability:       clamp100(weighted(predictionWeights["shareability"], byName)),
		},
		TargetAudienceAppeal: AudienceAppeal{
			General:      clamp100(weighted(audienceWeights["general"], byName)),
			SocialMedia:  clamp100(weighted(audienceWeights["social_media"], byName)),
			Professional: clamp100(weighted(audienceWeights["professional"], byName)),
			Artistic:     clamp100(weighted(audienceWeights["artistic"], byName)),
		},
		ConfidenceScore: (comp.AnalysisConfidence + qual.AnalysisConfidence +
			cls.ClassificationConfidence) / 3,
	}, nil
}

func (f Factors) byName() map[string]float64 {
	return map[string]float64{
		factorVisual:      f.VisualInterest,
		factorEmotional:   f.EmotionalAppeal,
		factorHuman:       f.HumanPresence,
		factorAction:      f.ActionIntensity,
		factorColor:       f.ColorAppeal,
		factorComposition: f.CompositionStrength,
		factorTechnical:   f.TechnicalQuality,
		factorSceneAppeal: f.SceneTypeAppeal,
	}
}

// weighted sums in sorted key order. Map iteration order varies per call and
// float addition is not associative, so a range over the map would make the
// low bits of the score differ between runs on identical input.
func weighted(row map[string]float64, factors map[string]float64) float64 {
	names := make([]string, 0, len(row))
	for name := range row {
		names = append(names, name)
	}
	sort.Strings(names)

	var sum float64
	for _, name := range names {
		sum += row[name] * factors[name]
	}
	return sum
}

// scanPalette samples the frame once for hue temperature, edge density and
// color variety.
func (c *Calculator) scanPalette(f raster.Frame) palette {
	stride := c.config.SampleStride

	warm, cool, edges, samples := 0, 0, 0, 0
	colors := make(map[uint32]struct{})
	for y := 0; y < f.Height; y += stride {
		for x := 0; x < f.Width; x += stride {
			r, g, b, _ := f.RGBA(x, y)
			h, s, _ := raster.RGBToHSV(r, g, b)
			if s > 0.2 {
				if h < 90 || h >= 330 {
					warm++
				} else if h >= 90 && h < 270 {
					cool++
				}
			}

			colors[uint32(r>>4)<<8|uint32(g>>4)<<4|uint32(b>>4)] = struct{}{}

			mag, _ := f.Sobel(x, y)
			if mag >= c.config.EdgeThreshold {
				edges++
			}
			samples++
		}
	}

	var pal palette
	if samples > 0 {
		pal.warmFrac = float64(warm) / float64(samples)
		pal.coolFrac = float64(cool) / float64(samples)
		pal.edgeFrac = float64(edges) / float64(samples)
	}
	pal.colorVariety = math.Min(1, float64(len(colors))/64)
	return pal
}

// visualInterest scores complexity, contrast appeal and novelty. Complexity
// is damped above 80 (clutter fatigues) and nudged up below 50 (minimalism
// still holds some interest).
func (c *Calculator) visualInterest(pal palette, comp composition.Result, qual quality.Result) VisualInterestDetails {
	complexity := clamp100(0.5*pal.edgeFrac/0.25*100 + 0.5*pal.colorVariety*100)
	switch {
	case complexity > 80:
		complexity = 80 + (complexity-80)*0.5
	case complexity < 50:
		complexity += (50 - complexity) * 0.3
	}

	contrastAppeal := clamp100(100 - math.Abs(qual.Contrast-65)*1.2)

	topColorPct := 100.0
	if len(comp.DominantColors) > 0 {
		topColorPct = comp.DominantColors[0].Percentage
	}
	novelty := clamp100(0.4*(100-topColorPct) +
		0.3*comp.LeadingLines +
		0.3*(100-comp.Symmetry))

	return VisualInterestDetails{
		Complexity:     complexity,
		ContrastAppeal: contrastAppeal,
		Novelty:        novelty,
	}
}

func (c *Calculator) emotionalAppeal(pal palette, qual quality.Result, cls scene.Classification) EmotionalAppealDetails {
	colorEmotion := clamp100(50 + pal.warmFrac*35 - pal.coolFrac*15 +
		qual.ColorDetails.AverageSaturation*25)

	intimacy := intimacyByShot[cls.ShotType]
	intimacy += math.Min(15, float64(len(cls.VisualFeatures.FaceRegions))*5)

	return EmotionalAppealDetails{
		ColorEmotion: colorEmotion,
		LightingMood: lightingMood[cls.SceneContext.Lighting],
		Intimacy:     clamp100(intimacy),
		Energy:       energyByMotion[cls.MotionLevel],
	}
}

// humanInterest scores the people-related draws. Without a single face the
// face appeal drops to a fixed minimum rather than zero: viewers still
// register implied human presence.
func (c *Calculator) humanInterest(f raster.Frame, cls scene.Classification) HumanInterestDetails {
	faces := cls.VisualFeatures.FaceRegions

	var faceAppeal, eyeContact float64
	if len(faces) == 0 {
		faceAppeal = minimalFaceAppeal
		eyeContact = 5
	} else {
		maxConf := 0.0
		for _, fr := range faces {
			if fr.Confidence > maxConf {
				maxConf = fr.Confidence
			}
		}
		faceAppeal = clamp100(50 + math.Min(30, float64(len(faces))*10) + maxConf*20)
		eyeContact = clamp100(40 + cls.VisualFeatures.ForegroundFocus*0.3 +
			faceCentrality(faces[0], f.Width, f.Height)*30)
	}

	gesture := clamp100(30 + float64(cls.VisualFeatures.SubjectCount)*8 +
		cls.MotionFeatures.BlurIndicator*0.2)

	var social float64
	switch n := cls.VisualFeatures.SubjectCount; {
	case n >= 3:
		social = 80
	case n == 2:
		social = 70
	case n == 1:
		social = 45
	default:
		social = 20
	}
	if cls.PrimarySceneType == scene.SceneDialogue || cls.PrimarySceneType == scene.SceneCrowd {
		social += 10
	}

	return HumanInterestDetails{
		FaceAppeal:    faceAppeal,
		Gesture:       gesture,
		EyeContact:    eyeContact,
		SocialContext: clamp100(social),
	}
}

// faceCentrality returns 1 for a face dead center and 0 at the corners.
func faceCentrality(fr scene.FaceRegion, width, height int) float64 {
	cx := float64(fr.X) + float64(fr.Width)/2
	cy := float64(fr.Y) + float64(fr.Height)/2
	dx := math.Abs(cx-float64(width)/2) / (float64(width) / 2)
	dy := math.Abs(cy-float64(height)/2) / (float64(height) / 2)
	return 1 - math.Min(1, math.Sqrt(dx*dx+dy*dy)/math.Sqrt2)
}

func (c *Calculator) actionDynamics(comp composition.Result, cls scene.Classification) ActionDynamicsDetails {
	excitement := excitementByMotion[cls.MotionLevel]

	cameraEnergy := 20.0
	if cm := cls.MotionFeatures.CameraMovement; cm.Detected {
		cameraEnergy = clamp100(0.6*cameraEnergyBase[cm.Type] + 0.4*cm.Intensity)
	}

	dynamics, ok := sceneDynamics[cls.PrimarySceneType]
	if !ok {
		dynamics = 50
	}

	var lightingTension float64
	switch cls.SceneContext.Lighting {
	case scene.LightingDramatic:
		lightingTension = 85
	case scene.LightingBacklit:
		lightingTension = 75
	case scene.LightingDim:
		lightingTension = 60
	default:
		lightingTension = 40
	}
	tension := clamp100(0.3*(100-comp.VisualBalance) + 0.3*excitement + 0.4*lightingTension)

	return ActionDynamicsDetails{
		MotionExcitement: excitement,
		CameraEnergy:     cameraEnergy,
		SceneDynamics:    dynamics,
		Tension:          tension,
	}
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
