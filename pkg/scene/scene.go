// Package scene classifies a frame's scene type, shot framing and apparent
// motion level using pixel heuristics only. The classifier is deterministic
// and pure: identical frame bytes always produce identical classifications.
package scene

import (
	"fmt"

	"github.com/crepsource/video-editor-sub000/pkg/raster"
)

// Config tunes the classifier's sampling and detection parameters.
type Config struct {
	// FaceBlockSize is the scan window for the skin-tone face heuristic.
	FaceBlockSize int
	// FaceScanStep is the scan window step, half the block for overlap.
	FaceScanStep int
	// MaxFaceRegions caps the reported face regions.
	MaxFaceRegions int
	// SampleStride is the pixel sampling step for whole-frame passes.
	SampleStride int
	// EdgeThreshold is the Sobel magnitude above which a sample counts as
	// an edge.
	EdgeThreshold float64
}

// DefaultConfig returns the production parameters.
func DefaultConfig() Config {
	return Config{
		FaceBlockSize:  32,
		FaceScanStep:   16,
		MaxFaceRegions: 5,
		SampleStride:   4,
		EdgeThreshold:  30,
	}
}

// Classifier derives scene, shot and motion labels from a frame.
type Classifier struct {
	config Config
}

// New returns a Classifier with default configuration.
func New() *Classifier {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig returns a Classifier with the given configuration. Zero
// values fall back to defaults.
func NewWithConfig(cfg Config) *Classifier {
	def := DefaultConfig()
	if cfg.FaceBlockSize <= 0 {
		cfg.FaceBlockSize = def.FaceBlockSize
	}
	if cfg.FaceScanStep <= 0 {
		cfg.FaceScanStep = def.FaceScanStep
	}
	if cfg.MaxFaceRegions <= 0 {
		cfg.MaxFaceRegions = def.MaxFaceRegions
	}
	if cfg.SampleStride <= 0 {
		cfg.SampleStride = def.SampleStride
	}
	if cfg.EdgeThreshold <= 0 {
		cfg.EdgeThreshold = def.EdgeThreshold
	}
	return &Classifier{config: cfg}
}

// evidence bundles everything the scene rules may consult.
type evidence struct {
	visual  VisualFeatures
	shot    ShotType
	context SceneContext
	motion  MotionLevel
	stats   contextStats
}

// sceneRule is one entry of the ordered cascade. The first rule whose
// predicate matches decides the provisional scene type.
type sceneRule struct {
	name       string
	matches    func(evidence) bool
	scene      SceneType
	confidence float64
}

// The cascade runs most-specific first: hard evidence (text, many subjects)
// beats framing-derived guesses, and the final rule always matches.
var sceneRules = []sceneRule{
	{
		name:       "title card",
		matches:    func(e evidence) bool { return len(e.visual.TextRegions) > 2 },
		scene:      SceneTitleCard,
		confidence: 80,
	},
	{
		name:       "crowd",
		matches:    func(e evidence) bool { return e.visual.SubjectCount > 5 },
		scene:      SceneCrowd,
		confidence: 75,
	},
	{
		name:       "dialogue",
		matches:    func(e evidence) bool { return e.visual.SubjectCount > 2 },
		scene:      SceneDialogue,
		confidence: 70,
	},
	{
		// Must run before the framing rules: a blank frame classifies as
		// extreme_wide through the no-face shot fallback, and establishing@65
		// would overstate what a featureless frame supports.
		name: "featureless frame",
		matches: func(e evidence) bool {
			return e.visual.BackgroundComplexity < 1 && e.visual.ForegroundFocus == 0 &&
				e.visual.SubjectCount == 0 && len(e.visual.TextRegions) == 0
		},
		scene:      SceneUnknown,
		confidence: 30,
	},
	{
		name:       "establishing",
		matches:    func(e evidence) bool { return e.shot == ShotExtremeWide },
		scene:      SceneEstablishing,
		confidence: 65,
	},
	{
		name: "landscape",
		matches: func(e evidence) bool {
			return e.shot == ShotWide && e.context.Setting == SettingOutdoor
		},
		scene:      SceneLandscape,
		confidence: 70,
	},
	{
		name: "wide",
		matches: func(e evidence) bool {
			return e.shot == ShotWide || e.shot == ShotMediumWide
		},
		scene:      SceneWideShot,
		confidence: 60,
	},
	{
		name: "close-up",
		matches: func(e evidence) bool {
			return e.shot == ShotExtremeCloseUp || e.shot == ShotCloseUp || e.shot == ShotMediumCloseUp
		},
		scene:      SceneCloseUp,
		confidence: 70,
	},
	{
		name:       "default medium",
		matches:    func(e evidence) bool { return true },
		scene:      SceneMediumShot,
		confidence: 55,
	},
}

// Classify runs the full scene/shot/motion pass over the frame.
func (c *Classifier) Classify(f raster.Frame) (Classification, error) {
	if err := f.Validate(); err != nil {
		return Classification{}, fmt.Errorf("scene: %w", err)
	}

	vf := c.visualFeatures(f)
	mf := c.motionFeatures(f, vf)
	stats := c.gatherContext(f)
	ctx := c.sceneContext(stats)

	shot, shotConf := c.classifyShot(vf, f.Width*f.Height)
	motion, motionConf := classifyMotion(mf)

	ev := evidence{visual: vf, shot: shot, context: ctx, motion: motion, stats: stats}
	sceneType, sceneConf := classifyScene(ev)

	return Classification{
		PrimarySceneType: sceneType,
		SceneConfidence:  sceneConf,
		ShotType:         shot,
		ShotConfidence:   shotConf,
		MotionLevel:      motion,
		MotionConfidence: motionConf,
		VisualFeatures:   vf,
		MotionFeatures:   mf,
		SceneContext:     ctx,

		ClassificationConfidence: (0.4*shotConf + 0.4*sceneConf + 0.2*motionConf) / 100,
	}, nil
}

// classifyShot derives the framing from face evidence: the area ratio of the
// largest face region against the frame. Without faces it falls back to the
// focus split.
func (c *Classifier) classifyShot(vf VisualFeatures, frameArea int) (ShotType, float64) {
	if len(vf.FaceRegions) == 0 {
		switch {
		case vf.ForegroundFocus > 70:
			return ShotMedium, 60
		case vf.BackgroundComplexity > 60:
			return ShotWide, 55
		default:
			return ShotExtremeWide, 50
		}
	}

	if len(vf.FaceRegions) == 2 {
		a0 := vf.FaceRegions[0].Width * vf.FaceRegions[0].Height
		a1 := vf.FaceRegions[1].Width * vf.FaceRegions[1].Height
		small, large := minInt(a0, a1), maxInt(a0, a1)
		if large > 0 && float64(small)/float64(large) >= 0.4 {
			return ShotTwoShot, 75
		}
		return ShotOverShoulder, 70
	}

	largest := 0
	for _, fr := range vf.FaceRegions {
		if a := fr.Width * fr.Height; a > largest {
			largest = a
		}
	}
	ratio := float64(largest) / float64(frameArea)

	switch {
	case ratio > 0.15:
		return ShotExtremeCloseUp, 90
	case ratio > 0.08:
		return ShotCloseUp, 85
	case ratio > 0.04:
		return ShotMediumCloseUp, 80
	case ratio > 0.02:
		return ShotMedium, 75
	case ratio > 0.01:
		return ShotMediumWide, 70
	case ratio > 0.005:
		return ShotWide, 70
	default:
		return ShotExtremeWide, 65
	}
}

// classifyScene runs the rule cascade, then applies the context corrections.
func classifyScene(ev evidence) (SceneType, float64) {
	var (
		scene SceneType
		conf  float64
	)
	for _, rule := range sceneRules {
		if rule.matches(ev) {
			scene, conf = rule.scene, rule.confidence
			break
		}
	}
	return correctForContext(scene, conf, ev)
}

// correctForContext reconciles the framing-derived scene type with the
// environment inference. Contradictions (a landscape indoors) flip to the
// consistent type at slightly lower confidence; strong environmental
// signatures specialize wide scenes into nature, urban or night variants.
func correctForContext(scene SceneType, conf float64, ev evidence) (SceneType, float64) {
	switch {
	case scene == SceneLandscape && ev.context.Setting == SettingIndoor:
		return SceneInterior, conf - 5
	case scene == SceneMediumShot && ev.context.Setting == SettingIndoor:
		return SceneInterior, conf
	case scene == SceneWideShot && ev.context.Setting == SettingIndoor:
		return SceneInterior, conf
	}

	wide := scene == SceneEstablishing || scene == SceneLandscape || scene == SceneWideShot
	if wide && ev.context.Setting == SettingOutdoor {
		switch {
		case ev.context.TimeOfDay == TimeNight:
			return SceneNight, conf
		case ev.stats.greenFrac > 0.35:
			return SceneNature, conf + 5
		case ev.visual.BackgroundComplexity > 70 && ev.stats.greenFrac < 0.1:
			return SceneUrban, conf
		case scene == SceneWideShot:
			return SceneExterior, conf
		}
	}

	if ev.motion == MotionExtreme && (scene == SceneWideShot || scene == SceneMediumShot) {
		return SceneAction, conf + 5
	}
	return scene, conf
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
