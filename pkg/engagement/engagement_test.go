package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crepsource/video-editor-sub000/pkg/composition"
	"github.com/crepsource/video-editor-sub000/pkg/quality"
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

// midResults builds plausible mid-range upstream results.
func midResults() (composition.Result, quality.Result, scene.Classification) {
	comp := composition.Result{
		RuleOfThirds: 60, LeadingLines: 40, VisualBalance: 70, Symmetry: 55,
		FocalPointStrength: 50, ColorHarmony: 65, OverallScore: 58,
		DominantColors:     []composition.DominantColor{{R: 120, G: 110, B: 100, Percentage: 45}},
		AnalysisConfidence: 0.6,
	}
	qual := quality.Result{
		Sharpness: 70, Exposure: 80, Contrast: 60, ColorSaturation: 55,
		NoiseLevel: 85, MotionBlur: 75, OverallScore: 72,
		ColorDetails:       quality.ColorDetails{AverageSaturation: 0.4},
		AnalysisConfidence: 0.8,
	}
	cls := scene.Classification{
		PrimarySceneType: scene.SceneMediumShot,
		ShotType:         scene.ShotMedium,
		MotionLevel:      scene.MotionLow,
		VisualFeatures: scene.VisualFeatures{
			FaceRegions:     []scene.FaceRegion{{X: 140, Y: 90, Width: 48, Height: 48, Confidence: 0.8}},
			SubjectCount:    1,
			ForegroundFocus: 60,
		},
		SceneContext:             scene.SceneContext{Lighting: scene.LightingNatural},
		ClassificationConfidence: 0.55,
	}
	return comp, qual, cls
}

func TestCalculateInvalidFrame(t *testing.T) {
	c := New()
	comp, qual, cls := midResults()
	_, err := c.Calculate(raster.Frame{Width: 2, Height: 2, Pix: []byte{0}}, comp, qual, cls)
	require.Error(t, err)
}

func TestFactorWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, w := range factorWeights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestPredictionAndAudienceRowsSumToOne(t *testing.T) {
	for name, row := range predictionWeights {
		sum := 0.0
		for _, w := range row {
			sum += w
		}
		assert.InDeltaf(t, 1.0, sum, 1e-9, "prediction row %s", name)
	}
	for name, row := range audienceWeights {
		sum := 0.0
		for _, w := range row {
			sum += w
		}
		assert.InDeltaf(t, 1.0, sum, 1e-9, "audience row %s", name)
	}
}

func TestCalculateRanges(t *testing.T) {
	c := New()
	comp, qual, cls := midResults()
	res, err := c.Calculate(solidFrame(320, 240, 140, 120, 100), comp, qual, cls)
	require.NoError(t, err)

	scores := map[string]float64{
		"overall":              res.OverallEngagementScore,
		"visual_interest":      res.EngagementFactors.VisualInterest,
		"emotional_appeal":     res.EngagementFactors.EmotionalAppeal,
		"human_presence":       res.EngagementFactors.HumanPresence,
		"action_intensity":     res.EngagementFactors.ActionIntensity,
		"color_appeal":         res.EngagementFactors.ColorAppeal,
		"composition_strength": res.EngagementFactors.CompositionStrength,
		"technical_quality":    res.EngagementFactors.TechnicalQuality,
		"scene_type_appeal":    res.EngagementFactors.SceneTypeAppeal,
		"attention_grabbing":   res.EngagementPredictions.AttentionGrabbing,
		"retention_potential":  res.EngagementPredictions.RetentionPotential,
		"emotional_impact":     res.EngagementPredictions.EmotionalImpact,
		"shareability":         res.EngagementPredictions.Shareability,
		"general":              res.TargetAudienceAppeal.General,
		"social_media":         res.TargetAudienceAppeal.SocialMedia,
		"professional":         res.TargetAudienceAppeal.Professional,
		"artistic":             res.TargetAudienceAppeal.Artistic,
	}
	for name, v := range scores {
		assert.GreaterOrEqualf(t, v, 0.0, "%s below 0", name)
		assert.LessOrEqualf(t, v, 100.0, "%s above 100", name)
	}
	assert.GreaterOrEqual(t, res.ConfidenceScore, 0.0)
	assert.LessOrEqual(t, res.ConfidenceScore, 1.0)
}

func TestZeroFacesGiveMinimalFaceAppeal(t *testing.T) {
	c := New()
	comp, qual, cls := midResults()
	cls.VisualFeatures.FaceRegions = nil
	cls.VisualFeatures.SubjectCount = 0

	res, err := c.Calculate(solidFrame(160, 120, 128, 128, 128), comp, qual, cls)
	require.NoError(t, err)
	assert.Equal(t, minimalFaceAppeal, res.EngagementDetails.HumanInterest.FaceAppeal)
}

func TestFacesRaiseHumanPresence(t *testing.T) {
	c := New()
	comp, qual, cls := midResults()
	f := solidFrame(320, 240, 128, 128, 128)

	withFace, err := c.Calculate(f, comp, qual, cls)
	require.NoError(t, err)

	cls.VisualFeatures.FaceRegions = nil
	cls.VisualFeatures.SubjectCount = 0
	withoutFace, err := c.Calculate(f, comp, qual, cls)
	require.NoError(t, err)

	assert.Greater(t, withFace.EngagementFactors.HumanPresence,
		withoutFace.EngagementFactors.HumanPresence)
}

func TestMotionRaisesActionIntensity(t *testing.T) {
	c := New()
	comp, qual, cls := midResults()
	f := solidFrame(160, 120, 128, 128, 128)

	var prev float64
	for i, level := range []scene.MotionLevel{
		scene.MotionStatic, scene.MotionLow, scene.MotionMedium,
		scene.MotionHigh, scene.MotionExtreme,
	} {
		cls.MotionLevel = level
		res, err := c.Calculate(f, comp, qual, cls)
		require.NoError(t, err)
		if i > 0 {
			assert.Greaterf(t, res.EngagementFactors.ActionIntensity, prev,
				"action intensity did not rise at level %s", level)
		}
		prev = res.EngagementFactors.ActionIntensity
	}
}

func TestPassThroughFactors(t *testing.T) {
	c := New()
	comp, qual, cls := midResults()
	res, err := c.Calculate(solidFrame(160, 120, 128, 128, 128), comp, qual, cls)
	require.NoError(t, err)

	assert.Equal(t, comp.OverallScore, res.EngagementFactors.CompositionStrength)
	assert.Equal(t, qual.OverallScore, res.EngagementFactors.TechnicalQuality)
}

func TestSceneTypeAppealTableIsComplete(t *testing.T) {
	all := []scene.SceneType{
		scene.SceneEstablishing, scene.SceneLandscape, scene.SceneInterior,
		scene.SceneExterior, scene.SceneCloseUp, scene.SceneMediumShot,
		scene.SceneWideShot, scene.SceneDialogue, scene.SceneCrowd,
		scene.SceneAction, scene.SceneTitleCard, scene.SceneNature,
		scene.SceneUrban, scene.SceneNight, scene.SceneUnknown,
	}
	for _, st := range all {
		appeal, ok := sceneTypeAppeal[st]
		assert.Truef(t, ok, "scene type %s missing from appeal table", st)
		assert.Greaterf(t, appeal, 0.0, "scene type %s appeal not positive", st)
	}
}

func TestConfidenceBlend(t *testing.T) {
	c := New()
	comp, qual, cls := midResults()
	res, err := c.Calculate(solidFrame(160, 120, 128, 128, 128), comp, qual, cls)
	require.NoError(t, err)

	want := (comp.AnalysisConfidence + qual.AnalysisConfidence + cls.ClassificationConfidence) / 3
	assert.InDelta(t, want, res.ConfidenceScore, 1e-9)
}

func TestCalculateDeterministic(t *testing.T) {
	c := New()
	comp, qual, cls := midResults()

	// Non-dyadic fractions so any summation-order change shows up in the
	// low bits instead of cancelling out.
	comp.OverallScore = 58.300000000000004
	comp.ColorHarmony = 63.70000000000001
	comp.Symmetry = 54.9
	qual.OverallScore = 71.7
	qual.Contrast = 61.300000000000004
	qual.ColorDetails.AverageSaturation = 0.41000000000000003
	cls.ClassificationConfidence = 0.5700000000000001

	f := solidFrame(320, 240, 90, 140, 190)
	first, err := c.Calculate(f, comp, qual, cls)
	require.NoError(t, err)
	for i := 0; i < 200; i++ {
		again, err := c.Calculate(f, comp, qual, cls)
		require.NoError(t, err)
		require.Equalf(t, first, again, "analysis drifted on run %d", i)
	}
}

func TestWeightedSumBitStable(t *testing.T) {
	factors := map[string]float64{
		factorVisual: 57.1, factorEmotional: 63.3, factorHuman: 44.7,
		factorAction: 38.9, factorColor: 59.3, factorComposition: 58.1,
		factorTechnical: 71.7, factorSceneAppeal: 60.3,
	}
	first := weighted(factorWeights, factors)
	for i := 0; i < 1000; i++ {
		require.Equalf(t, first, weighted(factorWeights, factors),
			"weighted sum drifted on call %d", i)
	}
}

func BenchmarkCalculate(b *testing.B) {
	c := New()
	comp, qual, cls := midResults()
	f := solidFrame(640, 360, 120, 110, 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Calculate(f, comp, qual, cls)
	}
}
