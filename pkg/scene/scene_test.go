package scene

import (
	"reflect"
	"testing"

	"github.com/crepsource/video-editor-sub000/pkg/raster"
)

func solidFrame(width, height int, r, g, b uint8) raster.Frame {
	pix := make([]byte, width*height*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, 255
	}
	return raster.Frame{Width: width, Height: height, Pix: pix}
}

func paintRect(f raster.Frame, x0, y0, w, h int, r, g, b uint8) {
	for y := y0; y < y0+h && y < f.Height; y++ {
		for x := x0; x < x0+w && x < f.Width; x++ {
			i := (y*f.Width + x) * 4
			f.Pix[i], f.Pix[i+1], f.Pix[i+2] = r, g, b
		}
	}
}

// skinTone is well inside the RGB skin heuristic's acceptance region.
const (
	skinR uint8 = 200
	skinG uint8 = 140
	skinB uint8 = 100
)

func TestClassifyInvalidFrame(t *testing.T) {
	c := New()
	if _, err := c.Classify(raster.Frame{Width: 3, Height: 3, Pix: []byte{0}}); err == nil {
		t.Fatal("expected error for mismatched buffer")
	}
}

func TestFlatFrameClassification(t *testing.T) {
	c := New()
	res, err := c.Classify(solidFrame(320, 240, 128, 128, 128))
	if err != nil {
		t.Fatal(err)
	}

	if len(res.VisualFeatures.FaceRegions) != 0 {
		t.Errorf("flat gray frame produced %d face regions", len(res.VisualFeatures.FaceRegions))
	}
	if res.PrimarySceneType != SceneUnknown {
		t.Errorf("flat gray frame classified as %s, want unknown", res.PrimarySceneType)
	}
	if res.SceneConfidence > 50 {
		t.Errorf("flat gray frame scene confidence = %f, want low", res.SceneConfidence)
	}
	if res.MotionLevel != MotionStatic {
		t.Errorf("flat gray frame motion = %s, want static", res.MotionLevel)
	}
	if res.MotionFeatures.CameraMovement.Detected {
		t.Error("flat gray frame reported camera movement")
	}
}

func TestSkinRegionDetectedAsFace(t *testing.T) {
	f := solidFrame(320, 240, 100, 100, 100)
	paintRect(f, 100, 80, 60, 60, skinR, skinG, skinB)

	c := New()
	res, err := c.Classify(f)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.VisualFeatures.FaceRegions) == 0 {
		t.Fatal("skin-tone square produced no face regions")
	}
	face := res.VisualFeatures.FaceRegions[0]
	if face.Confidence <= 0 || face.Confidence > 1 {
		t.Errorf("face confidence = %f out of (0,1]", face.Confidence)
	}
	// The clustered region must sit on the painted square, not elsewhere.
	if face.X+face.Width < 100 || face.X > 160 || face.Y+face.Height < 80 || face.Y > 140 {
		t.Errorf("face region %+v does not cover the painted square", face)
	}
	if res.VisualFeatures.SubjectCount != len(res.VisualFeatures.FaceRegions) {
		t.Errorf("subject_count = %d with %d faces",
			res.VisualFeatures.SubjectCount, len(res.VisualFeatures.FaceRegions))
	}
}

func TestTwoFacesGiveTwoShot(t *testing.T) {
	f := solidFrame(320, 240, 90, 90, 90)
	paintRect(f, 40, 100, 40, 40, skinR, skinG, skinB)
	paintRect(f, 230, 100, 40, 40, skinR, skinG, skinB)

	c := New()
	res, err := c.Classify(f)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.VisualFeatures.FaceRegions) != 2 {
		t.Fatalf("got %d face regions, want 2", len(res.VisualFeatures.FaceRegions))
	}
	if res.ShotType != ShotTwoShot {
		t.Errorf("shot = %s, want two_shot", res.ShotType)
	}
}

func TestLargeFaceGivesCloseFraming(t *testing.T) {
	f := solidFrame(320, 240, 80, 80, 80)
	paintRect(f, 80, 40, 160, 160, skinR, skinG, skinB)

	c := New()
	res, err := c.Classify(f)
	if err != nil {
		t.Fatal(err)
	}

	switch res.ShotType {
	case ShotExtremeCloseUp, ShotCloseUp, ShotMediumCloseUp:
	default:
		t.Errorf("shot for a face filling a third of the frame = %s, want a close-up type", res.ShotType)
	}
	if res.PrimarySceneType != SceneCloseUp {
		t.Errorf("scene = %s, want close_up", res.PrimarySceneType)
	}
}

func TestDarkFrameNightContext(t *testing.T) {
	// Dark frame with faint texture so it does not hit the featureless rule.
	f := solidFrame(320, 240, 20, 20, 30)
	for y := 0; y < 240; y += 3 {
		for x := 0; x < 320; x += 3 {
			i := (y*320 + x) * 4
			f.Pix[i], f.Pix[i+1], f.Pix[i+2] = 45, 45, 60
		}
	}

	c := New()
	res, err := c.Classify(f)
	if err != nil {
		t.Fatal(err)
	}
	if res.SceneContext.TimeOfDay != TimeNight {
		t.Errorf("time_of_day = %s, want night", res.SceneContext.TimeOfDay)
	}
	if res.SceneContext.Lighting != LightingDim {
		t.Errorf("lighting = %s, want dim", res.SceneContext.Lighting)
	}
}

func TestSkyDrivesOutdoorDaylight(t *testing.T) {
	// Saturated sky blue over the top half, green field below.
	f := solidFrame(320, 240, 80, 160, 70)
	paintRect(f, 0, 0, 320, 120, 90, 150, 230)

	c := New()
	res, err := c.Classify(f)
	if err != nil {
		t.Fatal(err)
	}
	if res.SceneContext.Setting != SettingOutdoor {
		t.Errorf("setting = %s, want outdoor", res.SceneContext.Setting)
	}
	if res.SceneContext.TimeOfDay != TimeDay {
		t.Errorf("time_of_day = %s, want day", res.SceneContext.TimeOfDay)
	}
	if len(res.VisualFeatures.FaceRegions) != 0 {
		t.Errorf("sky/field frame produced face regions: %+v", res.VisualFeatures.FaceRegions)
	}
}

func TestMotionLevelOrdering(t *testing.T) {
	levels := []MotionLevel{MotionStatic, MotionLow, MotionMedium, MotionHigh, MotionExtreme}
	scores := []float64{10, 30, 50, 70, 90}
	for i, s := range scores {
		mf := MotionFeatures{BlurIndicator: s, EdgeChangeIntensity: s,
			CameraMovement: CameraMovement{Intensity: s}}
		level, conf := classifyMotion(mf)
		if level != levels[i] {
			t.Errorf("score %f -> %s, want %s", s, level, levels[i])
		}
		if conf <= 0 || conf > 100 {
			t.Errorf("score %f confidence = %f out of (0,100]", s, conf)
		}
	}
}

func TestSceneRuleCascadeOrder(t *testing.T) {
	// A frame with both text evidence and many subjects must resolve to
	// title_card because the text rule runs first.
	ev := evidence{
		visual: VisualFeatures{
			TextRegions:  []TextRegion{{}, {}, {}},
			SubjectCount: 7,
		},
		shot: ShotWide,
	}
	scene, conf := classifyScene(ev)
	if scene != SceneTitleCard {
		t.Errorf("scene = %s, want title_card over crowd", scene)
	}
	if conf != 80 {
		t.Errorf("title_card confidence = %f, want 80", conf)
	}
}

func TestIndoorCorrectionGivesInterior(t *testing.T) {
	ev := evidence{
		visual:  VisualFeatures{SubjectCount: 1, BackgroundComplexity: 40, ForegroundFocus: 30},
		shot:    ShotWide,
		context: SceneContext{Setting: SettingIndoor},
	}
	scene, _ := classifyScene(ev)
	if scene != SceneInterior {
		t.Errorf("wide indoor scene = %s, want interior", scene)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	f := solidFrame(320, 240, 100, 100, 100)
	paintRect(f, 100, 80, 60, 60, skinR, skinG, skinB)
	paintRect(f, 0, 0, 320, 60, 90, 150, 230)

	c := New()
	first, err := c.Classify(f)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Classify(f)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over identical bytes produced different classifications")
	}
}

func TestClassificationConfidenceRange(t *testing.T) {
	frames := []raster.Frame{
		solidFrame(160, 120, 128, 128, 128),
		solidFrame(1, 1, 255, 0, 0),
	}
	c := New()
	for _, f := range frames {
		res, err := c.Classify(f)
		if err != nil {
			t.Fatal(err)
		}
		if res.ClassificationConfidence < 0 || res.ClassificationConfidence > 1 {
			t.Errorf("classification_confidence = %f out of [0,1]", res.ClassificationConfidence)
		}
	}
}

func BenchmarkClassify(b *testing.B) {
	f := solidFrame(640, 360, 110, 110, 110)
	paintRect(f, 280, 100, 80, 80, skinR, skinG, skinB)
	c := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Classify(f)
	}
}
