package scene

// SceneType is the primary narrative/visual category of a frame.
type SceneType string

// Scene types emitted by the rule cascade.
const (
	SceneEstablishing SceneType = "establishing"
	SceneLandscape    SceneType = "landscape"
	SceneInterior     SceneType = "interior"
	SceneExterior     SceneType = "exterior"
	SceneCloseUp      SceneType = "close_up"
	SceneMediumShot   SceneType = "medium_shot"
	SceneWideShot     SceneType = "wide_shot"
	SceneDialogue     SceneType = "dialogue_scene"
	SceneCrowd        SceneType = "crowd_scene"
	SceneAction       SceneType = "action_scene"
	SceneTitleCard    SceneType = "title_card"
	SceneNature       SceneType = "nature"
	SceneUrban        SceneType = "urban"
	SceneNight        SceneType = "night_scene"
	SceneUnknown      SceneType = "unknown"
)

// ShotType describes framing distance.
type ShotType string

// Shot types, ordered roughly from tightest to widest framing.
const (
	ShotExtremeCloseUp ShotType = "extreme_close_up"
	ShotCloseUp        ShotType = "close_up"
	ShotMediumCloseUp  ShotType = "medium_close_up"
	ShotMedium         ShotType = "medium"
	ShotMediumWide     ShotType = "medium_wide"
	ShotWide           ShotType = "wide"
	ShotExtremeWide    ShotType = "extreme_wide"
	ShotTwoShot        ShotType = "two_shot"
	ShotOverShoulder   ShotType = "over_shoulder"
)

// MotionLevel buckets the amount of apparent movement in a frame.
type MotionLevel string

// Motion levels, ordered.
const (
	MotionStatic  MotionLevel = "static"
	MotionLow     MotionLevel = "low"
	MotionMedium  MotionLevel = "medium"
	MotionHigh    MotionLevel = "high"
	MotionExtreme MotionLevel = "extreme"
)

// CameraMovementType is the inferred kind of camera motion.
type CameraMovementType string

// Camera movement types.
const (
	CameraPan   CameraMovementType = "pan"
	CameraTilt  CameraMovementType = "tilt"
	CameraZoom  CameraMovementType = "zoom"
	CameraDolly CameraMovementType = "dolly"
	CameraShake CameraMovementType = "shake"
)

// Lighting categorizes the dominant light character.
type Lighting string

// Lighting categories.
const (
	LightingBright     Lighting = "bright"
	LightingDim        Lighting = "dim"
	LightingNatural    Lighting = "natural"
	LightingArtificial Lighting = "artificial"
	LightingDramatic   Lighting = "dramatic"
	LightingBacklit    Lighting = "backlit"
)

// Setting is the inferred physical environment.
type Setting string

// Settings.
const (
	SettingIndoor  Setting = "indoor"
	SettingOutdoor Setting = "outdoor"
	SettingStudio  Setting = "studio"
	SettingUnknown Setting = "unknown"
)

// TimeOfDay is the inferred capture time.
type TimeOfDay string

// Times of day.
const (
	TimeDay        TimeOfDay = "day"
	TimeNight      TimeOfDay = "night"
	TimeGoldenHour TimeOfDay = "golden_hour"
	TimeUnknown    TimeOfDay = "unknown"
)

// FaceRegion is a rectangle that the skin-tone heuristic accepted as a
// probable face, with a confidence in [0,1]. This is a geometric proxy,
// not a trained detector.
type FaceRegion struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

// TextRegion is a block with the edge texture of rendered text.
type TextRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// VisualFeatures groups the subject-level observations.
type VisualFeatures struct {
	FaceRegions          []FaceRegion `json:"face_regions"`
	SubjectCount         int          `json:"subject_count"`
	BackgroundComplexity float64      `json:"background_complexity"`
	ForegroundFocus      float64      `json:"foreground_focus"`
	DepthOfField         float64      `json:"depth_of_field"`
	TextRegions          []TextRegion `json:"text_regions"`
}

// MotionVector is an approximate per-cell motion direction inferred from
// edge smear. Single-frame analysis cannot observe true motion; these are
// heuristic indicators only.
type MotionVector struct {
	X  int     `json:"x"`
	Y  int     `json:"y"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// CameraMovement is the inferred camera motion for the frame.
type CameraMovement struct {
	Detected  bool               `json:"detected"`
	Type      CameraMovementType `json:"type,omitempty"`
	Intensity float64            `json:"intensity"`
}

// MotionFeatures groups the movement-related observations.
type MotionFeatures struct {
	EdgeChangeIntensity float64        `json:"edge_change_intensity"`
	MotionVectors       []MotionVector `json:"motion_vectors"`
	BlurIndicator       float64        `json:"blur_indicator"`
	CameraMovement      CameraMovement `json:"camera_movement"`
}

// SceneContext groups the environment inferences.
type SceneContext struct {
	Lighting     Lighting  `json:"lighting"`
	Setting      Setting   `json:"setting"`
	TimeOfDay    TimeOfDay `json:"time_of_day"`
	WeatherHints []string  `json:"weather_hints"`
}

// Classification is the full scene/shot/motion result for one frame.
// The three categorical confidences are in [0,100]; the overall
// classification confidence is in [0,1].
type Classification struct {
	PrimarySceneType SceneType   `json:"primary_scene_type"`
	SceneConfidence  float64     `json:"scene_confidence"`
	ShotType         ShotType    `json:"shot_type"`
	ShotConfidence   float64     `json:"shot_confidence"`
	MotionLevel      MotionLevel `json:"motion_level"`
	MotionConfidence float64     `json:"motion_confidence"`

	VisualFeatures VisualFeatures `json:"visual_features"`
	MotionFeatures MotionFeatures `json:"motion_features"`
	SceneContext   SceneContext   `json:"scene_context"`

	ClassificationConfidence float64 `json:"classification_confidence"`
}
