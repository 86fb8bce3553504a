package engagement

// Factors holds the eight weighted inputs to the overall engagement score,
// each in [0,100].
type Factors struct {
	VisualInterest      float64 `json:"visual_interest"`
	EmotionalAppeal     float64 `json:"emotional_appeal"`
	HumanPresence       float64 `json:"human_presence"`
	ActionIntensity     float64 `json:"action_intensity"`
	ColorAppeal         float64 `json:"color_appeal"`
	CompositionStrength float64 `json:"composition_strength"`
	TechnicalQuality    float64 `json:"technical_quality"`
	SceneTypeAppeal     float64 `json:"scene_type_appeal"`
}

// VisualInterestDetails breaks down the visual interest factor.
type VisualInterestDetails struct {
	Complexity     float64 `json:"complexity"`
	ContrastAppeal float64 `json:"contrast_appeal"`
	Novelty        float64 `json:"novelty"`
}

// EmotionalAppealDetails breaks down the emotional appeal factor.
type EmotionalAppealDetails struct {
	ColorEmotion float64 `json:"color_emotion"`
	LightingMood float64 `json:"lighting_mood"`
	Intimacy     float64 `json:"intimacy"`
	Energy       float64 `json:"energy"`
}

// HumanInterestDetails breaks down the human presence factor. Gesture and
// eye contact are coarse proxies derived from framing and focus, not pose
// estimation.
type HumanInterestDetails struct {
	FaceAppeal    float64 `json:"face_appeal"`
	Gesture       float64 `json:"gesture"`
	EyeContact    float64 `json:"eye_contact"`
	SocialContext float64 `json:"social_context"`
}

// ActionDynamicsDetails breaks down the action intensity factor.
type ActionDynamicsDetails struct {
	MotionExcitement float64 `json:"motion_excitement"`
	CameraEnergy     float64 `json:"camera_energy"`
	SceneDynamics    float64 `json:"scene_dynamics"`
	Tension          float64 `json:"tension"`
}

// Details groups the per-factor breakdowns.
type Details struct {
	VisualInterest  VisualInterestDetails  `json:"visual_interest"`
	EmotionalAppeal EmotionalAppealDetails `json:"emotional_appeal"`
	HumanInterest   HumanInterestDetails   `json:"human_interest"`
	ActionDynamics  ActionDynamicsDetails  `json:"action_dynamics"`
}

// Predictions estimates viewer behavior dimensions, each in [0,100].
type Predictions struct {
	AttentionGrabbing  float64 `json:"attention_grabbing"`
	RetentionPotential float64 `json:"retention_potential"`
	EmotionalImpact    float64 `json:"emotional_impact"`
	Shareability       float64 `json:"shareability"`
}

// AudienceAppeal estimates fit per audience segment, each in [0,100].
type AudienceAppeal struct {
	General      float64 `json:"general"`
	SocialMedia  float64 `json:"social_media"`
	Professional float64 `json:"professional"`
	Artistic     float64 `json:"artistic"`
}

// Analysis is the full engagement result for one frame.
type Analysis struct {
	OverallEngagementScore float64        `json:"overall_engagement_score"`
	EngagementFactors      Factors        `json:"engagement_factors"`
	EngagementDetails      Details        `json:"engagement_details"`
	EngagementPredictions  Predictions    `json:"engagement_predictions"`
	TargetAudienceAppeal   AudienceAppeal `json:"target_audience_appeal"`
	ConfidenceScore        float64        `json:"confidence_score"`
}
