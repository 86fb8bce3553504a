package quality

// FocusRegion is a block with notably high local sharpness.
type FocusRegion struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Sharpness float64 `json:"sharpness"`
}

// SharpnessDetails breaks down the sharpness measurement.
type SharpnessDetails struct {
	LaplacianVariance float64       `json:"laplacian_variance"`
	EdgeDensity       float64       `json:"edge_density"`
	MaxGradient       float64       `json:"max_gradient"`
	FocusRegions      []FocusRegion `json:"focus_regions"`
}

// ExposureDetails holds the histogram segmentation behind the exposure
// score. Band and clipping values are fractions of sampled pixels.
type ExposureDetails struct {
	Shadows       float64 `json:"shadows"`
	Midtones      float64 `json:"midtones"`
	Highlights    float64 `json:"highlights"`
	BlackClipping float64 `json:"black_clipping"`
	WhiteClipping float64 `json:"white_clipping"`
	DynamicRange  int     `json:"dynamic_range"`
}

// ColorDetails holds saturation statistics and the color cast check.
type ColorDetails struct {
	AverageSaturation float64 `json:"average_saturation"`
	SaturationStdDev  float64 `json:"saturation_std_dev"`
	CastDetected      bool    `json:"cast_detected"`
	CastChannel       string  `json:"cast_channel"`
}

// NoiseDetails holds the block-variance grain estimate.
type NoiseDetails struct {
	GrainEstimate      float64 `json:"grain_estimate"`
	CleanRegionPercent float64 `json:"clean_region_percent"`
	ISOEstimate        int     `json:"iso_estimate"`
}

// Result holds the technical quality scores for one frame. Every sub-score
// is in [0,100] with higher meaning better, including noise_level and
// motion_blur (100 = clean, 100 = no blur).
type Result struct {
	Sharpness       float64 `json:"sharpness"`
	Exposure        float64 `json:"exposure"`
	Contrast        float64 `json:"contrast"`
	ColorSaturation float64 `json:"color_saturation"`
	NoiseLevel      float64 `json:"noise_level"`
	MotionBlur      float64 `json:"motion_blur"`
	OverallScore    float64 `json:"overall_score"`

	SharpnessDetails   SharpnessDetails `json:"sharpness_details"`
	ExposureDetails    ExposureDetails  `json:"exposure_details"`
	ColorDetails       ColorDetails     `json:"color_details"`
	NoiseDetails       NoiseDetails     `json:"noise_details"`
	AnalysisConfidence float64          `json:"analysis_confidence"`
}
