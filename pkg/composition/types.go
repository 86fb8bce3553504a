package composition

// Orientation tags a dominant line by its direction class.
type Orientation string

// Line orientation classes.
const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
	Diagonal   Orientation = "diagonal"
)

// GridPoint is a rule-of-thirds intersection with its local visual weight.
type GridPoint struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Weight float64 `json:"weight"`
}

// FocalRegion is a block of the frame that attracts the eye, with a
// strength in [0,1].
type FocalRegion struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Strength float64 `json:"strength"`
}

// DominantLine is an accumulated edge direction strong enough to read as a
// leading line. Angle is the line direction in degrees [0,180), Strength the
// bucket's share of total edge energy.
type DominantLine struct {
	Angle       float64     `json:"angle"`
	Strength    float64     `json:"strength"`
	Orientation Orientation `json:"orientation"`
}

// Point is a normalized frame position with both coordinates in [0,1].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DominantColor is one of the frame's most frequent quantized colors.
type DominantColor struct {
	R          uint8   `json:"r"`
	G          uint8   `json:"g"`
	B          uint8   `json:"b"`
	Percentage float64 `json:"percentage"`
}

// Result holds the composition scores for one frame. All sub-scores and the
// overall score are clamped to [0,100]; the confidence to [0,1].
type Result struct {
	RuleOfThirds       float64 `json:"rule_of_thirds"`
	LeadingLines       float64 `json:"leading_lines"`
	VisualBalance      float64 `json:"visual_balance"`
	Symmetry           float64 `json:"symmetry"`
	FocalPointStrength float64 `json:"focal_point_strength"`
	ColorHarmony       float64 `json:"color_harmony"`
	OverallScore       float64 `json:"overall_score"`

	GridPoints         []GridPoint     `json:"grid_points"`
	FocalRegions       []FocalRegion   `json:"focal_regions"`
	DominantLines      []DominantLine  `json:"dominant_lines"`
	BalanceCenter      Point           `json:"balance_center"`
	DominantColors     []DominantColor `json:"dominant_colors"`
	AnalysisConfidence float64         `json:"analysis_confidence"`
}
