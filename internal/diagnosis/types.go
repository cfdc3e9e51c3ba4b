package diagnosis

// HealthStatus is the classifier's verdict for the whole frame.
type HealthStatus string

const (
	StatusHealthy  HealthStatus = "Healthy"
	StatusDiseased HealthStatus = "Diseased"
	StatusStressed HealthStatus = "Stressed"
	StatusUnknown  HealthStatus = "Unknown"
)

// Category classifies a raw detector label for fusion purposes.
type Category string

const (
	CategoryWeed Category = "weed"
	CategoryPest Category = "pest"
	CategoryNone Category = "none"
)

// Detection is one bounding box emitted by the object detector, already mapped
// onto a fusion category. Coordinates are pixels in the resized image.
type Detection struct {
	X1         int      `json:"x1"`
	Y1         int      `json:"y1"`
	X2         int      `json:"x2"`
	Y2         int      `json:"y2"`
	Confidence float64  `json:"confidence"`
	Label      string   `json:"label"`
	Category   Category `json:"category"`
}

// HealthResult is the health classifier's output for one image.
type HealthResult struct {
	Status      HealthStatus `json:"status"`
	Confidence  float64      `json:"confidence"`
	DiseaseName string       `json:"disease_name"`
	CropType    string       `json:"crop_type"`
}

// UnknownHealth is the neutral default fed into fusion when classification
// was skipped or failed. Upstream failures must be normalized to this value
// rather than propagated.
func UnknownHealth() HealthResult {
	return HealthResult{Status: StatusUnknown, Confidence: 0}
}

// Diagnosis is the fused verdict for one analyzed image.
type Diagnosis struct {
	CropType        string       `json:"crop_type"`
	DiseaseName     string       `json:"disease_name"`
	OverallHealth   HealthStatus `json:"overall_health"`
	Confidence      float64      `json:"confidence"`
	Issues          []string     `json:"issues"`
	Recommendations []string     `json:"recommendations"`
}
