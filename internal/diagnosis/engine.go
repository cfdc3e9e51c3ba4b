package diagnosis

import (
	"fmt"
	"strconv"
)

// DefaultLowIndexThreshold is the mean vegetation index below which a frame
// counts as stressed. Tunable, not derived from data.
const DefaultLowIndexThreshold = 0.3

// Engine applies the fixed decision rules that merge the model outputs into a
// single Diagnosis. It holds only immutable configuration, so one Engine may
// serve concurrent Fuse calls.
type Engine struct {
	lowIndexThreshold float64
}

// NewEngine returns an engine with the given low-vegetation threshold.
// Non-positive values fall back to DefaultLowIndexThreshold.
func NewEngine(lowIndexThreshold float64) *Engine {
	if lowIndexThreshold <= 0 {
		lowIndexThreshold = DefaultLowIndexThreshold
	}
	return &Engine{lowIndexThreshold: lowIndexThreshold}
}

// Fuse merges the mean vegetation index, the health classification, and the
// detection list into a Diagnosis. It is total over its inputs: every call
// returns a fresh Diagnosis and the recommendation list is never empty.
// Rules run in a fixed order and never short-circuit each other.
func (e *Engine) Fuse(avgIndex float64, health HealthResult, detections []Detection) Diagnosis {
	d := Diagnosis{
		CropType:        health.CropType,
		DiseaseName:     health.DiseaseName,
		OverallHealth:   StatusUnknown,
		Issues:          []string{},
		Recommendations: []string{},
	}

	// Rule 1: vegetation index. Strictly below the threshold; a frame sitting
	// exactly on it does not trigger.
	lowIndex := avgIndex < e.lowIndexThreshold
	if lowIndex {
		d.Issues = append(d.Issues, "Low vegetation index detected (stress/disease likely)")
		d.Recommendations = append(d.Recommendations, "Inspect for disease, water stress, or nutrient deficiency")
	}

	// Rule 2: the classifier's verdict is copied verbatim.
	d.OverallHealth = health.Status
	d.Confidence = health.Confidence

	switch health.Status {
	case StatusDiseased:
		d.Issues = append(d.Issues, fmt.Sprintf("Disease detected: %s (confidence: %s)", health.DiseaseName, formatPercent(health.Confidence)))
		d.Recommendations = append(d.Recommendations, fmt.Sprintf("Apply appropriate treatment for %s", health.DiseaseName))
	case StatusStressed:
		d.Issues = append(d.Issues, fmt.Sprintf("Crop stress detected (confidence: %s)", formatPercent(health.Confidence)))
		d.Recommendations = append(d.Recommendations, "Check irrigation and nutrient levels")
	}

	// Rule 3: weed and pest counts are independent of each other.
	var weeds, pests int
	for _, det := range detections {
		switch det.Category {
		case CategoryWeed:
			weeds++
		case CategoryPest:
			pests++
		}
	}
	if weeds > 0 {
		d.Issues = append(d.Issues, fmt.Sprintf("%d potential weed(s) detected", weeds))
		d.Recommendations = append(d.Recommendations, "Consider targeted herbicide application or manual removal")
	}
	if pests > 0 {
		d.Issues = append(d.Issues, fmt.Sprintf("%d potential pest(s) detected", pests))
		d.Recommendations = append(d.Recommendations, "Monitor pest population and apply IPM strategies")
	}

	// Rule 4: escalation when both signals fire. Intentionally repeats wording
	// already added by rules 1 and 2.
	if lowIndex && health.Status == StatusDiseased {
		d.Issues = append(d.Issues, "CRITICAL: Multiple stress factors detected")
		d.Recommendations = append(d.Recommendations, "Immediate intervention required")
	}

	// Rule 5: never hand back an empty recommendation list.
	if len(d.Recommendations) == 0 {
		d.Recommendations = append(d.Recommendations, "Continue regular monitoring")
	}

	return d
}

// formatPercent renders a 0..1 confidence as a percentage with one decimal,
// e.g. 0.9 -> "90.0%".
func formatPercent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
}
