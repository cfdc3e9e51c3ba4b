package render

import (
	"fmt"
	"strings"

	"github.com/agrosight-ai/agrosight/internal/diagnosis"
	"github.com/agrosight-ai/agrosight/internal/pipeline"
)

// Report renders the fixed-order text panel for one analysis pass.
func Report(res *pipeline.Results) string {
	d := res.Diagnosis
	var b strings.Builder

	b.WriteString("CROP HEALTH DIAGNOSIS\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	fmt.Fprintf(&b, "Crop Type: %s\n", orUnknown(d.CropType))
	fmt.Fprintf(&b, "Disease: %s\n", orUnknown(d.DiseaseName))
	fmt.Fprintf(&b, "Overall Status: %s\n", d.OverallHealth)
	fmt.Fprintf(&b, "Confidence: %.1f%%\n", d.Confidence*100)
	fmt.Fprintf(&b, "Avg Vegetation Index: %.3f\n", res.MeanIndex)
	if res.Mask != nil {
		fmt.Fprintf(&b, "Crop Coverage: %.1f%%\n", res.Mask.CropRatio()*100)
	}

	b.WriteString("\nDETECTED ISSUES:\n")
	if len(d.Issues) == 0 {
		b.WriteString("  - No critical issues detected\n")
	}
	for _, issue := range d.Issues {
		fmt.Fprintf(&b, "  - %s\n", issue)
	}

	b.WriteString("\nRECOMMENDATIONS:\n")
	for i, rec := range d.Recommendations {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, rec)
	}

	weeds, pests := countCategories(res.Detections)
	b.WriteString("\nDETECTION SUMMARY:\n")
	fmt.Fprintf(&b, "  - Weeds: %d\n", weeds)
	fmt.Fprintf(&b, "  - Pests: %d\n", pests)

	return b.String()
}

func countCategories(detections []diagnosis.Detection) (weeds, pests int) {
	for _, det := range detections {
		switch det.Category {
		case diagnosis.CategoryWeed:
			weeds++
		case diagnosis.CategoryPest:
			pests++
		}
	}
	return weeds, pests
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
