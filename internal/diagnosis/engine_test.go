package diagnosis

import (
	"reflect"
	"strings"
	"testing"
)

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func TestFuse_RecommendationsNeverEmpty(t *testing.T) {
	eng := NewEngine(0)

	cases := []struct {
		name       string
		avgIndex   float64
		health     HealthResult
		detections []Detection
	}{
		{name: "all neutral", avgIndex: 0.5, health: UnknownHealth()},
		{name: "healthy high index", avgIndex: 0.9, health: HealthResult{Status: StatusHealthy, Confidence: 0.99}},
		{name: "everything firing", avgIndex: 0.01, health: HealthResult{Status: StatusDiseased, Confidence: 0.8, DiseaseName: "Rust"}, detections: []Detection{{Category: CategoryWeed}, {Category: CategoryPest}}},
		{name: "stressed only", avgIndex: 0.6, health: HealthResult{Status: StatusStressed, Confidence: 0.4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := eng.Fuse(tc.avgIndex, tc.health, tc.detections)
			if len(d.Recommendations) == 0 {
				t.Fatalf("recommendations must never be empty, got %+v", d)
			}
		})
	}
}

func TestFuse_DiseasedLowIndexScenario(t *testing.T) {
	eng := NewEngine(0)
	health := HealthResult{Status: StatusDiseased, Confidence: 0.9, DiseaseName: "Leaf Blight", CropType: "Tomato"}

	d := eng.Fuse(0.1, health, nil)

	if len(d.Issues) < 3 {
		t.Fatalf("expected at least 3 issues, got %d: %+v", len(d.Issues), d.Issues)
	}
	if !containsSubstring(d.Issues, "Low vegetation index") {
		t.Fatalf("missing low vegetation index issue: %+v", d.Issues)
	}
	if !containsSubstring(d.Issues, "Leaf Blight") || !containsSubstring(d.Issues, "90.0%") {
		t.Fatalf("missing disease issue with formatted confidence: %+v", d.Issues)
	}
	if !containsSubstring(d.Issues, "CRITICAL") {
		t.Fatalf("missing compound critical issue: %+v", d.Issues)
	}
	if d.CropType != "Tomato" || d.DiseaseName != "Leaf Blight" {
		t.Fatalf("crop/disease not carried through: %+v", d)
	}
	if d.OverallHealth != StatusDiseased || d.Confidence != 0.9 {
		t.Fatalf("status/confidence not copied verbatim: %+v", d)
	}
}

func TestFuse_HealthyScenario(t *testing.T) {
	eng := NewEngine(0)
	health := HealthResult{Status: StatusHealthy, Confidence: 0.99, DiseaseName: "healthy", CropType: "Corn"}

	d := eng.Fuse(0.8, health, nil)

	if len(d.Issues) != 0 {
		t.Fatalf("expected no issues for a healthy frame, got %+v", d.Issues)
	}
	want := []string{"Continue regular monitoring"}
	if !reflect.DeepEqual(d.Recommendations, want) {
		t.Fatalf("expected default recommendation only, got %+v", d.Recommendations)
	}
}

func TestFuse_WeedAndPestCounting(t *testing.T) {
	eng := NewEngine(0)
	dets := []Detection{
		{Label: "potted plant", Category: CategoryWeed},
		{Label: "plant", Category: CategoryWeed},
		{Label: "bird", Category: CategoryPest},
	}

	d := eng.Fuse(0.5, UnknownHealth(), dets)

	if !containsSubstring(d.Issues, "2 potential weed(s)") {
		t.Fatalf("weed count issue missing: %+v", d.Issues)
	}
	if !containsSubstring(d.Issues, "1 potential pest(s)") {
		t.Fatalf("pest count issue missing: %+v", d.Issues)
	}
	if !containsSubstring(d.Recommendations, "herbicide") {
		t.Fatalf("herbicide recommendation missing: %+v", d.Recommendations)
	}
	if !containsSubstring(d.Recommendations, "IPM") {
		t.Fatalf("IPM recommendation missing: %+v", d.Recommendations)
	}
}

func TestFuse_RuleIndependence(t *testing.T) {
	eng := NewEngine(0)

	weedsOnly := eng.Fuse(0.5, UnknownHealth(), []Detection{{Category: CategoryWeed}})
	if containsSubstring(weedsOnly.Issues, "pest") {
		t.Fatalf("weed-only input produced a pest issue: %+v", weedsOnly.Issues)
	}

	pestsOnly := eng.Fuse(0.5, UnknownHealth(), []Detection{{Category: CategoryPest}})
	if containsSubstring(pestsOnly.Issues, "weed") {
		t.Fatalf("pest-only input produced a weed issue: %+v", pestsOnly.Issues)
	}

	// CategoryNone detections count toward neither rule.
	noneOnly := eng.Fuse(0.5, UnknownHealth(), []Detection{{Category: CategoryNone}, {Category: CategoryNone}})
	if len(noneOnly.Issues) != 0 {
		t.Fatalf("none-category detections produced issues: %+v", noneOnly.Issues)
	}
}

func TestFuse_ThresholdBoundaryIsStrict(t *testing.T) {
	eng := NewEngine(0)

	onBoundary := eng.Fuse(0.3, UnknownHealth(), nil)
	if containsSubstring(onBoundary.Issues, "Low vegetation index") {
		t.Fatalf("index exactly on the threshold must not trigger: %+v", onBoundary.Issues)
	}

	below := eng.Fuse(0.2999999, UnknownHealth(), nil)
	if !containsSubstring(below.Issues, "Low vegetation index") {
		t.Fatalf("index just below the threshold must trigger: %+v", below.Issues)
	}
}

func TestFuse_CompoundRuleNeedsBothSignals(t *testing.T) {
	eng := NewEngine(0)

	lowOnly := eng.Fuse(0.1, HealthResult{Status: StatusStressed, Confidence: 0.5}, nil)
	if containsSubstring(lowOnly.Issues, "CRITICAL") {
		t.Fatalf("low index without disease must not escalate: %+v", lowOnly.Issues)
	}

	diseasedOnly := eng.Fuse(0.7, HealthResult{Status: StatusDiseased, Confidence: 0.5, DiseaseName: "Mildew"}, nil)
	if containsSubstring(diseasedOnly.Issues, "CRITICAL") {
		t.Fatalf("disease without low index must not escalate: %+v", diseasedOnly.Issues)
	}
}

func TestFuse_Idempotent(t *testing.T) {
	eng := NewEngine(0)
	health := HealthResult{Status: StatusDiseased, Confidence: 0.75, DiseaseName: "Early Blight", CropType: "Potato"}
	dets := []Detection{{Label: "plant", Category: CategoryWeed, Confidence: 0.6}}

	first := eng.Fuse(0.25, health, dets)
	second := eng.Fuse(0.25, health, dets)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different diagnoses:\n%+v\n%+v", first, second)
	}
}

func TestFuse_CustomThreshold(t *testing.T) {
	eng := NewEngine(0.5)

	d := eng.Fuse(0.4, UnknownHealth(), nil)
	if !containsSubstring(d.Issues, "Low vegetation index") {
		t.Fatalf("custom threshold not honored: %+v", d.Issues)
	}
}

func TestFormatPercent(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0.9, "90.0%"},
		{0.875, "87.5%"},
		{0, "0.0%"},
		{1, "100.0%"},
	}
	for _, tc := range cases {
		if got := formatPercent(tc.in); got != tc.want {
			t.Fatalf("formatPercent(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
