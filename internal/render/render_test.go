package render

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/agrosight-ai/agrosight/internal/diagnosis"
	"github.com/agrosight-ai/agrosight/internal/pipeline"
	"github.com/agrosight-ai/agrosight/internal/vegindex"
)

func TestRampColor_Extremes(t *testing.T) {
	low := rampColor(0)
	if low.R < 250 || low.G > 5 {
		t.Fatalf("index 0 should be red, got %+v", low)
	}

	high := rampColor(1)
	if high.G < 250 || high.R > 5 {
		t.Fatalf("index 1 should be green, got %+v", high)
	}

	mid := rampColor(0.5)
	if mid.R < 250 || mid.G < 250 {
		t.Fatalf("index 0.5 should be yellow, got %+v", mid)
	}

	// Out-of-range values clamp instead of wrapping.
	if rampColor(-3) != rampColor(0) || rampColor(7) != rampColor(1) {
		t.Fatalf("ramp must clamp out-of-range input")
	}
}

func TestHeatmap_DimsAndNil(t *testing.T) {
	m := &vegindex.Map{Width: 3, Height: 2, Data: []float64{0, 0.5, 1, 1, 0.5, 0}}
	img := Heatmap(m)
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("heatmap dims %v", img.Bounds())
	}

	if got := Heatmap(nil); got.Bounds().Dx() != 1 {
		t.Fatalf("nil map should render a placeholder, got %v", got.Bounds())
	}
}

func TestAnnotate_DrawsBoxes(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 20))
	dets := []diagnosis.Detection{
		{X1: 2, Y1: 2, X2: 10, Y2: 10, Category: diagnosis.CategoryWeed},
	}

	out := Annotate(src, dets)
	if out.RGBAAt(2, 2) != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("expected red box corner, got %+v", out.RGBAAt(2, 2))
	}
	// Interior stays untouched.
	if out.RGBAAt(6, 6) == (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("box interior must not be filled")
	}
}

func TestAnnotate_OutOfBoundsBoxIsClamped(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	dets := []diagnosis.Detection{
		{X1: -5, Y1: -5, X2: 50, Y2: 50, Category: diagnosis.CategoryPest},
	}
	// Must not panic.
	_ = Annotate(src, dets)
}

func TestComposite_WidthIsSumOfPanels(t *testing.T) {
	res := &pipeline.Results{
		Resized: image.NewRGBA(image.Rect(0, 0, 10, 10)),
		Index:   &vegindex.Map{Width: 10, Height: 10, Data: make([]float64, 100)},
	}

	out := Composite(res)
	if out.Bounds().Dx() != 30 || out.Bounds().Dy() != 10 {
		t.Fatalf("composite dims %v, want 30x10", out.Bounds())
	}
}

func TestReport_Sections(t *testing.T) {
	res := &pipeline.Results{
		Resized:   image.NewRGBA(image.Rect(0, 0, 4, 4)),
		Index:     &vegindex.Map{Width: 2, Height: 2, Data: []float64{0.2, 0.4, 0.6, 0.8}},
		MeanIndex: 0.5,
		Health:    diagnosis.HealthResult{Status: diagnosis.StatusDiseased, Confidence: 0.9, DiseaseName: "Leaf Blight", CropType: "Tomato"},
		Detections: []diagnosis.Detection{
			{Category: diagnosis.CategoryWeed},
			{Category: diagnosis.CategoryWeed},
			{Category: diagnosis.CategoryPest},
		},
		Diagnosis: diagnosis.Diagnosis{
			CropType:        "Tomato",
			DiseaseName:     "Leaf Blight",
			OverallHealth:   diagnosis.StatusDiseased,
			Confidence:      0.9,
			Issues:          []string{"Disease detected: Leaf Blight (confidence: 90.0%)"},
			Recommendations: []string{"Apply appropriate treatment for Leaf Blight"},
		},
	}

	out := Report(res)
	for _, want := range []string{
		"CROP HEALTH DIAGNOSIS",
		"Crop Type: Tomato",
		"Overall Status: Diseased",
		"Confidence: 90.0%",
		"Avg Vegetation Index: 0.500",
		"Leaf Blight",
		"Weeds: 2",
		"Pests: 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestReport_EmptyIssuesPlaceholder(t *testing.T) {
	res := &pipeline.Results{
		Resized: image.NewRGBA(image.Rect(0, 0, 2, 2)),
		Diagnosis: diagnosis.Diagnosis{
			OverallHealth:   diagnosis.StatusHealthy,
			Recommendations: []string{"Continue regular monitoring"},
		},
	}

	out := Report(res)
	if !strings.Contains(out, "No critical issues detected") {
		t.Fatalf("placeholder missing:\n%s", out)
	}
	if !strings.Contains(out, "Crop Type: Unknown") {
		t.Fatalf("empty crop type must render Unknown:\n%s", out)
	}
}
