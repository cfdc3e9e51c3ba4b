// agrosight-bench measures fusion-engine latency in isolation. The engine is
// pure compute, so this needs no models and no images.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/agrosight-ai/agrosight/internal/diagnosis"
)

func main() {
	n := flag.Int("n", 100000, "number of iterations")
	threshold := flag.Float64("threshold", diagnosis.DefaultLowIndexThreshold, "low vegetation index threshold")
	flag.Parse()

	if *n <= 0 {
		log.Fatalf("n must be positive")
	}

	engine := diagnosis.NewEngine(*threshold)
	health := diagnosis.HealthResult{
		Status:      diagnosis.StatusDiseased,
		Confidence:  0.87,
		DiseaseName: "Leaf Blight",
		CropType:    "Tomato",
	}
	detections := []diagnosis.Detection{
		{X1: 10, Y1: 10, X2: 60, Y2: 80, Confidence: 0.71, Label: "potted plant", Category: diagnosis.CategoryWeed},
		{X1: 200, Y1: 40, X2: 240, Y2: 90, Confidence: 0.64, Label: "bird", Category: diagnosis.CategoryPest},
		{X1: 90, Y1: 300, X2: 160, Y2: 380, Confidence: 0.58, Label: "plant", Category: diagnosis.CategoryWeed},
	}

	durations := make([]time.Duration, 0, *n)
	start := time.Now()
	for i := 0; i < *n; i++ {
		// Sweep the index across the threshold so both rule paths run.
		avgIndex := float64(i%100) / 100.0
		t0 := time.Now()
		_ = engine.Fuse(avgIndex, health, detections)
		durations = append(durations, time.Since(t0))
	}
	total := time.Since(start)

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	pct := func(p float64) time.Duration {
		idx := int(p * float64(len(durations)-1))
		return durations[idx]
	}

	fmt.Printf("iterations: %d\n", *n)
	fmt.Printf("total:      %s\n", total)
	fmt.Printf("avg:        %s\n", total/time.Duration(*n))
	fmt.Printf("p50:        %s\n", pct(0.50))
	fmt.Printf("p95:        %s\n", pct(0.95))
	fmt.Printf("p99:        %s\n", pct(0.99))
}
