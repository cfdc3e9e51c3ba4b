package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	"github.com/agrosight-ai/agrosight/internal/pipeline"
)

// Composite lays the three views side by side: the resized capture, the
// detection overlay, and the vegetation heatmap.
func Composite(res *pipeline.Results) *image.RGBA {
	annotated := Annotate(res.Resized, res.Detections)
	heat := Heatmap(res.Index)

	panels := []image.Image{res.Resized, annotated, heat}
	var width, height int
	for _, p := range panels {
		width += p.Bounds().Dx()
		if h := p.Bounds().Dy(); h > height {
			height = h
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	offset := 0
	for _, p := range panels {
		b := p.Bounds()
		target := image.Rect(offset, 0, offset+b.Dx(), b.Dy())
		draw.Draw(out, target, p, b.Min, draw.Src)
		offset += b.Dx()
	}
	return out
}

// WriteCompositePNG renders and writes the composite in one step.
func WriteCompositePNG(res *pipeline.Results, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create composite file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, Composite(res)); err != nil {
		return fmt.Errorf("encode composite: %w", err)
	}
	return nil
}
