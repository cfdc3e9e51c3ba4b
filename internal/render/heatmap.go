// Package render turns analysis results into annotated imagery and a text
// report. Nothing here feeds back into fusion.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/agrosight-ai/agrosight/internal/vegindex"
)

// Heatmap renders an index map with a red-yellow-green ramp: 0 is red
// (stressed), 0.5 yellow, 1 green (healthy).
func Heatmap(m *vegindex.Map) *image.RGBA {
	if m == nil || m.Width == 0 || m.Height == 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	out := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			out.SetRGBA(x, y, rampColor(m.At(x, y)))
		}
	}
	return out
}

// WriteHeatmapPNG renders and writes the heatmap in one step.
func WriteHeatmapPNG(m *vegindex.Map, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create heatmap file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, Heatmap(m)); err != nil {
		return fmt.Errorf("encode heatmap: %w", err)
	}
	return nil
}

// rampColor maps v in [0,1] onto red -> yellow -> green.
func rampColor(v float64) color.RGBA {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	var r, g float64
	if v < 0.5 {
		r = 1
		g = v * 2
	} else {
		r = (1 - v) * 2
		g = 1
	}
	return color.RGBA{
		R: uint8(r*254 + 0.5),
		G: uint8(g*254 + 0.5),
		B: 0,
		A: 255,
	}
}
