// Package vegindex computes per-pixel vegetation indices from RGB imagery.
// True NDVI needs a near-infrared band; drone RGB footage only supports
// visible-spectrum proxies, so both indices here are heuristics.
package vegindex

import "image"

const epsilon = 1e-8

// Map is a row-major 2D index map with values normalized to [0,1].
type Map struct {
	Width  int
	Height int
	Data   []float64
}

// At returns the index value at pixel (x, y).
func (m *Map) At(x, y int) float64 {
	return m.Data[y*m.Width+x]
}

// Mean returns the average index value. The fusion engine consumes this
// scalar, not the map itself.
func (m *Map) Mean() float64 {
	if m == nil || len(m.Data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range m.Data {
		sum += v
	}
	return sum / float64(len(m.Data))
}

// ExcessGreen computes the ExG index (2G - R - B), min-max normalized.
func ExcessGreen(img image.Image) *Map {
	return compute(img, func(r, g, b float64) float64 {
		return 2*g - r - b
	})
}

// PseudoNDVI approximates NDVI with (G - R) / (G + R), min-max normalized.
func PseudoNDVI(img image.Image) *Map {
	return compute(img, func(r, g, b float64) float64 {
		return (g - r) / (g + r + epsilon)
	})
}

func compute(img image.Image, fn func(r, g, b float64) float64) *Map {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	m := &Map{Width: w, Height: h, Data: make([]float64, w*h)}
	if w == 0 || h == 0 {
		return m
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r16, g16, b16, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r := float64(r16) / 65535.0
			g := float64(g16) / 65535.0
			b := float64(b16) / 65535.0
			m.Data[y*w+x] = fn(r, g, b)
		}
	}

	normalize(m.Data)
	return m
}

// normalize rescales values into [0,1]. A flat map collapses to all zeros.
func normalize(data []float64) {
	min, max := data[0], data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := max - min + epsilon
	for i, v := range data {
		data[i] = (v - min) / span
	}
}
