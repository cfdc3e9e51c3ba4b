//go:build !gocv
// +build !gocv

package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/agrosight-ai/agrosight/internal/diagnosis"
)

const boxThickness = 2

// Annotate draws detection rectangles over a copy of the image: weeds in
// red, pests in orange. This is the pure-Go path; building with the gocv
// tag swaps in the OpenCV renderer, which also draws labels.
func Annotate(img image.Image, detections []diagnosis.Detection) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)

	for _, det := range detections {
		drawRect(out, det.X1, det.Y1, det.X2, det.Y2, categoryColor(det.Category))
	}
	return out
}

func categoryColor(c diagnosis.Category) color.RGBA {
	if c == diagnosis.CategoryWeed {
		return color.RGBA{R: 255, A: 255}
	}
	return color.RGBA{R: 255, G: 165, A: 255}
}

// drawRect outlines the box, clamped to the image.
func drawRect(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	for t := 0; t < boxThickness; t++ {
		for x := x1; x <= x2; x++ {
			setIfInside(img, x, y1+t, c)
			setIfInside(img, x, y2-t, c)
		}
		for y := y1; y <= y2; y++ {
			setIfInside(img, x1+t, y, c)
			setIfInside(img, x2-t, y, c)
		}
	}
}

func setIfInside(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}
