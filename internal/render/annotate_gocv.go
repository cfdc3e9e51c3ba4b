//go:build gocv
// +build gocv

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"gocv.io/x/gocv"

	"github.com/agrosight-ai/agrosight/internal/diagnosis"
)

// Annotate draws detection rectangles and labels with OpenCV: weeds in red,
// pests in orange. Falls back to a plain copy if the Mat round-trip fails.
func Annotate(img image.Image, detections []diagnosis.Detection) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)

	mat, err := gocv.ImageToMatRGBA(out)
	if err != nil {
		return out
	}
	defer mat.Close()

	for _, det := range detections {
		c := color.RGBA{R: 255, A: 255}
		if det.Category == diagnosis.CategoryPest {
			c = color.RGBA{R: 255, G: 165, A: 255}
		}
		rect := image.Rect(det.X1, det.Y1, det.X2, det.Y2)
		gocv.Rectangle(&mat, rect, c, 2)
		label := fmt.Sprintf("%s: %.2f", det.Category, det.Confidence)
		gocv.PutText(&mat, label, image.Pt(det.X1, det.Y1-5), gocv.FontHersheySimplex, 0.5, c, 2)
	}

	annotated, err := mat.ToImage()
	if err != nil {
		return out
	}
	final := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(final, final.Bounds(), annotated, annotated.Bounds().Min, draw.Src)
	return final
}
