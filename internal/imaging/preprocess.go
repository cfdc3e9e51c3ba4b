// Package imaging loads drone captures and converts them into the tensor
// layout the ONNX models expect.
package imaging

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/nfnt/resize"
)

// ImageNet channel statistics; the pretrained models were trained with these.
var (
	defaultMean = [3]float32{0.485, 0.456, 0.406}
	defaultStd  = [3]float32{0.229, 0.224, 0.225}
)

// Preprocessor resizes and normalizes images for model input.
type Preprocessor struct {
	targetSize int
	mean       [3]float32
	std        [3]float32
}

// NewPreprocessor returns a preprocessor producing square targetSize images.
func NewPreprocessor(targetSize int) *Preprocessor {
	if targetSize <= 0 {
		targetSize = 512
	}
	return &Preprocessor{targetSize: targetSize, mean: defaultMean, std: defaultStd}
}

// TargetSize returns the square edge length of resized output.
func (p *Preprocessor) TargetSize() int { return p.targetSize }

// Load decodes a JPEG or PNG from disk.
func (p *Preprocessor) Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Resize scales the image to the preprocessor's square target size.
func (p *Preprocessor) Resize(img image.Image) image.Image {
	return resize.Resize(uint(p.targetSize), uint(p.targetSize), img, resize.Lanczos3)
}

// ResizeTo scales the image to an arbitrary square edge, for models whose
// input size differs from the pipeline's working resolution.
func (p *Preprocessor) ResizeTo(img image.Image, size int) image.Image {
	return resize.Resize(uint(size), uint(size), img, resize.Lanczos3)
}

// Tensor converts an image into NCHW float32 planes normalized with the
// ImageNet mean/std. The returned slice has length 3*W*H with the channel
// planes laid out R, G, B.
func (p *Preprocessor) Tensor(img image.Image) []float32 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	data := make([]float32, 3*w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			idx := y*w + x
			data[idx] = (float32(r)/65535.0 - p.mean[0]) / p.std[0]
			data[w*h+idx] = (float32(g)/65535.0 - p.mean[1]) / p.std[1]
			data[2*w*h+idx] = (float32(b)/65535.0 - p.mean[2]) / p.std[2]
		}
	}
	return data
}

// RawTensor converts an image into NCHW float32 planes scaled to [0,1]
// without mean/std normalization, for detectors trained on raw pixels.
func (p *Preprocessor) RawTensor(img image.Image) []float32 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	data := make([]float32, 3*w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			idx := y*w + x
			data[idx] = float32(r) / 65535.0
			data[w*h+idx] = float32(g) / 65535.0
			data[2*w*h+idx] = float32(b) / 65535.0
		}
	}
	return data
}
