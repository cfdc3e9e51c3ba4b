package model

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Mask is the segmentation output at model resolution. Classes holds the
// per-pixel argmax class; Crop marks pixels whose class is one of the
// configured vegetation classes.
type Mask struct {
	Width   int
	Height  int
	Classes []int
	Crop    []bool
}

// CropRatio returns the fraction of pixels flagged as crop.
func (m *Mask) CropRatio() float64 {
	if m == nil || len(m.Crop) == 0 {
		return 0
	}
	var n int
	for _, c := range m.Crop {
		if c {
			n++
		}
	}
	return float64(n) / float64(len(m.Crop))
}

// Segmenter wraps a DeepLabV3-style semantic segmentation session.
type Segmenter struct {
	session     *ort.AdvancedSession
	inputSize   int
	numClasses  int
	cropClasses map[int]bool

	input  *ort.Tensor[float32]
	output *ort.Tensor[float32]

	mu sync.Mutex
}

// LoadSegmenter builds the session. cropClasses lists the class IDs treated
// as vegetation when deriving the binary crop mask; which IDs count as
// "plant-like" depends on the label set the model was trained on.
// Tensor names follow the torchvision DeepLabV3 export (input -> out).
func LoadSegmenter(modelPath string, inputSize, numClasses int, cropClasses []int) (*Segmenter, error) {
	if err := EnsureRuntime(); err != nil {
		return nil, err
	}
	if inputSize <= 0 {
		inputSize = 512
	}
	if numClasses <= 0 {
		numClasses = 21
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, int64(inputSize), int64(inputSize)))
	if err != nil {
		return nil, fmt.Errorf("allocate segmenter input: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(numClasses), int64(inputSize), int64(inputSize)))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("allocate segmenter output: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"input"},
		[]string{"out"},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create segmenter session: %w", err)
	}

	crop := make(map[int]bool, len(cropClasses))
	for _, c := range cropClasses {
		crop[c] = true
	}

	return &Segmenter{
		session:     session,
		inputSize:   inputSize,
		numClasses:  numClasses,
		cropClasses: crop,
		input:       input,
		output:      output,
	}, nil
}

// InputSize returns the square edge length the segmenter expects.
func (s *Segmenter) InputSize() int { return s.inputSize }

// Segment runs inference and reduces the class logits to an argmax mask.
func (s *Segmenter) Segment(ctx context.Context, input []float32) (*Mask, error) {
	_ = ctx
	if s == nil || s.session == nil {
		return nil, fmt.Errorf("segmenter not initialized")
	}
	if want := 3 * s.inputSize * s.inputSize; len(input) != want {
		return nil, fmt.Errorf("segmenter input length %d, want %d", len(input), want)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy(s.input.GetData(), input)
	if err := s.session.Run(); err != nil {
		return nil, fmt.Errorf("segmenter run: %w", err)
	}

	logits := s.output.GetData()
	plane := s.inputSize * s.inputSize
	mask := &Mask{
		Width:   s.inputSize,
		Height:  s.inputSize,
		Classes: make([]int, plane),
		Crop:    make([]bool, plane),
	}

	for px := 0; px < plane; px++ {
		best, bestVal := 0, logits[px]
		for c := 1; c < s.numClasses; c++ {
			if v := logits[c*plane+px]; v > bestVal {
				best, bestVal = c, v
			}
		}
		mask.Classes[px] = best
		mask.Crop[px] = s.cropClasses[best]
	}

	return mask, nil
}

// Close releases the session and its tensors.
func (s *Segmenter) Close() {
	if s == nil {
		return
	}
	if s.input != nil {
		s.input.Destroy()
	}
	if s.output != nil {
		s.output.Destroy()
	}
	if s.session != nil {
		s.session.Destroy()
	}
}
