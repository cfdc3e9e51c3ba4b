package model

import (
	"context"
	"fmt"
	"sort"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/agrosight-ai/agrosight/internal/diagnosis"
)

// DetectorConfig carries everything needed to stand up the object detector.
type DetectorConfig struct {
	ModelPath     string
	LabelsPath    string
	InputSize     int
	ConfThreshold float32
	IoUThreshold  float32
}

// Detector wraps a YOLOv8-style ONNX detector and maps its generic labels
// onto fusion categories through an injected CategoryTable.
type Detector struct {
	session   *ort.AdvancedSession
	labels    []string
	table     *diagnosis.CategoryTable
	inputSize int
	numBoxes  int
	conf      float32
	iou       float32

	input  *ort.Tensor[float32]
	output *ort.Tensor[float32]

	mu sync.Mutex
}

// LoadDetector builds the session. Tensor names follow the ultralytics
// export convention (images -> output0).
func LoadDetector(cfg DetectorConfig, table *diagnosis.CategoryTable) (*Detector, error) {
	if err := EnsureRuntime(); err != nil {
		return nil, err
	}
	if cfg.InputSize <= 0 {
		cfg.InputSize = 640
	}
	if cfg.ConfThreshold <= 0 {
		cfg.ConfThreshold = 0.5
	}
	if cfg.IoUThreshold <= 0 {
		cfg.IoUThreshold = 0.7
	}
	if table == nil {
		table = diagnosis.DefaultCategoryTable()
	}

	labels, err := loadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, fmt.Errorf("detector labels: %w", err)
	}

	// Anchor-free YOLO heads emit one candidate per cell at strides 8/16/32.
	numBoxes := 0
	for _, stride := range []int{8, 16, 32} {
		cells := cfg.InputSize / stride
		numBoxes += cells * cells
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, int64(cfg.InputSize), int64(cfg.InputSize)))
	if err != nil {
		return nil, fmt.Errorf("allocate detector input: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(4+len(labels)), int64(numBoxes)))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("allocate detector output: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{"images"},
		[]string{"output0"},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create detector session: %w", err)
	}

	return &Detector{
		session:   session,
		labels:    labels,
		table:     table,
		inputSize: cfg.InputSize,
		numBoxes:  numBoxes,
		conf:      cfg.ConfThreshold,
		iou:       cfg.IoUThreshold,
		input:     input,
		output:    output,
	}, nil
}

// InputSize returns the square edge length the detector expects.
func (d *Detector) InputSize() int { return d.inputSize }

// Detect runs inference over a [0,1]-scaled NCHW tensor and returns the
// categorized detections, with box coordinates scaled to width x height.
// Labels the category table maps to CategoryNone are dropped.
func (d *Detector) Detect(ctx context.Context, input []float32, width, height int) ([]diagnosis.Detection, error) {
	_ = ctx
	if d == nil || d.session == nil {
		return nil, fmt.Errorf("detector not initialized")
	}
	if want := 3 * d.inputSize * d.inputSize; len(input) != want {
		return nil, fmt.Errorf("detector input length %d, want %d", len(input), want)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	copy(d.input.GetData(), input)
	if err := d.session.Run(); err != nil {
		return nil, fmt.Errorf("detector run: %w", err)
	}

	boxes := decodeBoxes(d.output.GetData(), len(d.labels), d.numBoxes, d.conf)
	boxes = suppress(boxes, d.iou)

	scaleX := float32(width) / float32(d.inputSize)
	scaleY := float32(height) / float32(d.inputSize)

	detections := make([]diagnosis.Detection, 0, len(boxes))
	for _, b := range boxes {
		if b.class >= len(d.labels) {
			continue
		}
		label := d.labels[b.class]
		category := d.table.Categorize(label)
		if category == diagnosis.CategoryNone {
			continue
		}
		detections = append(detections, diagnosis.Detection{
			X1:         int(b.x1 * scaleX),
			Y1:         int(b.y1 * scaleY),
			X2:         int(b.x2 * scaleX),
			Y2:         int(b.y2 * scaleY),
			Confidence: float64(b.conf),
			Label:      label,
			Category:   category,
		})
	}
	return detections, nil
}

// Close releases the session and its tensors.
func (d *Detector) Close() {
	if d == nil {
		return
	}
	if d.input != nil {
		d.input.Destroy()
	}
	if d.output != nil {
		d.output.Destroy()
	}
	if d.session != nil {
		d.session.Destroy()
	}
}

type rawBox struct {
	x1, y1, x2, y2 float32
	conf           float32
	class          int
}

// decodeBoxes reads the transposed YOLOv8 head layout: row c holds value c
// for every candidate box, rows 0-3 are cx/cy/w/h, the rest class scores.
func decodeBoxes(out []float32, numClasses, numBoxes int, confThreshold float32) []rawBox {
	if len(out) < (4+numClasses)*numBoxes {
		return nil
	}

	boxes := make([]rawBox, 0, 32)
	for j := 0; j < numBoxes; j++ {
		bestClass, bestScore := 0, float32(0)
		for c := 0; c < numClasses; c++ {
			if s := out[(4+c)*numBoxes+j]; s > bestScore {
				bestClass, bestScore = c, s
			}
		}
		if bestScore < confThreshold {
			continue
		}

		cx := out[0*numBoxes+j]
		cy := out[1*numBoxes+j]
		w := out[2*numBoxes+j]
		h := out[3*numBoxes+j]
		boxes = append(boxes, rawBox{
			x1:    cx - w/2,
			y1:    cy - h/2,
			x2:    cx + w/2,
			y2:    cy + h/2,
			conf:  bestScore,
			class: bestClass,
		})
	}
	return boxes
}

// suppress applies greedy per-class non-maximum suppression.
func suppress(boxes []rawBox, iouThreshold float32) []rawBox {
	sort.Slice(boxes, func(i, j int) bool { return boxes[i].conf > boxes[j].conf })

	kept := make([]rawBox, 0, len(boxes))
	for _, candidate := range boxes {
		drop := false
		for _, k := range kept {
			if k.class == candidate.class && iou(k, candidate) > iouThreshold {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, candidate)
		}
	}
	return kept
}

func iou(a, b rawBox) float32 {
	interX1 := maxf(a.x1, b.x1)
	interY1 := maxf(a.y1, b.y1)
	interX2 := minf(a.x2, b.x2)
	interY2 := minf(a.y2, b.y2)

	interW := interX2 - interX1
	interH := interY2 - interY1
	if interW <= 0 || interH <= 0 {
		return 0
	}
	inter := interW * interH
	areaA := (a.x2 - a.x1) * (a.y2 - a.y1)
	areaB := (b.x2 - b.x1) * (b.y2 - b.y1)
	union := areaA + areaB - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
