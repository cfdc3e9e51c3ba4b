package model

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/agrosight-ai/agrosight/internal/diagnosis"
)

// labelSeparator splits PlantVillage-style labels of the form
// "Crop___Disease" into their two halves.
const labelSeparator = "___"

// Classifier wraps the pretrained plant-disease ONNX classifier.
type Classifier struct {
	session   *ort.AdvancedSession
	labels    []string
	inputSize int

	input  *ort.Tensor[float32]
	output *ort.Tensor[float32]

	mu sync.Mutex
}

// LoadClassifier builds a session with preallocated input/output tensors.
// Tensor names follow the Hugging Face image-classification export
// convention (pixel_values -> logits).
func LoadClassifier(modelPath, labelsPath string, inputSize int) (*Classifier, error) {
	if err := EnsureRuntime(); err != nil {
		return nil, err
	}
	if inputSize <= 0 {
		inputSize = 224
	}

	labels, err := loadLabels(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("classifier labels: %w", err)
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, int64(inputSize), int64(inputSize)))
	if err != nil {
		return nil, fmt.Errorf("allocate classifier input: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(labels))))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("allocate classifier output: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"pixel_values"},
		[]string{"logits"},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create classifier session: %w", err)
	}

	return &Classifier{
		session:   session,
		labels:    labels,
		inputSize: inputSize,
		input:     input,
		output:    output,
	}, nil
}

// InputSize returns the square edge length the classifier expects.
func (c *Classifier) InputSize() int { return c.inputSize }

// Classify runs inference over a normalized NCHW tensor and returns the
// health verdict for the frame.
func (c *Classifier) Classify(ctx context.Context, input []float32) (diagnosis.HealthResult, error) {
	_ = ctx
	if c == nil || c.session == nil {
		return diagnosis.UnknownHealth(), fmt.Errorf("classifier not initialized")
	}
	if want := 3 * c.inputSize * c.inputSize; len(input) != want {
		return diagnosis.UnknownHealth(), fmt.Errorf("classifier input length %d, want %d", len(input), want)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	copy(c.input.GetData(), input)
	if err := c.session.Run(); err != nil {
		return diagnosis.UnknownHealth(), fmt.Errorf("classifier run: %w", err)
	}

	probs := softmax(c.output.GetData())
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	if best >= len(c.labels) {
		return diagnosis.UnknownHealth(), fmt.Errorf("class index %d out of range", best)
	}

	cropType, diseaseName := parseDiseaseLabel(c.labels[best])
	status := diagnosis.StatusDiseased
	if strings.Contains(strings.ToLower(diseaseName), "healthy") {
		status = diagnosis.StatusHealthy
	}

	return diagnosis.HealthResult{
		Status:      status,
		Confidence:  float64(probs[best]),
		DiseaseName: diseaseName,
		CropType:    cropType,
	}, nil
}

// Close releases the session and its tensors.
func (c *Classifier) Close() {
	if c == nil {
		return
	}
	if c.input != nil {
		c.input.Destroy()
	}
	if c.output != nil {
		c.output.Destroy()
	}
	if c.session != nil {
		c.session.Destroy()
	}
}

// parseDiseaseLabel splits "Crop___Disease" labels; underscores become
// spaces. Labels without the separator carry no crop information.
func parseDiseaseLabel(label string) (cropType, diseaseName string) {
	if i := strings.Index(label, labelSeparator); i >= 0 {
		cropType = strings.ReplaceAll(label[:i], "_", " ")
		diseaseName = strings.ReplaceAll(label[i+len(labelSeparator):], "_", " ")
		return cropType, diseaseName
	}
	return "Unknown", strings.ReplaceAll(label, "_", " ")
}

func softmax(logits []float32) []float32 {
	if len(logits) == 0 {
		return nil
	}
	max := logits[0]
	for _, v := range logits {
		if v > max {
			max = v
		}
	}
	var sum float64
	exps := make([]float64, len(logits))
	for i, v := range logits {
		exps[i] = math.Exp(float64(v - max))
		sum += exps[i]
	}
	out := make([]float32, len(logits))
	for i, e := range exps {
		out[i] = float32(e / sum)
	}
	return out
}
