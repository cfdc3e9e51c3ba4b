// Package pipeline runs the single-pass analysis: preprocess, segment,
// classify, detect, index, fuse. Stages run synchronously in that order.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/agrosight-ai/agrosight/internal/diagnosis"
	"github.com/agrosight-ai/agrosight/internal/imaging"
	"github.com/agrosight-ai/agrosight/internal/model"
	"github.com/agrosight-ai/agrosight/internal/telemetry"
	"github.com/agrosight-ai/agrosight/internal/vegindex"
)

// Segmenter produces a crop/background mask from a normalized tensor.
type Segmenter interface {
	InputSize() int
	Segment(ctx context.Context, input []float32) (*model.Mask, error)
}

// HealthClassifier produces a health verdict from a normalized tensor.
type HealthClassifier interface {
	InputSize() int
	Classify(ctx context.Context, input []float32) (diagnosis.HealthResult, error)
}

// ObjectDetector produces categorized detections from a raw tensor, with
// boxes scaled to the given output dimensions.
type ObjectDetector interface {
	InputSize() int
	Detect(ctx context.Context, input []float32, width, height int) ([]diagnosis.Detection, error)
}

// Results bundles everything one analysis pass produced.
type Results struct {
	Resized    image.Image
	Mask       *model.Mask
	Health     diagnosis.HealthResult
	Detections []diagnosis.Detection
	Index      *vegindex.Map
	MeanIndex  float64
	Diagnosis  diagnosis.Diagnosis
	Elapsed    time.Duration
}

// Analyzer orchestrates the collaborators around the fusion engine. Any of
// the three model collaborators may be nil; a nil or failing collaborator
// degrades to its neutral default so fusion always runs.
type Analyzer struct {
	pre        *imaging.Preprocessor
	engine     *diagnosis.Engine
	segmenter  Segmenter
	classifier HealthClassifier
	detector   ObjectDetector
	log        *logrus.Logger
	tel        *telemetry.Provider
}

// NewAnalyzer wires an analyzer. pre and engine fall back to defaults when
// nil; log falls back to the standard logrus logger.
func NewAnalyzer(pre *imaging.Preprocessor, engine *diagnosis.Engine, segmenter Segmenter, classifier HealthClassifier, detector ObjectDetector, log *logrus.Logger, tel *telemetry.Provider) *Analyzer {
	if pre == nil {
		pre = imaging.NewPreprocessor(0)
	}
	if engine == nil {
		engine = diagnosis.NewEngine(0)
	}
	if log == nil {
		log = logrus.New()
	}
	return &Analyzer{
		pre:        pre,
		engine:     engine,
		segmenter:  segmenter,
		classifier: classifier,
		detector:   detector,
		log:        log,
		tel:        tel,
	}
}

// Analyze loads an image from disk and runs the full pass over it.
// Only a preprocessing failure aborts; everything downstream degrades.
func (a *Analyzer) Analyze(ctx context.Context, imagePath string) (*Results, error) {
	img, err := a.pre.Load(imagePath)
	if err != nil {
		return nil, fmt.Errorf("preprocess %s: %w", imagePath, err)
	}
	return a.AnalyzeImage(ctx, img)
}

// AnalyzeImage runs the full pass over an already-decoded image.
func (a *Analyzer) AnalyzeImage(ctx context.Context, img image.Image) (*Results, error) {
	start := time.Now()
	ctx, span := a.tel.Tracer().Start(ctx, "analyze")
	defer span.End()

	resized := a.pre.Resize(img)
	size := a.pre.TargetSize()

	mask := a.segment(ctx, img)
	health := a.classify(ctx, img)
	detections := a.detect(ctx, img, size, size)
	index := a.indexStage(resized)
	mean := index.Mean()

	diag := a.engine.Fuse(mean, health, detections)

	elapsed := time.Since(start)
	a.tel.RecordAnalysis(string(diag.OverallHealth), float64(elapsed.Milliseconds()), len(detections))
	a.log.WithFields(logrus.Fields{
		"overall_health": diag.OverallHealth,
		"issues":         len(diag.Issues),
		"detections":     len(detections),
		"mean_index":     mean,
		"elapsed":        elapsed,
	}).Info("analysis complete")

	return &Results{
		Resized:    resized,
		Mask:       mask,
		Health:     health,
		Detections: detections,
		Index:      index,
		MeanIndex:  mean,
		Diagnosis:  diag,
		Elapsed:    elapsed,
	}, nil
}

// segment runs the segmentation stage. The mask feeds the composite view
// only; fusion never consults it.
func (a *Analyzer) segment(ctx context.Context, img image.Image) *model.Mask {
	if a.segmenter == nil {
		return nil
	}
	start := time.Now()
	ctx, span := a.tel.Tracer().Start(ctx, "stage.segment")
	defer span.End()

	input := a.pre.Tensor(a.pre.ResizeTo(img, a.segmenter.InputSize()))
	mask, err := a.segmenter.Segment(ctx, input)
	a.tel.RecordStage("segment", float64(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		a.log.WithError(err).Warn("segmentation failed, continuing without mask")
		return nil
	}
	return mask
}

func (a *Analyzer) classify(ctx context.Context, img image.Image) diagnosis.HealthResult {
	if a.classifier == nil {
		return diagnosis.UnknownHealth()
	}
	start := time.Now()
	ctx, span := a.tel.Tracer().Start(ctx, "stage.classify")
	defer span.End()

	input := a.pre.Tensor(a.pre.ResizeTo(img, a.classifier.InputSize()))
	health, err := a.classifier.Classify(ctx, input)
	a.tel.RecordStage("classify", float64(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		a.log.WithError(err).Warn("health classification failed, treating status as Unknown")
		return diagnosis.UnknownHealth()
	}
	return health
}

func (a *Analyzer) detect(ctx context.Context, img image.Image, width, height int) []diagnosis.Detection {
	if a.detector == nil {
		return nil
	}
	start := time.Now()
	ctx, span := a.tel.Tracer().Start(ctx, "stage.detect")
	defer span.End()

	input := a.pre.RawTensor(a.pre.ResizeTo(img, a.detector.InputSize()))
	detections, err := a.detector.Detect(ctx, input, width, height)
	a.tel.RecordStage("detect", float64(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		a.log.WithError(err).Warn("detection failed, continuing with empty detection list")
		return nil
	}
	return detections
}

func (a *Analyzer) indexStage(resized image.Image) *vegindex.Map {
	start := time.Now()
	index := vegindex.ExcessGreen(resized)
	a.tel.RecordStage("vegindex", float64(time.Since(start).Milliseconds()), true)
	return index
}
