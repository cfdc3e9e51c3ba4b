package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/agrosight-ai/agrosight/internal/config"
	"github.com/agrosight-ai/agrosight/internal/diagnosis"
	"github.com/agrosight-ai/agrosight/internal/imaging"
	"github.com/agrosight-ai/agrosight/internal/model"
	"github.com/agrosight-ai/agrosight/internal/telemetry"
)

// NewFromConfig assembles an analyzer from configuration, loading whichever
// ONNX models are enabled. A model that fails to load is logged and skipped
// rather than aborting: the pipeline then runs with that collaborator's
// neutral default. The returned closer releases the loaded sessions.
func NewFromConfig(cfg *config.Config, log *logrus.Logger, tel *telemetry.Provider) (*Analyzer, func()) {
	if log == nil {
		log = logrus.New()
	}

	pre := imaging.NewPreprocessor(cfg.TargetSize)
	engine := diagnosis.NewEngine(cfg.Engine.LowIndexThreshold)

	var closers []func()

	var segmenter Segmenter
	if cfg.Segmenter.Enabled {
		s, err := model.LoadSegmenter(cfg.Segmenter.ModelPath, cfg.Segmenter.InputSize, cfg.Segmenter.NumClasses, cfg.Segmenter.CropClasses)
		if err != nil {
			log.WithError(err).Warn("segmenter unavailable, running without segmentation")
		} else {
			segmenter = s
			closers = append(closers, s.Close)
		}
	}

	var classifier HealthClassifier
	if cfg.Classifier.Enabled {
		c, err := model.LoadClassifier(cfg.Classifier.ModelPath, cfg.Classifier.LabelsPath, cfg.Classifier.InputSize)
		if err != nil {
			log.WithError(err).Warn("classifier unavailable, health status will be Unknown")
		} else {
			classifier = c
			closers = append(closers, c.Close)
		}
	}

	var detector ObjectDetector
	if cfg.Detector.Enabled {
		table := diagnosis.NewCategoryTable(cfg.Detector.WeedKeywords, cfg.Detector.PestKeywords)
		d, err := model.LoadDetector(model.DetectorConfig{
			ModelPath:     cfg.Detector.ModelPath,
			LabelsPath:    cfg.Detector.LabelsPath,
			InputSize:     cfg.Detector.InputSize,
			ConfThreshold: float32(cfg.Detector.ConfThreshold),
			IoUThreshold:  float32(cfg.Detector.IoUThreshold),
		}, table)
		if err != nil {
			log.WithError(err).Warn("detector unavailable, running without weed/pest detection")
		} else {
			detector = d
			closers = append(closers, d.Close)
		}
	}

	analyzer := NewAnalyzer(pre, engine, segmenter, classifier, detector, log, tel)
	closer := func() {
		for _, c := range closers {
			c()
		}
	}
	return analyzer, closer
}
