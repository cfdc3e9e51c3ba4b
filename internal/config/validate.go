package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the loaded config for required fields and sane values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if cfg.TargetSize <= 0 {
		return errors.New("target_size must be positive")
	}
	if cfg.Engine.LowIndexThreshold <= 0 || cfg.Engine.LowIndexThreshold >= 1 {
		return fmt.Errorf("engine.low_index_threshold must be in (0,1), got %v", cfg.Engine.LowIndexThreshold)
	}

	if cfg.Segmenter.Enabled {
		if strings.TrimSpace(cfg.Segmenter.ModelPath) == "" {
			return errors.New("segmenter.model_path must be set when segmenter is enabled")
		}
		if cfg.Segmenter.InputSize <= 0 {
			return errors.New("segmenter.input_size must be positive")
		}
		if cfg.Segmenter.NumClasses <= 1 {
			return errors.New("segmenter.num_classes must be at least 2")
		}
		for _, c := range cfg.Segmenter.CropClasses {
			if c < 0 || c >= cfg.Segmenter.NumClasses {
				return fmt.Errorf("segmenter.crop_classes entry %d out of range [0,%d)", c, cfg.Segmenter.NumClasses)
			}
		}
	}

	if cfg.Classifier.Enabled {
		if strings.TrimSpace(cfg.Classifier.ModelPath) == "" {
			return errors.New("classifier.model_path must be set when classifier is enabled")
		}
		if strings.TrimSpace(cfg.Classifier.LabelsPath) == "" {
			return errors.New("classifier.labels_path must be set when classifier is enabled")
		}
		if cfg.Classifier.InputSize <= 0 {
			return errors.New("classifier.input_size must be positive")
		}
	}

	if cfg.Detector.Enabled {
		if err := validateDetectorConfig(cfg.Detector); err != nil {
			return err
		}
	}

	if err := validateTelemetryConfig(cfg.Telemetry); err != nil {
		return err
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug|info|warn|error", cfg.Logging.Level)
	}

	return nil
}

func validateDetectorConfig(d DetectorConfig) error {
	if strings.TrimSpace(d.ModelPath) == "" {
		return errors.New("detector.model_path must be set when detector is enabled")
	}
	if strings.TrimSpace(d.LabelsPath) == "" {
		return errors.New("detector.labels_path must be set when detector is enabled")
	}
	if d.InputSize <= 0 {
		return errors.New("detector.input_size must be positive")
	}
	if d.ConfThreshold <= 0 || d.ConfThreshold > 1 {
		return fmt.Errorf("detector.confidence_threshold must be in (0,1], got %v", d.ConfThreshold)
	}
	if d.IoUThreshold <= 0 || d.IoUThreshold > 1 {
		return fmt.Errorf("detector.iou_threshold must be in (0,1], got %v", d.IoUThreshold)
	}
	if len(d.WeedKeywords) == 0 && len(d.PestKeywords) == 0 {
		return errors.New("detector keyword tables are empty; nothing would ever categorize")
	}
	return nil
}

func validateTelemetryConfig(t TelemetryConfig) error {
	if !t.Enabled {
		return nil
	}
	if strings.TrimSpace(t.Endpoint) == "" {
		return errors.New("telemetry.endpoint must be set when telemetry is enabled")
	}
	switch strings.ToLower(t.Protocol) {
	case "grpc", "http":
		return nil
	default:
		return fmt.Errorf("telemetry.protocol %q must be grpc or http", t.Protocol)
	}
}
