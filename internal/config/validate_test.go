package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Segmenter.Enabled = true
	cfg.Segmenter.ModelPath = "models/deeplabv3.onnx"
	cfg.Classifier.Enabled = true
	cfg.Classifier.ModelPath = "models/plant_disease.onnx"
	cfg.Classifier.LabelsPath = "models/plant_disease_labels.json"
	cfg.Detector.Enabled = true
	cfg.Detector.ModelPath = "models/yolov8n.onnx"
	cfg.Detector.LabelsPath = "models/coco_labels.json"
	return cfg
}

func TestValidate_Accepts(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	// All models disabled is a legal (if useless) demo configuration.
	if err := Validate(defaultConfig()); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "nil handled separately",
			mutate: nil,
			want:   "config is nil",
		},
		{
			name:   "bad target size",
			mutate: func(c *Config) { c.TargetSize = -1 },
			want:   "target_size",
		},
		{
			name:   "threshold out of range",
			mutate: func(c *Config) { c.Engine.LowIndexThreshold = 1.5 },
			want:   "low_index_threshold",
		},
		{
			name:   "segmenter without model",
			mutate: func(c *Config) { c.Segmenter.ModelPath = "  " },
			want:   "segmenter.model_path",
		},
		{
			name:   "crop class out of range",
			mutate: func(c *Config) { c.Segmenter.CropClasses = []int{99} },
			want:   "crop_classes",
		},
		{
			name:   "classifier without labels",
			mutate: func(c *Config) { c.Classifier.LabelsPath = "" },
			want:   "classifier.labels_path",
		},
		{
			name:   "detector without model",
			mutate: func(c *Config) { c.Detector.ModelPath = "" },
			want:   "detector.model_path",
		},
		{
			name:   "detector bad confidence",
			mutate: func(c *Config) { c.Detector.ConfThreshold = 2 },
			want:   "confidence_threshold",
		},
		{
			name: "detector empty keyword tables",
			mutate: func(c *Config) {
				c.Detector.WeedKeywords = nil
				c.Detector.PestKeywords = nil
			},
			want: "keyword tables",
		},
		{
			name: "telemetry enabled without endpoint",
			mutate: func(c *Config) {
				c.Telemetry.Enabled = true
				c.Telemetry.Endpoint = ""
			},
			want: "telemetry.endpoint",
		},
		{
			name: "telemetry bad protocol",
			mutate: func(c *Config) {
				c.Telemetry.Enabled = true
				c.Telemetry.Endpoint = "localhost:4317"
				c.Telemetry.Protocol = "udp"
			},
			want: "protocol",
		},
		{
			name:   "bogus log level",
			mutate: func(c *Config) { c.Logging.Level = "loud" },
			want:   "logging.level",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var cfg *Config
			if tc.mutate != nil {
				cfg = validConfig()
				tc.mutate(cfg)
			}
			err := Validate(cfg)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not contain %q", err.Error(), tc.want)
			}
		})
	}
}
