package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file must yield defaults, got error: %v", err)
	}
	if cfg.TargetSize != 512 {
		t.Fatalf("default target_size = %d, want 512", cfg.TargetSize)
	}
	if cfg.Engine.LowIndexThreshold != 0.3 {
		t.Fatalf("default threshold = %v, want 0.3", cfg.Engine.LowIndexThreshold)
	}
	if cfg.Detector.Enabled {
		t.Fatalf("detector must be disabled by default")
	}
	if len(cfg.Detector.WeedKeywords) == 0 || len(cfg.Detector.PestKeywords) == 0 {
		t.Fatalf("default keyword tables must be populated")
	}
}

func TestLoad_ParsesAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agrosight.yaml")
	body := `
target_size: 256
engine:
  low_index_threshold: 0.25
detector:
  enabled: true
  model_path: models/yolov8n.onnx
  labels_path: models/coco_labels.json
  weed_keywords: ["thistle"]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TargetSize != 256 {
		t.Fatalf("target_size = %d, want 256", cfg.TargetSize)
	}
	if cfg.Engine.LowIndexThreshold != 0.25 {
		t.Fatalf("threshold = %v, want 0.25", cfg.Engine.LowIndexThreshold)
	}
	if !cfg.Detector.Enabled {
		t.Fatalf("detector.enabled not parsed")
	}
	if cfg.Detector.WeedKeywords[0] != "thistle" {
		t.Fatalf("explicit keywords overridden: %+v", cfg.Detector.WeedKeywords)
	}
	// Unset fields still get defaults.
	if cfg.Detector.InputSize != 640 || cfg.Detector.ConfThreshold != 0.5 {
		t.Fatalf("detector defaults not applied: %+v", cfg.Detector)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("logging default not applied: %q", cfg.Logging.Level)
	}
}

func TestLoad_RejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("target_size: [not an int"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
