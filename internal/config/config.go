package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds AgroSight configuration.
type Config struct {
	// TargetSize is the square working resolution the pipeline resizes
	// captures to before anything else runs.
	TargetSize int              `yaml:"target_size"`
	Engine     EngineConfig     `yaml:"engine"`
	Segmenter  SegmenterConfig  `yaml:"segmenter"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Detector   DetectorConfig   `yaml:"detector"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// EngineConfig tunes the fusion rules.
type EngineConfig struct {
	LowIndexThreshold float64 `yaml:"low_index_threshold"` // mean vegetation index below this counts as stressed
}

// SegmenterConfig configures the crop/background segmentation model.
type SegmenterConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ModelPath   string `yaml:"model_path"`
	InputSize   int    `yaml:"input_size"`
	NumClasses  int    `yaml:"num_classes"`
	CropClasses []int  `yaml:"crop_classes"` // class IDs treated as vegetation
}

// ClassifierConfig configures the plant-disease classifier.
type ClassifierConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ModelPath  string `yaml:"model_path"`
	LabelsPath string `yaml:"labels_path"`
	InputSize  int    `yaml:"input_size"`
}

// DetectorConfig configures the weed/pest detector. Enabled is an explicit
// flag rather than an import-availability global: a deployment without the
// detector model simply runs with it off.
type DetectorConfig struct {
	Enabled       bool     `yaml:"enabled"`
	ModelPath     string   `yaml:"model_path"`
	LabelsPath    string   `yaml:"labels_path"`
	InputSize     int      `yaml:"input_size"`
	ConfThreshold float64  `yaml:"confidence_threshold"`
	IoUThreshold  float64  `yaml:"iou_threshold"`
	WeedKeywords  []string `yaml:"weed_keywords"`
	PestKeywords  []string `yaml:"pest_keywords"`
}

// TelemetryConfig enables OTLP export. Off by default.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Protocol string `yaml:"protocol"` // grpc | http
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// Load reads configuration from a YAML file. A .env in the working directory
// is loaded first so env-based settings (e.g. the onnxruntime library path)
// work without exporting. If the file doesn't exist, defaults are returned.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.TargetSize == 0 {
		cfg.TargetSize = 512
	}
	if cfg.Engine.LowIndexThreshold == 0 {
		cfg.Engine.LowIndexThreshold = 0.3
	}

	if cfg.Segmenter.InputSize == 0 {
		cfg.Segmenter.InputSize = 512
	}
	if cfg.Segmenter.NumClasses == 0 {
		cfg.Segmenter.NumClasses = 21
	}
	if len(cfg.Segmenter.CropClasses) == 0 {
		// Greenery-adjacent IDs of the pretrained model's label set.
		cfg.Segmenter.CropClasses = []int{9, 10, 13, 15}
	}

	if cfg.Classifier.InputSize == 0 {
		cfg.Classifier.InputSize = 224
	}

	if cfg.Detector.InputSize == 0 {
		cfg.Detector.InputSize = 640
	}
	if cfg.Detector.ConfThreshold == 0 {
		cfg.Detector.ConfThreshold = 0.5
	}
	if cfg.Detector.IoUThreshold == 0 {
		cfg.Detector.IoUThreshold = 0.7
	}
	if len(cfg.Detector.WeedKeywords) == 0 {
		cfg.Detector.WeedKeywords = []string{"plant", "potted plant"}
	}
	if len(cfg.Detector.PestKeywords) == 0 {
		cfg.Detector.PestKeywords = []string{"bird", "insect", "bee"}
	}

	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = "grpc"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
