package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/agrosight-ai/agrosight/internal/config"
	"github.com/agrosight-ai/agrosight/internal/pipeline"
	"github.com/agrosight-ai/agrosight/internal/render"
	"github.com/agrosight-ai/agrosight/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "agrosight.yaml", "path to AgroSight config file")
	imagePath := flag.String("image", "", "path to the drone capture to analyze (required)")
	outDir := flag.String("out", "", "directory for the composite and heatmap PNGs (optional)")
	flag.Parse()

	log := logrus.New()

	if *imagePath == "" {
		log.Fatal("image flag is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if err := config.Validate(cfg); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(level)
	}

	ctx := context.Background()
	tel, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
		Protocol: cfg.Telemetry.Protocol,
		Service:  "agrosight",
		Version:  version,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to set up telemetry")
	}
	defer tel.Shutdown(ctx)

	analyzer, closeModels := pipeline.NewFromConfig(cfg, log, tel)
	defer closeModels()

	res, err := analyzer.Analyze(ctx, *imagePath)
	if err != nil {
		log.WithError(err).Fatal("analysis failed")
	}

	fmt.Println(render.Report(res))

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			log.WithError(err).Fatal("failed to create output directory")
		}
		compositePath := filepath.Join(*outDir, "analysis_output.png")
		if err := render.WriteCompositePNG(res, compositePath); err != nil {
			log.WithError(err).Fatal("failed to write composite")
		}
		heatmapPath := filepath.Join(*outDir, "health_map.png")
		if err := render.WriteHeatmapPNG(res.Index, heatmapPath); err != nil {
			log.WithError(err).Fatal("failed to write heatmap")
		}
		log.WithFields(logrus.Fields{
			"composite": compositePath,
			"heatmap":   heatmapPath,
		}).Info("visualizations written")
	}
}

// version is stamped via -ldflags on release builds.
var version = "dev"
