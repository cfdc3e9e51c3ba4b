package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/agrosight-ai/agrosight/internal/config"
	"github.com/agrosight-ai/agrosight/internal/pipeline"
	"github.com/agrosight-ai/agrosight/internal/server"
	"github.com/agrosight-ai/agrosight/internal/telemetry"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	configPath := flag.String("config", "agrosight.yaml", "path to AgroSight config file")
	flag.Parse()

	log := logrus.New()

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
		Service:  "agrosight-server",
		Version:  "dev",
	})
	if err != nil {
		log.WithError(err).Fatal("failed to set up telemetry")
	}
	defer tel.Shutdown(ctx)

	analyzer, closeModels := pipeline.NewFromConfig(cfg, log, tel)
	defer closeModels()

	srv := server.New(analyzer, log)
	log.WithField("addr", *addr).Info("agrosight server listening")
	if err := srv.Start(*addr); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
