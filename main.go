package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/spendguard/spend-intervention/internal/app"
	"github.com/spendguard/spend-intervention/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid config: %v", err)
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "dev" {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	logrus.Infof("starting %s...", cfg.ServiceName)

	ctx := context.Background()
	application, err := app.New(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		logrus.Errorf("application exited with error: %v", err)
		os.Exit(1)
	}
}
