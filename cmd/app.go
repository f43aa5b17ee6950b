package cmd

import (
	"mangashelf/internal/buildinfo"
	"mangashelf/internal/config"
	"mangashelf/internal/logger"
)

type application struct {
	cfg *config.AppConfig
	log logger.Logger
}

// app is set by loadApp for the command being run.
var app *application

// loadApp reads the config and builds the logger.
func loadApp() *application {
	cfg := config.New(configPath, buildinfo.Version)

	app = &application{
		cfg: cfg,
		log: logger.New(cfg.Config),
	}

	return app
}

func (a *application) metricsTextfile() string {
	if metricsTextfile != "" {
		return metricsTextfile
	}

	return a.cfg.Config.MetricsTextfile
}
