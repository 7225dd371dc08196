// Package app wires the configured components into a runnable service.
package app

import (
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/contentagent/internal/collector"
	"github.com/jonesrussell/contentagent/internal/config"
	"github.com/jonesrussell/contentagent/internal/generator"
	"github.com/jonesrussell/contentagent/internal/history"
	"github.com/jonesrussell/contentagent/internal/httpclient"
	"github.com/jonesrussell/contentagent/internal/logger"
	"github.com/jonesrussell/contentagent/internal/openai"
	"github.com/jonesrussell/contentagent/internal/pipeline"
	"github.com/jonesrussell/contentagent/internal/platforms"
	"github.com/jonesrussell/contentagent/internal/publish"
)

// Version is the service version reported by the health endpoint and CLI.
const Version = "1.0.0"

// App holds the assembled service and its shared resources.
type App struct {
	Config  *config.Config
	Log     logger.Logger
	Service *pipeline.Service
	History *history.Repository

	db *sqlx.DB
}

// New loads the configuration and assembles the pipeline service with its
// collector, generators, platform adapters, and optional history store.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, err
	}

	client := httpclient.NewDefault()

	aiClient := openai.NewClient(openai.Config{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		TextModel:  cfg.OpenAI.TextModel,
		ImageModel: cfg.OpenAI.ImageModel,
	}, client)

	registry := platforms.NewRegistry(cfg, client, log)
	coordinator := publish.NewCoordinator(registry, log)

	a := &App{
		Config: cfg,
		Log:    log,
	}

	// History is optional: a missing database disables recording but never
	// blocks posting.
	var recorder pipeline.HistoryRecorder
	if cfg.Database.URL != "" {
		db, dbErr := history.Connect(cfg.Database.URL)
		if dbErr != nil {
			log.Warn("Publish history disabled", logger.Error(dbErr))
		} else {
			a.db = db
			a.History = history.NewRepository(db)
			recorder = a.History
		}
	}

	a.Service = pipeline.NewService(
		cfg,
		collector.New(cfg.Crawl, log),
		generator.NewTextGenerator(aiClient, log),
		generator.NewImageGenerator(aiClient, log),
		coordinator,
		recorder,
		log,
	)

	return a, nil
}

// Close releases the app's shared resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Log.Warn("Failed to close history database", logger.Error(err))
		}
	}
	_ = a.Log.Sync()
}
