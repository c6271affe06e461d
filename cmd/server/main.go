package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/symptom-intake-server/internal/api"
	"github.com/symptom-intake-server/internal/auth"
	"github.com/symptom-intake-server/internal/config"
	"github.com/symptom-intake-server/internal/database"
	"github.com/symptom-intake-server/internal/domain"
	"github.com/symptom-intake-server/internal/extract"
	"github.com/symptom-intake-server/internal/history"
	"github.com/symptom-intake-server/internal/service"
	"github.com/symptom-intake-server/pkg/external"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		logrus.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the history store
	store, err := newHistoryStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open history store")
	}
	defer store.Close()

	// Optional advisory enrichment
	enricher := newEnricher(cfg, logger)

	// Token verification for history routes; without a secret all
	// callers are anonymous and history is inaccessible
	var verifier domain.TokenVerifier
	if cfg.Auth.JWTSecret != "" {
		verifier = auth.NewHMACVerifier(cfg.Auth.JWTSecret)
	} else {
		logger.Warn("No JWT secret configured, running without authentication")
	}

	classifier := service.NewSymptomRuleEngine(logger)
	extractor := extract.NewFileExtractor(logger)
	intake := service.NewIntakeService(logger, classifier, extractor, enricher, store)

	server := api.NewServer(configManager, logger, intake, store, verifier)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	logger.WithFields(logrus.Fields{
		"host":           cfg.Server.Host,
		"port":           cfg.Server.Port,
		"history_driver": cfg.History.Driver,
	}).Info("Starting symptom intake server")

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// newLogger builds the process logger from configuration.
func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.Output == "stderr" {
		logger.SetOutput(os.Stderr)
	} else {
		logger.SetOutput(os.Stdout)
	}

	return logger
}

// newHistoryStore opens the configured history backend. Postgres runs
// migrations before handing out the pool; SQLite creates its schema on open.
func newHistoryStore(ctx context.Context, cfg *domain.Config, logger *logrus.Logger) (history.Store, error) {
	switch cfg.History.Driver {
	case "postgres":
		runner, err := database.NewMigrationRunner(database.URL(cfg.Database), cfg.Database.MigrationsPath, logger)
		if err != nil {
			return nil, err
		}
		if err := runner.Up(); err != nil {
			runner.Close()
			return nil, err
		}
		runner.Close()

		db, err := database.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return history.NewPostgresStore(db.Pool, logger), nil

	default:
		return history.NewSQLiteStore(cfg.History.SQLitePath)
	}
}

// newEnricher wires the advisory analysis pipeline when an API key is
// configured. Without one the intake path simply skips enrichment.
func newEnricher(cfg *domain.Config, logger *logrus.Logger) domain.Enricher {
	if cfg.Enrichment.APIKey == "" {
		logger.Info("No enrichment API key configured, advisory analysis disabled")
		return nil
	}

	cache, err := external.NewAnalysisCache(cfg.Cache, logger)
	if err != nil {
		logger.WithError(err).Warn("Enrichment cache unavailable, continuing without it")
		cache = nil
	}

	client := external.NewHuggingFaceClient(cfg.Enrichment)
	return external.NewResilientEnricher(client, cache, logger)
}
