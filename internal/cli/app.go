package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vijay-prabhu/alumnet/internal/config"
	"github.com/vijay-prabhu/alumnet/internal/database"
	"github.com/vijay-prabhu/alumnet/internal/logger"
	"github.com/vijay-prabhu/alumnet/internal/metrics"
)

// loadedCfg is the configuration of the current invocation, if any was loaded
var loadedCfg *config.Config

// app bundles the resources a command works with
type app struct {
	cfg    *config.Config
	db     *database.DB
	logger *zap.Logger
}

// newApp loads the configuration, builds the logger and opens the database.
// Callers must call close.
func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	loadedCfg = cfg

	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		_ = log.Sync()
		return nil, err
	}

	db, err := database.OpenDriver(cfg.Database.Driver, databaseTarget(cfg))
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	log.Debug("Database opened",
		zap.String("driver", db.Driver()),
		zap.String("config", configPath))

	return &app{cfg: cfg, db: db, logger: log}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Warn("Failed to close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if debugLog {
		level = "debug"
	}
	log, err := logger.New(level, cfg.Log.JSON || logJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

func databaseTarget(cfg *config.Config) string {
	if cfg.Database.Driver == database.DriverMySQL {
		return cfg.Database.DSN
	}
	return cfg.Database.Path
}

// writeMetrics exports the metrics registry when a textfile is configured.
// The flag takes precedence over the config file.
func writeMetrics() error {
	path := metricsFile
	if path == "" && loadedCfg != nil {
		path = loadedCfg.Metrics.Textfile
	}
	if path == "" {
		return nil
	}
	return metrics.WriteTextfile(path)
}
