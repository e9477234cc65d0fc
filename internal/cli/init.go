// Package cli consolidates the initialization steps shared by the
// masasalarial commands: environment, configuration, logging and the
// optional column schema override.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"masasalarial/internal/config"
	"masasalarial/internal/log"
	"masasalarial/internal/payroll"
)

// Setup performs the common command bootstrap and exits the process when
// the configuration or schema override is unusable. The .env load is
// best-effort; production deployments configure through real environment
// variables.
func Setup() (*config.Config, *log.Logger, payroll.Schema) {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := setupLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	schema := payroll.DefaultSchema()
	if cfg.SchemaFile != "" {
		loaded, err := payroll.LoadSchemaFile(cfg.SchemaFile)
		if err != nil {
			logger.Error("Failed to load schema override", "error", err, "path", cfg.SchemaFile)
			os.Exit(1)
		}
		schema = loaded
		logger.Info("Loaded schema override", "path", cfg.SchemaFile)
	}

	return cfg, logger, schema
}

// setupLogger builds the root logger and installs it as the process
// default. An unknown level falls back to info, warned once the logger is
// up.
func setupLogger(levelStr string) *log.Logger {
	level, err := log.ParseLevel(levelStr)
	logger := log.New(log.Config{Level: level, Component: log.ComponentApp})
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, falling back to info", "error", err)
	}
	return logger
}
