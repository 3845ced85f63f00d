package cmd

import (
	"github.com/conneroisu/islet/internal/config"
	"github.com/conneroisu/islet/internal/logging"
)

// loadRuntime loads and validates configuration and builds the logger the
// commands share.
func loadRuntime() (*config.Config, logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
	})

	return cfg, logger, nil
}
