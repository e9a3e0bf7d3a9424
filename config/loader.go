package config

import (
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Loader layers configuration: defaults, then the config file, then a
// .env file, then the process environment.
type Loader struct {
	logger  *slog.Logger
	path    string
	envFile string
	lookup  func(string) (string, bool)
}

func NewLoader(logger *slog.Logger, path string) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, path: path, envFile: ".env", lookup: os.LookupEnv}
}

func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	if fileConfig, err := LoadFromFile(l.path); err == nil {
		l.logger.Debug("Loaded config file", slog.String("path", l.path))
		config.Merge(fileConfig)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// .env never overrides variables already set in the environment
	if err := godotenv.Load(l.envFile); err == nil {
		l.logger.Debug("Loaded env file", slog.String("path", l.envFile))
	} else if !errors.Is(err, os.ErrNotExist) {
		l.logger.Warn("Failed to load env file", slog.String("path", l.envFile), slog.String("error", err.Error()))
	}

	if err := config.ApplyEnv(l.lookup); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
