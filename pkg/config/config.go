// Package config loads application configuration from the environment, with
// optional .env support for local development.
package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// APIConfig configures the remote gateway.
type APIConfig struct {
	BaseURL string        `envconfig:"BASE_URL" default:"https://shmr-finance.ru/api/v1/"`
	Token   string        `envconfig:"TOKEN"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"15s"`
}

// DBConfig configures the local SQLite store.
type DBConfig struct {
	Path  string `envconfig:"PATH" default:"fintrack.db"`
	Debug bool   `envconfig:"DEBUG" default:"false"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"text"`
}

// AppConfig is the root configuration.
type AppConfig struct {
	API APIConfig `envconfig:"API"`
	DB  DBConfig  `envconfig:"DB"`
	Log LogConfig `envconfig:"LOG"`
}

// Load reads configuration from a .env file (when present) and the process
// environment.
func Load(logger *slog.Logger) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using system environment variables")
	} else {
		logger.Info("environment variables loaded from .env file")
	}
	var cfg AppConfig
	if err := envconfig.Process("FINTRACK", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
