package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envConfig holds environment-based configuration for the CLI.
// Field names map to environment variables with the FORMA_ prefix.
type envConfig struct {
	// ModelsDir is the assets directory model files are written to.
	// Env: FORMA_MODELS_DIR (default: assets/models)
	ModelsDir string `envconfig:"MODELS_DIR" default:"assets/models"`

	// LogLevel is the log verbosity level.
	// Env: FORMA_LOG_LEVEL (default: info)
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// loadConfig loads configuration from an optional .env file and FORMA_*
// environment variables. A missing .env file is not an error.
func loadConfig() (envConfig, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return envConfig{}, err
		}
	}

	var cfg envConfig
	if err := envconfig.Process("forma", &cfg); err != nil {
		return envConfig{}, err
	}
	return cfg, nil
}
