// Command forma-models downloads the MediaPipe pose model files used by the
// Forma app into the local assets directory.
//
// Configuration is loaded from an optional .env file and environment
// variables:
//   - FORMA_MODELS_DIR: assets directory (default: assets/models)
//   - FORMA_LOG_LEVEL: log verbosity (default: info)
//
// Exit code is 0 on success and 1 on any failure.
package main

import (
	"fmt"
	"os"

	models "github.com/Suvan-goel/Forma-Mobile-Fitness-App"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	cmd := models.NewCommand(models.Config{
		AppName:   "forma",
		AssetsDir: cfg.ModelsDir,
	}, models.WithLogger(logger))

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
