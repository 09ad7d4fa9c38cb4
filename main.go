package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/hbomb79/mediagrab/internal"
	"github.com/hbomb79/mediagrab/pkg/logger"
	"github.com/joho/godotenv"
)

var envFiles = []string{".env.local", ".env"}

// main is the entry point to the program. Configuration is loaded from the
// optional YAML file given by '-config', overlaid by the environment (which
// may itself be seeded from any .env files in the working directory).
func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Fatalf("Main", "Failed to load %s: %v\n", path, err)
		}
	}

	config, err := internal.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("Main", "Failed to load configuration: %v\n", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := internal.New(*config)
	if err != nil {
		logger.Fatalf("Main", "Failed to initialise: %v\n", err)
	}

	if err := app.Run(ctx); err != nil {
		cancel()
		logger.Fatalf("Main", "%v\n", err)
	}
}
