package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/conway-evolved/utils"
)

const configFile = "config.json"

func main() {
	config, err := loadConfig(configFile)
	if err != nil {
		utils.Logf("failed to load configuration: %+v", err)
		os.Exit(1)
	}

	game, err := newGame(config, os.Stdout)
	if err != nil {
		utils.Logf("failed to start: %+v", err)
		os.Exit(1)
	}
	displayGameInfo(os.Stdout, config, game.grid)

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = game.Run(ctx, os.Stdin)
	if err != nil && !errors.Is(err, context.Canceled) {
		utils.Logf("game stopped: %+v", err)
	}
	fmt.Println("\n🛑 Shutting down gracefully...")
	printFinalStats(os.Stdout, game)
}

// loadConfig reads filename, falling back to defaults only when the file doesn't exist.
// A file that exists but cannot be parsed or validated is an error.
func loadConfig(filename string) (utils.Config, error) {
	config, err := utils.LoadConfig(filename)
	switch {
	case err == nil:
		return config, nil
	case os.IsNotExist(errors.Cause(err)):
		fmt.Printf("Using default configuration (%s not found)\n", filename)
		return utils.DefaultConfig(), nil
	default:
		return config, err
	}
}
