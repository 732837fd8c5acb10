package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/backdrop-downloader/internal/config"
	"github.com/handiism/backdrop-downloader/internal/logging"
	"github.com/handiism/backdrop-downloader/internal/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	settings, err := config.LoadWithEnv(config.DefaultPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	// Stderr belongs to the terminal UI, so debug output only goes to the
	// log file.
	logger, closeLog, err := logging.New(logging.Options{File: settings.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code, err := tui.Run(ctx, settings, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return code
}
