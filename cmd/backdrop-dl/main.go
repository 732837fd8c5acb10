package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/backdrop-downloader/internal/app"
	"github.com/handiism/backdrop-downloader/internal/config"
	"github.com/handiism/backdrop-downloader/internal/logging"
	"github.com/handiism/backdrop-downloader/internal/workflow"
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

	logger, closeLog, err := logging.New(logging.Options{
		File:   settings.LogFile,
		Debug:  settings.Debug,
		Stderr: os.Stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		return 1
	}
	defer closeLog()

	// Handle interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, settings, workflow.NewConsole(os.Stdin, os.Stdout), logger)
}
