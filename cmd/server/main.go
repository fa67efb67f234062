package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/smartask/api/internal/config"
	"github.com/smartask/api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server)
	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"consumer_count", cfg.Broker.ConsumerCount)

	app, err := newApplication(cfg, log)
	if err != nil {
		return err
	}

	if err := app.Start(); err != nil {
		app.Shutdown()
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	sig := <-stop
	log.Info("shutdown signal received", "signal", sig.String())

	app.Shutdown()
	return nil
}
