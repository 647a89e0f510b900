package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Castafa/News-ans-Public-opinion/internal/app"
	"github.com/Castafa/News-ans-Public-opinion/internal/config"
	"github.com/Castafa/News-ans-Public-opinion/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := logger.Init(logger.Options{})
		log.Fatal().Err(err).Msg("config")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Output: os.Stdout})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("app")
	}
}
