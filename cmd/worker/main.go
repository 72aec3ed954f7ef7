// Command worker runs the reminder scheduler without the HTTP API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/BruksfildServices01/detailing-scheduler/internal/app"
	"github.com/BruksfildServices01/detailing-scheduler/internal/config"
	"github.com/BruksfildServices01/detailing-scheduler/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(logger.Config{})
		boot.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build app")
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("job lock backend unreachable; runs will fail until it recovers")
	}

	log.Info().Strs("jobs", a.Scheduler.Jobs()).Msg("worker starting")
	a.Scheduler.Run(ctx)
}
