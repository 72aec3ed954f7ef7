package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/detailing-scheduler/internal/app"
	"github.com/BruksfildServices01/detailing-scheduler/internal/config"
	"github.com/BruksfildServices01/detailing-scheduler/internal/logger"
	"github.com/BruksfildServices01/detailing-scheduler/internal/routes"
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

	// single-process deployments can run the jobs next to the API
	if cfg.Jobs.Enabled {
		go a.Scheduler.Run(ctx)
	}

	r := gin.Default()
	routes.RegisterRoutes(r, a)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("store", cfg.StoreDriver).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
