package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/coverart/internal/config"
	httpHandler "github.com/yokitheyo/coverart/internal/handler/http"
	"github.com/yokitheyo/coverart/internal/handler/middleware"
	"github.com/yokitheyo/coverart/internal/infrastructure/processor"
	"github.com/yokitheyo/coverart/internal/infrastructure/watcher"
	"github.com/yokitheyo/coverart/internal/usecase"
	"github.com/yokitheyo/coverart/internal/worker"
)

func main() {
	zlog.Init()
	zlog.Logger.Info().Msg("Starting CoverArt Converter")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("")
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Str("level", cfg.Logging.Level).Msg("invalid log level")
	}
	zlog.Logger = zlog.Logger.Level(level)

	zlog.Logger.Info().
		Str("watch_dir", cfg.Watch.Dir).
		Str("addr", cfg.Server.Addr).
		Msg("config loaded")

	// Pipeline
	imageProcessor := processor.NewImageProcessor()
	processorUsecase := usecase.NewProcessorUsecase(imageProcessor)

	// Drop folder watcher
	dropWatcher, err := watcher.New(&cfg.Watch)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to create watcher")
	}

	addRetries := cfg.Watch.AddRetries
	addRetryDelay := cfg.Watch.AddRetryDelaySec
	if addRetries == 0 {
		addRetries = 5
	}
	if addRetryDelay == 0 {
		addRetryDelay = 2
	}
	strategy := retry.Strategy{
		Attempts: addRetries,
		Delay:    time.Duration(addRetryDelay) * time.Second,
		Backoff:  2.0,
	}
	if err := dropWatcher.Start(strategy); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to start watcher")
	}

	// Single-flight job worker
	jobWorker := worker.NewJobWorker(processorUsecase, dropWatcher.Drops())
	workerDone := make(chan struct{})
	go func() {
		jobWorker.Run(ctx)
		close(workerDone)
	}()

	// Status surface
	engine := ginext.New("coverart")
	engine.Use(
		middleware.ErrorHandlerMiddleware(),
		middleware.LoggerMiddleware(),
	)

	engine.GET("/health", func(c *ginext.Context) {
		c.JSON(http.StatusOK, ginext.H{"status": "ok"})
	})

	statusHandler := httpHandler.NewStatusHandler(jobWorker)
	statusHandler.RegisterRoutes(engine)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	go func() {
		zlog.Logger.Info().Str("addr", cfg.Server.Addr).Msg("Starting HTTP status server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Logger.Fatal().Err(err).Msg("Failed to start status server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("Shutdown signal received")

	if err := dropWatcher.Stop(); err != nil {
		zlog.Logger.Error().Err(err).Msg("watcher stop failed")
	}

	// The worker lets an in-flight job run to completion before exiting.
	<-workerDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	} else {
		zlog.Logger.Info().Msg("HTTP server stopped gracefully")
	}

	zlog.Logger.Info().Msg("Shutdown complete")
}
