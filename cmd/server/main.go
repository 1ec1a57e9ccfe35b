package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/viktorhino/gestor-cupos-sub001/internal/config"
	"github.com/viktorhino/gestor-cupos-sub001/internal/infra"
	"github.com/viktorhino/gestor-cupos-sub001/internal/metrics"
	"github.com/viktorhino/gestor-cupos-sub001/internal/router"
	"github.com/viktorhino/gestor-cupos-sub001/internal/worker"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	imagenes, err := infra.NewImagenStore(cfg.ImagenStoragePath, cfg.Dominio+"/imagenes")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare image storage")
	}

	// Worker pool for async tasks (email copies of notifications). Handlers
	// are wired here, at the composition root, so the pool has access to the
	// full infrastructure.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.Registry("gestor_cupos")
	mailer := infra.NewMailer(cfg)
	pool := worker.NewPool(rdb, map[string]worker.Handler{
		"email": worker.NewEmailWorker(mailer),
	}, m)
	pool.Start(ctx, cfg.WorkerPoolSize)
	worker.StartRetryCron(ctx, rdb, worker.QueueEmail)

	r := router.New(cfg, db, rdb, imagenes)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("gestor de cupos listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
