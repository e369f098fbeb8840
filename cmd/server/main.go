package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Crsto22/Bodega-sub000/internal/config"
	"github.com/Crsto22/Bodega-sub000/internal/events"
	"github.com/Crsto22/Bodega-sub000/internal/infra"
	"github.com/Crsto22/Bodega-sub000/internal/repository"
	"github.com/Crsto22/Bodega-sub000/internal/router"
	"github.com/Crsto22/Bodega-sub000/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
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

	// In-process change bus: services publish after every committed mutation,
	// read models and the SSE stream react.
	bus := events.NewBus()
	defer bus.Close()

	// Worker pool for async tasks (debt aggregate refresh). Handlers are
	// wired here (composition root) with full access to infrastructure.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ventaRepo := repository.NewVentaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)

	workerHandlers := &worker.Handlers{
		Deudas: worker.NewDeudaWorker(ventaRepo, clienteRepo, rdb),
	}
	worker.StartPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	r := router.New(cfg, db, rdb, bus)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("bodega backend listening on :%d", cfg.Port)
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
