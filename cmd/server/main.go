package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fraydd/cmm-sub002/internal/config"
	"github.com/fraydd/cmm-sub002/internal/infra"
	"github.com/fraydd/cmm-sub002/internal/repository"
	"github.com/fraydd/cmm-sub002/internal/router"
	"github.com/fraydd/cmm-sub002/internal/service"
	"github.com/fraydd/cmm-sub002/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty console in development, plain JSON elsewhere.
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Worker pool consuming payment events from facturación. Posting an
	// ingreso is idempotent on pago_id, so at-least-once delivery is safe.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sucursalRepo := repository.NewSucursalRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	acceso := service.NewAccesoSucursal(sucursalRepo)
	cajaSvc := service.NewCajaService(cajaRepo, movimientoRepo, acceso)
	worker.StartWorkerPool(ctx, rdb, worker.NewPagoWorker(cajaSvc), cfg.WorkerPoolSize)

	r := router.New(cfg, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("ledger backend listening on :%d", cfg.Port)
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
