package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Joe-Bills/moto-spares-manager/internal/config"
	"github.com/Joe-Bills/moto-spares-manager/internal/infra"
	"github.com/Joe-Bills/moto-spares-manager/internal/router"
	"github.com/Joe-Bills/moto-spares-manager/internal/service"
	"github.com/Joe-Bills/moto-spares-manager/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	if err := infra.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis only backs the report email queue; the API runs without it.
	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, emailed reports disabled")
		rdb = nil
	}

	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg, smtpCB)

	var queue service.ReportQueue
	if rdb != nil {
		queue = worker.NewDispatcher(rdb)
	}
	svcs := router.NewServices(cfg, db, queue)

	// Worker handlers are wired here (composition root) so the pool can
	// reach the report service and the mailer.
	var pool *worker.Pool
	if rdb != nil {
		pool = worker.NewPool(rdb, map[string]worker.Handler{
			worker.JobReportEmail: worker.NewReportEmailWorker(svcs.Reports, mailer, cfg.BusinessName),
		})
		pool.Start(ctx, cfg.WorkerPoolSize)
		worker.StartReplayCron(ctx, worker.ReplayCronConfig{RDB: rdb, CB: smtpCB, Queue: worker.QueueReportEmail})
	}

	r := router.New(cfg, svcs, db, rdb, smtpCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("moto-spares backend listening on :%d", cfg.Port)
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

	cancel()
	if pool != nil {
		pool.Wait()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
