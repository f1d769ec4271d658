package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"funnel_backend/internal/scheduler"
	"funnel_backend/platform/config"
	"funnel_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "interval", cfg.CleanupInterval.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queueClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize queue client", "error", err)
		panic("failed to initialize queue client: " + err.Error())
	}
	defer func() {
		_ = queueClient.Close()
	}()

	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("contact cleanup schedule active", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received, stopping scheduler")
			return
		case <-ticker.C:
			if err := queueClient.EnqueueContactCleanup(ctx); err != nil {
				log.Error("failed to enqueue contact cleanup", "error", err)
				continue
			}
			log.Info("contact cleanup enqueued")
		}
	}
}
