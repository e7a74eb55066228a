package main

import (
	"context"

	"github.com/hibiken/asynq"

	"formsmith/config"
	"formsmith/internal/app"
	"formsmith/internal/jobs"
	"formsmith/internal/log"
)

func main() {
	cfg := config.Load()
	log.Configure(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close(ctx)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
			Logger:      log.Logger,
		},
	)

	handler := jobs.NewHandler(a.AnalyticsService(), a.EventBus)

	log.Infof("Worker started with concurrency %d", cfg.WorkerConcurrency)
	if err := srv.Run(handler.ServeMux()); err != nil {
		log.Fatalf("Worker stopped: %v", err)
	}
}
