package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lawdesk_backend/internal/email"
	"lawdesk_backend/internal/notification/mailbox"
	"lawdesk_backend/internal/scheduler"
	"lawdesk_backend/platform/config"
	"lawdesk_backend/platform/db"
	"lawdesk_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	sender := email.NewSender(cfg)
	mbox := mailbox.New(cfg, log)

	worker, err := scheduler.NewWorker(cfg, cfg, pool, mbox, sender, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("scheduler worker stopped")
}
