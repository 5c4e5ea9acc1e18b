package scheduler

import (
	"context"
	"fmt"
	"time"

	"lawdesk_backend/internal/email"
	"lawdesk_backend/internal/leads/repository"
	"lawdesk_backend/internal/notification/mailbox"
	"lawdesk_backend/platform/config"
	"lawdesk_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	repo      *repository.Repository
	mailbox   *mailbox.Service
	sender    email.Sender
	recipient string
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, digest config.DigestConfig, pool *pgxpool.Pool, mbox *mailbox.Service, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		repo:      repository.New(pool),
		mailbox:   mbox,
		sender:    sender,
		recipient: digest.GetDigestRecipient(),
		log:       log,
	}

	mux.HandleFunc(TaskDailyDigest, w.handleDailyDigest)

	if w.recipient != "" {
		sched := asynq.NewScheduler(opt, nil)
		task, err := NewDailyDigestTask(DailyDigestPayload{Recipient: w.recipient})
		if err != nil {
			return nil, err
		}
		if _, err := sched.Register(digest.GetDigestScheduleCron(), task, asynq.Queue(queue)); err != nil {
			return nil, fmt.Errorf("register digest schedule: %w", err)
		}
		w.scheduler = sched
	} else {
		log.Warn("digest recipient not configured, daily digest disabled")
	}

	return w, nil
}

func (w *Worker) handleDailyDigest(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDailyDigestPayload(task)
	if err != nil {
		return err
	}

	recipient := payload.Recipient
	if recipient == "" {
		recipient = w.recipient
	}
	if recipient == "" {
		return nil
	}

	now := time.Now()
	newLeads, err := w.repo.CountCreatedSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return fmt.Errorf("count new leads: %w", err)
	}

	data := email.DigestData{
		Date:          now.Format("02/01/2006"),
		NewLeads:      newLeads,
		MailboxUnread: w.mailbox.UnreadCount(),
	}

	if err := w.sender.SendDailyDigest(ctx, recipient, data); err != nil {
		return fmt.Errorf("send daily digest: %w", err)
	}

	w.log.Info("daily digest sent", "recipient", recipient, "new_leads", newLeads)
	return nil
}

// Run serves queued tasks and the cron registrations until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		w.server.Shutdown()
	}()

	if w.scheduler != nil {
		go func() {
			if err := w.scheduler.Run(); err != nil {
				w.log.Error("digest scheduler stopped", "error", err)
			}
		}()
	}

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
