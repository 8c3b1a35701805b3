package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// BookingCounter reports how many booking requests arrived since a point in time.
type BookingCounter interface {
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// Processor executes queued tasks.
type Processor struct {
	logger     *slog.Logger
	mailer     Mailer
	telegram   TelegramSender
	bookings   BookingCounter
	adminEmail string
}

// NewProcessor constructs a Processor.
func NewProcessor(logger *slog.Logger, mailer Mailer, telegram TelegramSender, bookings BookingCounter, adminEmail string) *Processor {
	return &Processor{logger: logger, mailer: mailer, telegram: telegram, bookings: bookings, adminEmail: adminEmail}
}

// HandleSendEmail processes TaskTypeSendEmail tasks.
func (p *Processor) HandleSendEmail(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if p.mailer == nil {
		p.logger.Warn("mailer not configured, dropping email", slog.String("to", payload.To))
		return nil
	}
	if err := p.mailer.Send(payload.To, payload.Subject, payload.Body); err != nil {
		return fmt.Errorf("send email to %s: %w", payload.To, err)
	}
	return nil
}

// HandleSendTelegram processes TaskTypeSendTelegram tasks.
func (p *Processor) HandleSendTelegram(ctx context.Context, t *asynq.Task) error {
	var payload SendTelegramPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if p.telegram == nil {
		p.logger.Warn("telegram not configured, dropping alert")
		return nil
	}
	if err := p.telegram.SendMessage(ctx, payload.Text); err != nil {
		return fmt.Errorf("send telegram alert: %w", err)
	}
	return nil
}

// HandleBookingDigest emails the admin a count of bookings from the last day.
func (p *Processor) HandleBookingDigest(ctx context.Context, _ *asynq.Task) error {
	if p.bookings == nil || p.mailer == nil || p.adminEmail == "" {
		return nil
	}
	since := time.Now().Add(-24 * time.Hour)
	count, err := p.bookings.CountSince(ctx, since)
	if err != nil {
		return fmt.Errorf("count bookings for digest: %w", err)
	}
	subject := "Daily booking digest"
	body := fmt.Sprintf("Booking requests received in the last 24 hours: %d", count)
	if err := p.mailer.Send(p.adminEmail, subject, body); err != nil {
		return fmt.Errorf("send booking digest: %w", err)
	}
	return nil
}

// Worker wraps the Asynq server and optional scheduler.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	logger    *slog.Logger
}

// CronRegistration wires a cron expression to a prepared task.
type CronRegistration struct {
	Spec    string
	Task    *asynq.Task
	Options []asynq.Option
}

// WorkerConfig collects dependencies required to bootstrap the worker.
type WorkerConfig struct {
	RedisOpts asynq.RedisClientOpt
	Logger    *slog.Logger
	Processor *Processor
	Cron      []CronRegistration
}

// NewWorker constructs a Worker instance.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.Processor == nil {
		return nil, errors.New("worker: processor is required")
	}
	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			QueueDefault: 1,
		},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeSendEmail, cfg.Processor.HandleSendEmail)
	mux.HandleFunc(TaskTypeSendTelegram, cfg.Processor.HandleSendTelegram)
	mux.HandleFunc(TaskTypeBookingDigest, cfg.Processor.HandleBookingDigest)

	var scheduler *asynq.Scheduler
	if len(cfg.Cron) > 0 {
		scheduler = asynq.NewScheduler(cfg.RedisOpts, &asynq.SchedulerOpts{Location: time.UTC})
		for _, entry := range cfg.Cron {
			if entry.Spec == "" || entry.Task == nil {
				continue
			}
			if _, err := scheduler.Register(entry.Spec, entry.Task, entry.Options...); err != nil {
				return nil, err
			}
		}
	}

	return &Worker{server: srv, mux: mux, scheduler: scheduler, logger: cfg.Logger}, nil
}

// Run starts processing jobs until context cancellation.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("worker: not configured")
	}
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			return err
		}
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		return err
	}
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueSendEmail enqueues a send-email task.
func (c *Client) EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error) {
	task, err := NewSendEmailTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
}

// EnqueueSendTelegram enqueues a Telegram alert task.
func (c *Client) EnqueueSendTelegram(ctx context.Context, payload SendTelegramPayload) (*asynq.TaskInfo, error) {
	task, err := NewSendTelegramTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
