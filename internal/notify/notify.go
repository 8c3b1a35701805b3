// Package notify fans booking events out to the back office. Delivery is
// best effort: failures are logged and never surface to the caller.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wayfarer-travel/wayfarer/jobs"
)

// BookingEvent describes a new booking request worth alerting on.
type BookingEvent struct {
	BookingID     int64
	CustomerName  string
	CustomerEmail string
	TourTitle     string
	PartySize     int
	Message       string
}

// Notifier announces booking events.
type Notifier interface {
	BookingReceived(ctx context.Context, ev BookingEvent)
}

// QueueNotifier pushes notification tasks onto the job queue.
type QueueNotifier struct {
	logger     *slog.Logger
	client     *jobs.Client
	adminEmail string
}

// NewQueueNotifier constructs a notifier backed by the asynq client.
func NewQueueNotifier(logger *slog.Logger, client *jobs.Client, adminEmail string) *QueueNotifier {
	return &QueueNotifier{logger: logger, client: client, adminEmail: adminEmail}
}

// BookingReceived enqueues an admin email and a Telegram alert.
func (n *QueueNotifier) BookingReceived(ctx context.Context, ev BookingEvent) {
	subject := fmt.Sprintf("New booking request #%d", ev.BookingID)
	body := fmt.Sprintf(
		"Tour: %s\nName: %s\nEmail: %s\nParty size: %d\n\n%s",
		ev.TourTitle, ev.CustomerName, ev.CustomerEmail, ev.PartySize, ev.Message,
	)
	if n.adminEmail != "" {
		if _, err := n.client.EnqueueSendEmail(ctx, jobs.SendEmailPayload{
			To:      n.adminEmail,
			Subject: subject,
			Body:    body,
		}); err != nil {
			n.logger.Error("enqueue booking email", slog.Int64("booking_id", ev.BookingID), slog.Any("error", err))
		}
	}
	if _, err := n.client.EnqueueSendTelegram(ctx, jobs.SendTelegramPayload{
		Text: subject + "\n" + body,
	}); err != nil {
		n.logger.Error("enqueue booking telegram alert", slog.Int64("booking_id", ev.BookingID), slog.Any("error", err))
	}
}
