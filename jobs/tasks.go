package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeSendTelegram is the task type for Telegram admin alerts.
	TaskTypeSendTelegram = "telegram:send"
	// TaskTypeBookingDigest is the task type for the daily booking summary.
	TaskTypeBookingDigest = "bookings:digest"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendTelegramPayload carries a message for the admin chat.
type SendTelegramPayload struct {
	Text string `json:"text"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// NewSendTelegramTask constructs an Asynq task.
func NewSendTelegramTask(payload SendTelegramPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendTelegram, data), nil
}

// NewBookingDigestTask constructs the scheduled digest task.
func NewBookingDigestTask() *asynq.Task {
	return asynq.NewTask(TaskTypeBookingDigest, nil)
}
