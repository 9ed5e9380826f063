package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-coach/internal/common"
)

// TaskTypeEmailDeliver is the asynq task type consumed by the worker.
const TaskTypeEmailDeliver = "email:deliver"

// EmailQueue is the asynq queue dedicated to transactional email.
const EmailQueue = "email"

// EmailTask is the payload of a queued email delivery.
type EmailTask struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Enqueuer publishes email tasks for asynchronous delivery by the worker.
type Enqueuer struct {
	Client   *asynq.Client
	TaskType string
}

// Enqueue schedules the email for delivery.
func (e Enqueuer) Enqueue(ctx context.Context, task EmailTask) error {
	if e.Client == nil {
		return fmt.Errorf("notify: task client not configured")
	}
	if strings.TrimSpace(task.To) == "" {
		return nil
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("notify: encode email task: %w", err)
	}
	taskType := e.TaskType
	if taskType == "" {
		taskType = TaskTypeEmailDeliver
	}
	_, err = e.Client.EnqueueContext(ctx, asynq.NewTask(taskType, payload),
		asynq.Queue(EmailQueue), asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("notify: enqueue email task: %w", err)
	}
	return nil
}

// DeliveryWorker consumes queued email tasks and hands them to the mailer.
type DeliveryWorker struct {
	Mail   common.EmailSender
	Logger zerolog.Logger
}

// ProcessTask implements asynq.Handler.
func (w DeliveryWorker) ProcessTask(_ context.Context, t *asynq.Task) error {
	var task EmailTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		// malformed payloads are not retryable
		return fmt.Errorf("decode email task: %w: %w", err, asynq.SkipRetry)
	}
	if err := w.Mail.Send(task.To, task.Subject, task.HTML); err != nil {
		w.Logger.Warn().Err(err).Str("to", task.To).Msg("email delivery failed")
		return err
	}
	w.Logger.Info().Str("to", task.To).Str("subject", task.Subject).Msg("email delivered")
	return nil
}
