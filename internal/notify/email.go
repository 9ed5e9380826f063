package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/backend-coach/internal/events"
	"github.com/noah-isme/backend-coach/internal/repo"
)

// EmailQueuer abstracts the delivery queue so tests can capture tasks.
type EmailQueuer interface {
	Enqueue(ctx context.Context, task EmailTask) error
}

// EmailNotifier turns domain events into queued transactional emails.
type EmailNotifier struct {
	Queue        EmailQueuer
	Enabled      bool
	TopicToggles map[string]bool
}

// Notify implements the events.Notifier interface.
func (n EmailNotifier) Notify(ctx context.Context, event repo.DomainEvent) error {
	if !n.Enabled || n.Queue == nil {
		return nil
	}
	if n.TopicToggles != nil {
		if enabled, ok := n.TopicToggles[event.Topic]; ok && !enabled {
			return nil
		}
	}
	payload := map[string]any{}
	if len(event.Payload) > 0 {
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("email notify: decode payload: %w", err)
		}
	}
	to := extractRecipient(payload)
	if to == "" {
		return nil
	}
	return n.Queue.Enqueue(ctx, EmailTask{
		To:      to,
		Subject: subjectFor(event.Topic),
		HTML:    bodyFor(event.Topic, payload, event.OccurredAt),
	})
}

func extractRecipient(payload map[string]any) string {
	keys := []string{"email", "customerEmail", "recipient"}
	for _, key := range keys {
		if val, ok := payload[key]; ok {
			if s, ok := val.(string); ok {
				s = strings.TrimSpace(s)
				if s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func subjectFor(topic string) string {
	switch topic {
	case events.TopicBookingCreated:
		return "We received your booking"
	case events.TopicBookingConfirmed:
		return "Your coaching session is confirmed"
	case events.TopicPaymentSucceeded:
		return "Payment received"
	case events.TopicPaymentFailed:
		return "Payment failed"
	case events.TopicPaymentExpired:
		return "Payment link expired"
	default:
		return fmt.Sprintf("Update on your booking (%s)", topic)
	}
}

func bodyFor(topic string, payload map[string]any, occurred time.Time) string {
	name, _ := payload["name"].(string)
	if name == "" {
		name, _ = payload["customerName"].(string)
	}
	greeting := "Hi"
	if name != "" {
		greeting = "Hi " + name
	}
	lines := []string{fmt.Sprintf("<p>%s,</p>", greeting)}
	switch topic {
	case events.TopicBookingCreated:
		lines = append(lines, "<p>Thanks for booking a coaching session. We will confirm your slot shortly.</p>")
	case events.TopicBookingConfirmed:
		lines = append(lines, "<p>Your session is confirmed. See you there!</p>")
	case events.TopicPaymentSucceeded:
		lines = append(lines, "<p>We received your payment, thank you.</p>")
	case events.TopicPaymentFailed:
		lines = append(lines, "<p>Your payment did not go through. You can retry from your booking page.</p>")
	case events.TopicPaymentExpired:
		lines = append(lines, "<p>Your payment link expired. Request a new one to complete the booking.</p>")
	}
	if ref, ok := payload["reference"].(string); ok && ref != "" {
		lines = append(lines, fmt.Sprintf("<p>Reference: <strong>%s</strong></p>", ref))
	}
	if orderID, ok := payload["orderId"].(string); ok && orderID != "" {
		lines = append(lines, fmt.Sprintf("<p>Order: %s</p>", orderID))
	}
	lines = append(lines, fmt.Sprintf("<p><small>%s</small></p>", occurred.Format(time.RFC1123)))
	return strings.Join(lines, "\n")
}
