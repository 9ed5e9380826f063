package events

// Topic constants for domain events emitted by the services.
const (
	TopicBookingCreated   = "booking.created"
	TopicBookingConfirmed = "booking.confirmed"
	TopicPaymentInitiated = "payment.initiated"
	TopicPaymentSucceeded = "payment.succeeded"
	TopicPaymentFailed    = "payment.failed"
	TopicPaymentExpired   = "payment.expired"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicBookingCreated,
		TopicBookingConfirmed,
		TopicPaymentInitiated,
		TopicPaymentSucceeded,
		TopicPaymentFailed,
		TopicPaymentExpired,
	}
}
