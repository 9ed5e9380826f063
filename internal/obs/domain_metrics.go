package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CheckoutTotal counts checkout URL build attempts by result.
	CheckoutTotal *prometheus.CounterVec
	// WebhookTotal counts inbound gateway webhook processing outcomes.
	WebhookTotal *prometheus.CounterVec
	// SignatureFailures counts rejected signatures by inbound surface.
	SignatureFailures *prometheus.CounterVec
	// BookingTotal counts booking submissions by result.
	BookingTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_checkout_total",
			Help:      "Count of checkout URL build outcomes.",
		}, []string{"result"})
		WebhookTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_webhook_total",
			Help:      "Count of processed payment webhooks by outcome.",
		}, []string{"result"})
		SignatureFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_signature_failures_total",
			Help:      "Count of rejected gateway signatures by surface.",
		}, []string{"surface"})
		BookingTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_submissions_total",
			Help:      "Count of booking submissions by result.",
		}, []string{"result"})

		for _, c := range []*prometheus.CounterVec{CheckoutTotal, WebhookTotal, SignatureFailures, BookingTotal} {
			if err := reg.Register(c); err != nil {
				if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
					panic(err)
				}
			}
		}
	})
}

// ObserveCheckout increments the checkout counter when metrics are registered.
func ObserveCheckout(result string) {
	if CheckoutTotal != nil {
		CheckoutTotal.WithLabelValues(result).Inc()
	}
}

// ObserveWebhook increments the webhook counter when metrics are registered.
func ObserveWebhook(result string) {
	if WebhookTotal != nil {
		WebhookTotal.WithLabelValues(result).Inc()
	}
}

// ObserveSignatureFailure increments the signature failure counter.
func ObserveSignatureFailure(surface string) {
	if SignatureFailures != nil {
		SignatureFailures.WithLabelValues(surface).Inc()
	}
}

// ObserveBooking increments the booking submissions counter.
func ObserveBooking(result string) {
	if BookingTotal != nil {
		BookingTotal.WithLabelValues(result).Inc()
	}
}
