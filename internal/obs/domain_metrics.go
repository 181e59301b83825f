package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// WebhookRequestsTotal counts inbound form webhook processing outcomes.
	WebhookRequestsTotal *prometheus.CounterVec
	// ReconcileTotal counts Stripe reconciliation outcomes.
	ReconcileTotal *prometheus.CounterVec
	// ReconcileLatency records reconciliation latency in milliseconds.
	ReconcileLatency *prometheus.HistogramVec
)

// Webhook outcome labels recorded on WebhookRequestsTotal.
const (
	OutcomeRejectedSignature = "rejected_signature"
	OutcomeRejectedPayload   = "rejected_payload"
	OutcomePaymentIncomplete = "payment_incomplete"
	OutcomeReconciled        = "reconciled"
	OutcomeReconcileFailed   = "reconcile_failed"
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		WebhookRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_requests_total",
			Help:      "Count of processed form webhooks by outcome.",
		}, []string{"result"})
		ReconcileTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_total",
			Help:      "Count of charge reconciliation outcomes.",
		}, []string{"result"})
		ReconcileLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_duration_ms",
			Help:      "Latency for charge reconciliation attempts in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"result"})

		mustRegisterCollector(reg, WebhookRequestsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				WebhookRequestsTotal = v
			}
		})
		mustRegisterCollector(reg, ReconcileTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ReconcileTotal = v
			}
		})
		mustRegisterCollector(reg, ReconcileLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				ReconcileLatency = v
			}
		})
	})
}
