package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "silvercare"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	MedicationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "medication_transitions_total",
		Help:      "Accepted medication status transitions by target status.",
	}, []string{"status"})

	SOSDispatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sos_dispatches_total",
		Help:      "SOS dispatches handled.",
	})

	ContactsAlerted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sos_contacts_alerted_total",
		Help:      "Emergency contacts alerted across all dispatches.",
	})

	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Failed notification sends by kind.",
	}, []string{"kind"})

	ChatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_requests_total",
		Help:      "Chat requests by outcome (simulated, provider, unavailable).",
	}, []string{"outcome"})

	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "medication_reminders_sent_total",
		Help:      "Dose reminders sent by the reminder job.",
	})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_deny_total",
		Help:      "Requests rejected by the rate limiter.",
	}, []string{"route"})
)
