package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Total number of webhook payloads processed, by outcome (count)",
		},
		[]string{"outcome"},
	)

	WebhookProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_processing_duration_ms",
			Help:    "Webhook ingestion duration in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"outcome"},
	)

	MessagesStoredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_stored_total",
			Help: "Total number of message records persisted, by direction (count)",
		},
		[]string{"direction"},
	)

	SeenCacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seen_cache_lookups_total",
			Help: "Total number of seen-cache lookups, by result (count)",
		},
		[]string{"result"},
	)

	BroadcastEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_events_total",
			Help: "Total number of broadcast events published, by event and status (count)",
		},
		[]string{"event", "status"},
	)

	BroadcastPublishDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "broadcast_publish_duration_ms",
			Help:    "Broadcast publish duration in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"event"},
	)

	ConversationQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "conversation_query_duration_ms",
			Help:    "Record store query duration in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"operation"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests through the rate limiter, by status (count)",
		},
		[]string{"status"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)

	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retry attempts (count)",
		},
		[]string{"component"},
	)
)

func RegisterChatMetrics() {
	prometheus.MustRegister(WebhookEventsTotal)
	prometheus.MustRegister(WebhookProcessingDuration)
	prometheus.MustRegister(MessagesStoredTotal)
	prometheus.MustRegister(SeenCacheLookupsTotal)
	prometheus.MustRegister(ConversationQueryDuration)
	prometheus.MustRegister(RateLimitRequestsTotal)
}

func RegisterBroadcastMetrics() {
	prometheus.MustRegister(BroadcastEventsTotal)
	prometheus.MustRegister(BroadcastPublishDuration)
	prometheus.MustRegister(RetryAttemptsTotal)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(CircuitBreakerState)
	prometheus.MustRegister(CircuitBreakerRequests)
	prometheus.MustRegister(CircuitBreakerFailures)
}

func ObserveWebhookDuration(duration time.Duration, outcome string) {
	WebhookProcessingDuration.WithLabelValues(outcome).Observe(float64(duration.Milliseconds()))
}

func ObserveBroadcastDuration(duration time.Duration, event string) {
	BroadcastPublishDuration.WithLabelValues(event).Observe(float64(duration.Milliseconds()))
}

func ObserveQueryDuration(duration time.Duration, operation string) {
	ConversationQueryDuration.WithLabelValues(operation).Observe(float64(duration.Milliseconds()))
}

func IncWebhookEvent(outcome string) {
	WebhookEventsTotal.WithLabelValues(outcome).Inc()
}

func IncMessageStored(direction string) {
	MessagesStoredTotal.WithLabelValues(direction).Inc()
}

func IncSeenCacheLookup(result string) {
	SeenCacheLookupsTotal.WithLabelValues(result).Inc()
}

func IncBroadcastEvent(event, status string) {
	BroadcastEventsTotal.WithLabelValues(event, status).Inc()
}

func IncRetryAttempt(component string) {
	RetryAttemptsTotal.WithLabelValues(component).Inc()
}
