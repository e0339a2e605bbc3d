// Package metrics provides Prometheus metrics for monitoring the chat
// pipeline and task store.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Chat pipeline metrics
var (
	// chatMessagesTotal records the total number of chat turns handled.
	// Labels:
	//   - intent: Resolved command kind (e.g., "add_task", "list_tasks", "unknown")
	//   - status: Turn outcome ("ok", "error")
	chatMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Total number of chat messages processed",
		},
		[]string{"intent", "status"},
	)

	// intentParseTotal records intent resolutions by path.
	// Labels:
	//   - mode: Resolution path ("gemini", "fallback")
	//   - intent: Resolved command kind
	intentParseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_parse_total",
			Help: "Total number of intent resolutions by parser path",
		},
		[]string{"mode", "intent"},
	)

	// intentParseDuration records intent resolution latency.
	// Labels:
	//   - mode: Resolution path ("gemini", "fallback")
	// Buckets: 5ms to 30s; the upper buckets cover slow model responses.
	intentParseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intent_parse_duration_seconds",
			Help:    "Duration of intent resolution in seconds",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"mode"},
	)

	// parserFallbackTotal records primary-path failures that degraded to the
	// deterministic fallback parser.
	// Labels:
	//   - reason: Failure reason ("unconfigured", "error", "timeout")
	parserFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_parser_fallback_total",
			Help: "Total number of degradations from the model parser to the keyword fallback",
		},
		[]string{"reason"},
	)

	// taskOperationsTotal records task store mutations issued by the executor
	// or the REST surface.
	// Labels:
	//   - operation: Store operation ("create", "update", "delete", "complete")
	//   - status: Outcome ("ok", "not_found", "error")
	taskOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_operations_total",
			Help: "Total number of task store operations",
		},
		[]string{"operation", "status"},
	)
)

func init() {
	prometheus.MustRegister(chatMessagesTotal)
	prometheus.MustRegister(intentParseTotal)
	prometheus.MustRegister(intentParseDuration)
	prometheus.MustRegister(parserFallbackTotal)
	prometheus.MustRegister(taskOperationsTotal)
}

// RecordChatMessage records one handled chat turn.
func RecordChatMessage(intent, status string) {
	chatMessagesTotal.WithLabelValues(intent, status).Inc()
}

// RecordIntentParse records an intent resolution event.
func RecordIntentParse(mode, intent string) {
	intentParseTotal.WithLabelValues(mode, intent).Inc()
}

// RecordIntentParseDuration records intent resolution latency in seconds.
func RecordIntentParseDuration(mode string, durationSeconds float64) {
	intentParseDuration.WithLabelValues(mode).Observe(durationSeconds)
}

// RecordParserFallback records a degradation from the model parser to the
// deterministic fallback, with the reason that triggered it.
func RecordParserFallback(reason string) {
	parserFallbackTotal.WithLabelValues(reason).Inc()
}

// RecordTaskOperation records a task store mutation outcome.
func RecordTaskOperation(operation, status string) {
	taskOperationsTotal.WithLabelValues(operation, status).Inc()
}
