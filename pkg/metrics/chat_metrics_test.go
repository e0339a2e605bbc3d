package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
)

func TestRecordChatMessage(t *testing.T) {
	// Reset metrics before test
	chatMessagesTotal.Reset()

	RecordChatMessage("add_task", "ok")

	// Verify counter incremented
	metric := &dto.Metric{}
	if err := chatMessagesTotal.WithLabelValues("add_task", "ok").Write(metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 1 {
		t.Errorf("Expected counter value 1, got %f", metric.Counter.GetValue())
	}

	// Test multiple increments
	RecordChatMessage("add_task", "ok")
	metric = &dto.Metric{}
	if err := chatMessagesTotal.WithLabelValues("add_task", "ok").Write(metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 2 {
		t.Errorf("Expected counter value 2, got %f", metric.Counter.GetValue())
	}
}

func TestRecordIntentParseDuration(t *testing.T) {
	// Reset metrics before test
	intentParseDuration.Reset()

	RecordIntentParseDuration("gemini", 1.2)

	// Note: For histograms, we verify by checking the metric was recorded
	// without panicking. Full histogram validation requires prometheus
	// testutil and isn't worth the setup here.
	RecordIntentParseDuration("gemini", 0.4)
	RecordIntentParseDuration("fallback", 0.001)
}

func TestRecordParserFallback(t *testing.T) {
	// Reset metrics before test
	parserFallbackTotal.Reset()

	RecordParserFallback("timeout")

	metric := &dto.Metric{}
	if err := parserFallbackTotal.WithLabelValues("timeout").Write(metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 1 {
		t.Errorf("Expected counter value 1, got %f", metric.Counter.GetValue())
	}
}

func TestIntentParseLabels(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		intent string
	}{
		{"gemini add", "gemini", "add_task"},
		{"fallback delete", "fallback", "delete_task"},
		{"fallback unknown", "fallback", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intentParseTotal.Reset()

			RecordIntentParse(tt.mode, tt.intent)

			metric := &dto.Metric{}
			if err := intentParseTotal.WithLabelValues(tt.mode, tt.intent).Write(metric); err != nil {
				t.Fatalf("Failed to write metric: %v", err)
			}

			if metric.Counter.GetValue() != 1 {
				t.Errorf("Expected counter value 1, got %f", metric.Counter.GetValue())
			}
		})
	}
}
