package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("endpoint", "/api/assistant/chat"),
		attribute.String("client_ip", "10.0.0.1"),
		attribute.String("delegate", "geocoder"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	for _, attr := range attrs {
		if attr.Key == "client_ip" {
			t.Fatalf("expected client_ip to be dropped")
		}
	}
}

func TestMetricsWithNoopProvider(t *testing.T) {
	m, err := New(Config{}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}
	m.RecordRateLimit(context.Background(), "/api/assistant/chat", false)
	m.RecordDelegateCall(context.Background(), "assistant", time.Millisecond, errors.New("boom"))

	var nilMetrics *Metrics
	nilMetrics.RecordRateLimit(context.Background(), "x", true)
}
