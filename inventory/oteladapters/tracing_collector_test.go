package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/shelfwise/circulation-engine-go/inventory/oteladapters"
)

func Test_TracingCollector_StartSpan_CapturesNameAndAttributes(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("test")

	collector := oteladapters.NewTracingCollector(tracer)

	ctx, spanCtx := collector.StartSpan(context.Background(), "inventory.check_availability", map[string]string{
		"operation": "check_availability",
		"copy_id":   "42",
	})

	assert.NotNil(t, ctx, "Context should not be nil")
	assert.NotNil(t, spanCtx, "SpanContext should not be nil")

	collector.FinishSpan(spanCtx, "ok", map[string]string{"allowed": "true"})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span")

	span := spans[0]
	assert.Equal(t, "inventory.check_availability", span.Name, "Span name should match")
	assertSpanHasAttribute(t, span, "operation", "check_availability")
	assertSpanHasAttribute(t, span, "copy_id", "42")
	assertSpanHasAttribute(t, span, "allowed", "true")
	assert.Equal(t, codes.Ok, span.Status.Code, "Span should have OK status")
}

func Test_TracingCollector_FinishSpan_ErrorStatus(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("test")

	collector := oteladapters.NewTracingCollector(tracer)

	_, spanCtx := collector.StartSpan(context.Background(), "inventory.allocate_reservation", nil)
	collector.FinishSpan(spanCtx, "error", map[string]string{"error_type": "repository"})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span")

	assert.Equal(t, codes.Error, spans[0].Status.Code, "Span should have error status")
	assertSpanHasAttribute(t, spans[0], "error_type", "repository")
}

func Test_TracingCollector_FinishSpan_ConflictIsNotAnError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("test")

	collector := oteladapters.NewTracingCollector(tracer)

	_, spanCtx := collector.StartSpan(context.Background(), "inventory.check_availability", nil)
	collector.FinishSpan(spanCtx, "conflict", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span")

	assert.Equal(t, codes.Ok, spans[0].Status.Code, "A business conflict should not mark the span as failed")
}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, value string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) && attr.Value.AsString() == value {
			return
		}
	}

	t.Errorf("span %q is missing attribute %s=%s", span.Name, key, value)
}
