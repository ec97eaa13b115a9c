package oteladapters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/shelfwise/circulation-engine-go/inventory/oteladapters"
)

func Test_MetricsCollector_RecordDuration_UsesHistogram(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("test")

	collector := oteladapters.NewMetricsCollector(meter)

	collector.RecordDuration("availability_check_duration", 25*time.Millisecond, map[string]string{
		"operation": "check_availability",
		"status":    "ok",
	})

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))
	require.Len(t, resourceMetrics.ScopeMetrics, 1)
	require.Len(t, resourceMetrics.ScopeMetrics[0].Metrics, 1)

	recorded := resourceMetrics.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, "availability_check_duration", recorded.Name)

	histogram, ok := recorded.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "durations should be recorded as a histogram")
	require.Len(t, histogram.DataPoints, 1)
	assert.InDelta(t, 0.025, histogram.DataPoints[0].Sum, 0.0001)
}

func Test_MetricsCollector_IncrementCounter_Accumulates(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("test")

	collector := oteladapters.NewMetricsCollector(meter)

	collector.IncrementCounter("availability_check_conflicts", map[string]string{"operation": "check_availability"})
	collector.IncrementCounterContext(context.Background(), "availability_check_conflicts", map[string]string{"operation": "check_availability"})

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))
	require.Len(t, resourceMetrics.ScopeMetrics, 1)
	require.Len(t, resourceMetrics.ScopeMetrics[0].Metrics, 1)

	sum, ok := resourceMetrics.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok, "counters should be recorded as a sum")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
}
