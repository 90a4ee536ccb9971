package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestClampRatio(t *testing.T) {
	assert.Equal(t, 0.0, clampRatio(-1))
	assert.Equal(t, 1.0, clampRatio(3))
	assert.Equal(t, 0.25, clampRatio(0.25))
}

func TestNewProvider_ExportsWithGroupResource(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := NewProvider(Config{ServiceName: "sink", SampleRatio: 1, Group: "orders"},
		sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "deliver")
	span.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "deliver", spans[0].Name)

	attrs := spans[0].Resource.Attributes()
	assert.Contains(t, attrs, attribute.String("service.name", "sink"))
	assert.Contains(t, attrs, attribute.String("messaging.consumer.group.name", "orders"))
}

func TestNewProvider_ZeroRatioDropsRootSpans(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := NewProvider(Config{ServiceName: "sink", SampleRatio: 0}, sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "deliver")
	span.End()

	assert.Empty(t, exp.GetSpans())
}
