// Пакет telemetry — настройка OpenTelemetry для процесса-потребителя.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const defaultEndpoint = "localhost:4318"

// Config — параметры экспорта трейсов.
type Config struct {
	ServiceName string
	Endpoint    string  // host:port OTLP/HTTP коллектора
	SampleRatio float64 // обрезается до [0..1]
	Group       string  // consumer group, попадает в ресурс
}

// SetupTracing — OTLP/HTTP экспорт без TLS, глобальные провайдер и пропагаторы.
// Возвращает Shutdown провайдера.
func SetupTracing(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	tp := NewProvider(cfg, sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
	)
	return tp.Shutdown, nil
}

// NewProvider — провайдер с семплером и ресурсом сервиса; экспорт задаётся опциями.
func NewProvider(cfg Config, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		attribute.String("telemetry.sdk", "opentelemetry"),
	}
	if cfg.Group != "" {
		attrs = append(attrs, attribute.String("messaging.consumer.group.name", cfg.Group))
	}

	base := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(clampRatio(cfg.SampleRatio)))),
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, attrs...)),
	}
	return sdktrace.NewTracerProvider(append(base, opts...)...)
}

func clampRatio(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}
