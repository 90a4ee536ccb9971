// Пакет ctxmeta — метаданные, которые едут в context.Context до логгера:
// request_id HTTP-запроса админки, координаты доставки из цикла выборки
// и идентификаторы активного спана.
package ctxmeta

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type (
	requestIDKey struct{}
	deliveryKey  struct{}
)

// Delivery — что сейчас обрабатывается: группа и координаты записи.
type Delivery struct {
	Group     string
	Topic     string
	Partition int32
	Offset    int64
}

// WithRequestID кладёт request_id в контекст (пустой id и nil ctx не меняют ничего).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(requestIDKey{}).(string)
	return v, ok && v != ""
}

// WithDelivery кладёт координаты доставки в контекст.
func WithDelivery(ctx context.Context, d Delivery) context.Context {
	if ctx == nil {
		return ctx
	}
	return context.WithValue(ctx, deliveryKey{}, d)
}

func DeliveryFromContext(ctx context.Context) (Delivery, bool) {
	if ctx == nil {
		return Delivery{}, false
	}
	d, ok := ctx.Value(deliveryKey{}).(Delivery)
	return d, ok
}

// TraceIDFromContext — trace_id активного спана; без спана (или с no-op провайдером) — false.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	sc, ok := spanContext(ctx)
	if !ok {
		return "", false
	}
	return sc.TraceID().String(), true
}

func SpanIDFromContext(ctx context.Context) (string, bool) {
	sc, ok := spanContext(ctx)
	if !ok {
		return "", false
	}
	return sc.SpanID().String(), true
}

func spanContext(ctx context.Context) (trace.SpanContext, bool) {
	if ctx == nil {
		return trace.SpanContext{}, false
	}
	sc := trace.SpanContextFromContext(ctx)
	return sc, sc.IsValid()
}
