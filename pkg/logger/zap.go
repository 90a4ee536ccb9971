package logger

import (
	"context"

	"go.uber.org/zap"

	"github.com/Gunvolt24/groupclient/internal/ports"
	"github.com/Gunvolt24/groupclient/pkg/ctxmeta"
)

var _ ports.Logger = (*ZapLogger)(nil)

type ZapLogger struct {
	base   *zap.Logger
	sugar  *zap.SugaredLogger
	isProd bool
}

func NewZapLogger(isProd bool) (*ZapLogger, func() error, error) {
	var (
		logger *zap.Logger
		err    error
	)

	if isProd {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, nil, err
	}

	return wrap(logger, isProd), func() error { return logger.Sync() }, nil
}

// NewFromZap — обёртка над готовым *zap.Logger (тесты, zaptest/observer).
func NewFromZap(base *zap.Logger) *ZapLogger {
	return wrap(base, false)
}

func wrap(base *zap.Logger, isProd bool) *ZapLogger {
	return &ZapLogger{
		base:   base,
		sugar:  base.Sugar(),
		isProd: isProd,
	}
}

func (z *ZapLogger) Infof(ctx context.Context, format string, args ...any) {
	z.with(ctx).Infof(format, args...)
}
func (z *ZapLogger) Warnf(ctx context.Context, format string, args ...any) {
	z.with(ctx).Warnf(format, args...)
}
func (z *ZapLogger) Errorf(ctx context.Context, format string, args ...any) {
	z.with(ctx).Errorf(format, args...)
}

// with — добавляет поля из контекста: request_id, координаты доставки, trace/span.
func (z *ZapLogger) with(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return z.sugar
	}

	fields := make([]any, 0, 12)
	if rid, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		fields = append(fields, "request_id", rid)
	}
	if d, ok := ctxmeta.DeliveryFromContext(ctx); ok {
		fields = append(fields,
			"group", d.Group,
			"topic", d.Topic,
			"partition", d.Partition,
			"offset", d.Offset,
		)
	}
	if tr, ok := ctxmeta.TraceIDFromContext(ctx); ok {
		fields = append(fields, "trace_id", tr)
	}
	if sp, ok := ctxmeta.SpanIDFromContext(ctx); ok {
		fields = append(fields, "span_id", sp)
	}

	if len(fields) == 0 {
		return z.sugar
	}
	return z.sugar.With(fields...)
}

func (z *ZapLogger) Base() *zap.Logger           { return z.base }
func (z *ZapLogger) Sugared() *zap.SugaredLogger { return z.sugar }
