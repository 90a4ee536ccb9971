package ports

import "context"

// Logger — логгер с форматированием. Поля из ctx (request_id, координаты
// доставки, trace/span) добавляет реализация.
type Logger interface {
	Infof(ctx context.Context, format string, args ...any)
	Warnf(ctx context.Context, format string, args ...any)
	Errorf(ctx context.Context, format string, args ...any)
}
