package ports

import "context"

// MessageConsumer — фоновая служба приложения: Run блокируется до отмены ctx
// или фатальной ошибки, Close прерывает текущую выборку.
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
