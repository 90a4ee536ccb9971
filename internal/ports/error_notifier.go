package ports

import "context"

// ErrorNotifier — приёмник ошибок вместе с компонентом-источником. Fire-and-forget.
type ErrorNotifier interface {
	NoticeError(ctx context.Context, source string, err error)
}
