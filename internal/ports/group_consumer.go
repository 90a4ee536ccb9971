package ports

import (
	"context"

	"github.com/Gunvolt24/groupclient/internal/domain"
)

// GroupConsumer — то, что прикладной код видит от клиента группы.
type GroupConsumer interface {
	FetchLoop(ctx context.Context, cb func(ctx context.Context, item domain.Item) error) error
	MarkAsConsumed(ctx context.Context, meta domain.Metadata) error
	MarkAsConsumedSync(ctx context.Context, meta domain.Metadata) error
	Stop() error
}

// StatusReporter — источник снимка состояния для /health и /status.
type StatusReporter interface {
	Status() domain.ClientStatus
}
