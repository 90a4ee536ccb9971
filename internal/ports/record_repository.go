package ports

import (
	"context"

	"github.com/Gunvolt24/groupclient/internal/domain"
)

// RecordRepository — хранилище принятых записей. Повторное сохранение той же
// (topic, partition, offset) не должно создавать дублей.
type RecordRepository interface {
	SaveBatch(ctx context.Context, msgs []*domain.Message) error
}
