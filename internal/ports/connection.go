package ports

import (
	"context"

	"github.com/Gunvolt24/groupclient/internal/domain"
)

// ConnectionFactory — собирает клиента брокера по конфигурации группы.
// Недоступность брокера возвращается как *domain.ConnectionError.
type ConnectionFactory interface {
	Build(ctx context.Context, group domain.GroupConfig) (RawClient, error)
}

// RawClient — клиент брокера, из которого получаем потребителя.
type RawClient interface {
	Consumer(ctx context.Context) (Connection, error)
}

// Connection — сырое соединение потребителя группы.
//
// Ошибка обработчика возвращается из EachMessage/EachBatch обёрнутой в
// *domain.ProcessingError; после Stop итерация завершается с nil.
// Все имена топиков здесь «проводные» (после TopicMapper.Outgoing).
type Connection interface {
	Subscribe(ctx context.Context, topic string, opts domain.SubscribeOptions) error
	EachMessage(ctx context.Context, fn domain.MessageHandler) error
	EachBatch(ctx context.Context, fn domain.BatchHandler) error
	Pause(ctx context.Context, topic string, partition int32, opts domain.PauseOptions) error
	MarkMessageAsProcessed(meta domain.Metadata) error
	CommitOffsets(ctx context.Context) error
	TriggerHeartbeat() error
	TriggerHeartbeatSync(ctx context.Context) error
	Stop() error
}
