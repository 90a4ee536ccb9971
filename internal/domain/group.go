package domain

import (
	"strconv"
	"time"
)

// MaxBytesPerPartition — фиксированный лимит выборки на партицию при подписке (1 MiB).
const MaxBytesPerPartition = 1048576

// GroupConfig — настройки одной consumer group. Неизменяемы на всё время жизни клиента.
type GroupConfig struct {
	Name               string
	Topics             []string // логические имена топиков
	BatchFetching      bool     // true — доставка пачками, false — по одному сообщению
	StartFromBeginning bool

	PauseTimeout            time.Duration
	PauseMaxTimeout         time.Duration // <= 0: без потолка
	PauseExponentialBackoff bool
}

// SubscribeOptions — параметры подписки на топик.
type SubscribeOptions struct {
	StartFromBeginning   bool
	MaxBytesPerPartition int
}

// PauseOptions — параметры паузы партиции, передаваемые соединению.
// Timeout уже посчитан контроллером пауз; MaxTimeout и ExponentialBackoff
// передаются как есть из конфигурации группы.
type PauseOptions struct {
	Timeout            time.Duration
	MaxTimeout         time.Duration
	ExponentialBackoff bool
}

// TopicPartition — ключ партиции.
type TopicPartition struct {
	Topic     string
	Partition int32
}

func (tp TopicPartition) String() string {
	return tp.Topic + "/" + strconv.FormatInt(int64(tp.Partition), 10)
}
