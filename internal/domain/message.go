package domain

import (
	"context"
	"time"
)

// Header — заголовок записи.
type Header struct {
	Key   string
	Value []byte
}

// Metadata — идентичность сообщения для учёта оффсетов.
type Metadata struct {
	Topic     string
	Partition int32
	Offset    int64
}

// Message — одна запись из партиции.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   []Header
	Time      time.Time
}

// Metadata — метаданные сообщения для MarkAsConsumed.
func (m *Message) Metadata() Metadata {
	return Metadata{Topic: m.Topic, Partition: m.Partition, Offset: m.Offset}
}

// Batch — упорядоченная пачка сообщений одной партиции.
type Batch struct {
	Topic     string
	Partition int32
	Messages  []*Message
}

// FirstOffset — оффсет первого сообщения (-1 для пустой пачки).
func (b *Batch) FirstOffset() int64 {
	if len(b.Messages) == 0 {
		return -1
	}
	return b.Messages[0].Offset
}

// LastOffset — оффсет последнего сообщения (-1 для пустой пачки).
func (b *Batch) LastOffset() int64 {
	if len(b.Messages) == 0 {
		return -1
	}
	return b.Messages[len(b.Messages)-1].Offset
}

// Metadata — метаданные последнего сообщения пачки: отметка покрывает всю пачку.
func (b *Batch) Metadata() Metadata {
	return Metadata{Topic: b.Topic, Partition: b.Partition, Offset: b.LastOffset()}
}

// ItemKind — тег доставки.
type ItemKind int

const (
	KindMessage ItemKind = iota + 1
	KindBatch
)

func (k ItemKind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindBatch:
		return "batch"
	default:
		return "unknown"
	}
}

// Item — единица доставки в колбэк: либо Message, либо Batch, различаются по Kind.
type Item struct {
	Kind    ItemKind
	Message *Message
	Batch   *Batch
}

// Messages — все сообщения элемента независимо от режима.
func (i Item) Messages() []*Message {
	switch i.Kind {
	case KindMessage:
		if i.Message == nil {
			return nil
		}
		return []*Message{i.Message}
	case KindBatch:
		if i.Batch == nil {
			return nil
		}
		return i.Batch.Messages
	default:
		return nil
	}
}

// Metadata — метаданные для отметки элемента как обработанного.
func (i Item) Metadata() Metadata {
	if i.Kind == KindBatch && i.Batch != nil {
		return i.Batch.Metadata()
	}
	if i.Message != nil {
		return i.Message.Metadata()
	}
	return Metadata{Offset: -1}
}

// MessageHandler — обработчик одиночного сообщения на уровне соединения.
type MessageHandler func(ctx context.Context, msg *Message) error

// BatchHandler — обработчик пачки на уровне соединения.
type BatchHandler func(ctx context.Context, batch *Batch) error
