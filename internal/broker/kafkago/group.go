package kafkago

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/groupclient/internal/domain"
)

// generation — то, что нужно от kafka.Generation.
type generation interface {
	Start(fn func(ctx context.Context))
	CommitOffsets(offsets map[string]map[int]int64) error
}

// assignment — очередное поколение группы с назначенными партициями.
type assignment struct {
	id         int
	memberID   string
	partitions map[string][]kafka.PartitionAssignment
	gen        generation
}

// consumerGroup — членство в группе; реализуется kafka.ConsumerGroup.
type consumerGroup interface {
	Next(ctx context.Context) (assignment, error)
	Close() error
}

type kafkaGroup struct {
	cg *kafka.ConsumerGroup
}

func (g kafkaGroup) Next(ctx context.Context) (assignment, error) {
	gen, err := g.cg.Next(ctx)
	if err != nil {
		return assignment{}, err
	}
	return assignment{id: int(gen.ID), memberID: gen.MemberID, partitions: gen.Assignments, gen: gen}, nil
}

func (g kafkaGroup) Close() error { return g.cg.Close() }

func newKafkaGroup(cfg kafka.ConsumerGroupConfig) (consumerGroup, error) {
	cg, err := kafka.NewConsumerGroup(cfg)
	if err != nil {
		return nil, err
	}
	return kafkaGroup{cg: cg}, nil
}

// partitionReader — минимальный контракт над kafka.Reader одной партиции.
type partitionReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	SetOffset(offset int64) error
	Close() error
}

func newKafkaReader(cfg kafka.ReaderConfig) partitionReader {
	return kafka.NewReader(cfg)
}

// readerSource — источник stream поверх partitionReader.
type readerSource struct {
	r partitionReader
}

func (s readerSource) Fetch(ctx context.Context) (*domain.Message, error) {
	m, err := s.r.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}
	return toMessage(m), nil
}

func toMessage(m kafka.Message) *domain.Message {
	var headers []domain.Header
	if len(m.Headers) > 0 {
		headers = make([]domain.Header, 0, len(m.Headers))
		for _, h := range m.Headers {
			headers = append(headers, domain.Header{Key: h.Key, Value: h.Value})
		}
	}
	return &domain.Message{
		Topic:     m.Topic,
		Partition: int32(m.Partition),
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Headers:   headers,
		Time:      m.Time,
	}
}
