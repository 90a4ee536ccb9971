//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// seedAddr — первый адрес bootstrap-строки без схемы ("PLAINTEXT://h:p,h2:p2" → "h:p").
func seedAddr(raw string) string {
	first := strings.TrimSpace(strings.Split(raw, ",")[0])
	if strings.Contains(first, "://") {
		if u, err := url.Parse(first); err == nil && u.Host != "" {
			return u.Host
		}
	}
	return first
}

func adminClient(broker string) *kafka.Client {
	return &kafka.Client{Addr: kafka.TCP(seedAddr(broker)), Timeout: 10 * time.Second}
}

// EnsureTopic — создаёт топик с partitions партициями (существующий не ошибка)
// и ждёт, пока у всех партиций появится лидер.
func EnsureTopic(ctx context.Context, broker, topic string, partitions int) error {
	if partitions < 1 {
		partitions = 1
	}
	cl := adminClient(broker)

	resp, err := cl.CreateTopics(ctx, &kafka.CreateTopicsRequest{
		Topics: []kafka.TopicConfig{{Topic: topic, NumPartitions: partitions, ReplicationFactor: 1}},
	})
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if terr := resp.Errors[topic]; terr != nil && !errors.Is(terr, kafka.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, terr)
	}

	deadline := time.Now().Add(10 * time.Second)
	for {
		ready, err := topicReady(ctx, cl, topic, partitions)
		if ready {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("topic %s not ready: %v", topic, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
}

func topicReady(ctx context.Context, cl *kafka.Client, topic string, partitions int) (bool, error) {
	md, err := cl.Metadata(ctx, &kafka.MetadataRequest{Topics: []string{topic}})
	if err != nil {
		return false, err
	}
	for _, t := range md.Topics {
		if t.Name != topic {
			continue
		}
		if t.Error != nil {
			return false, t.Error
		}
		if len(t.Partitions) < partitions {
			return false, fmt.Errorf("%d of %d partitions", len(t.Partitions), partitions)
		}
		for _, p := range t.Partitions {
			if p.Leader.Host == "" {
				return false, fmt.Errorf("partition %d has no leader", p.ID)
			}
		}
		return true, nil
	}
	return false, errors.New("topic missing from metadata")
}

// Produce — синхронно пишет значения в указанную партицию (acks=all).
func Produce(ctx context.Context, broker, topic string, partition int, values ...string) error {
	records := make([]kafka.Record, 0, len(values))
	for _, v := range values {
		records = append(records, kafka.Record{Time: time.Now(), Value: kafka.NewBytes([]byte(v))})
	}

	resp, err := adminClient(broker).Produce(ctx, &kafka.ProduceRequest{
		Topic:        topic,
		Partition:    partition,
		RequiredAcks: kafka.RequireAll,
		Records:      kafka.NewRecordReader(records...),
	})
	if err != nil {
		return fmt.Errorf("produce %s/%d: %w", topic, partition, err)
	}
	if resp.Error != nil {
		return fmt.Errorf("produce %s/%d: %w", topic, partition, resp.Error)
	}
	return nil
}
