package saramagroup

import (
	"context"
	"errors"
	"time"

	"github.com/IBM/sarama"

	"github.com/Gunvolt24/groupclient/internal/domain"
)

var _ sarama.ConsumerGroupHandler = (*handler)(nil)

var errClaimClosed = errors.New("claim closed")

// afterFunc — отложенный вызов; возвращает функцию отмены.
var afterFunc = func(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// handler — связывает сессию sarama с потоком доставки.
type handler struct {
	conn *Connection
}

func (h *handler) Setup(sess sarama.ConsumerGroupSession) error {
	c := h.conn
	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()

	c.log.Infof(c.ctx, "session started group=%s generation=%d member=%s claims=%v",
		c.group, sess.GenerationID(), sess.MemberID(), sess.Claims())
	c.stream.Activate()
	return nil
}

func (h *handler) Cleanup(sess sarama.ConsumerGroupSession) error {
	h.conn.stream.Deactivate()
	h.conn.log.Infof(h.conn.ctx, "session ended group=%s generation=%d", h.conn.group, sess.GenerationID())
	return nil
}

// ConsumeClaim — воркер партиции до конца сессии.
func (h *handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	tp := domain.TopicPartition{Topic: claim.Topic(), Partition: claim.Partition()}
	err := h.conn.stream.Run(sess.Context(), tp, claimSource{claim: claim})
	if err != nil && !errors.Is(err, errClaimClosed) {
		return err
	}
	return nil
}

type claimSource struct {
	claim sarama.ConsumerGroupClaim
}

func (s claimSource) Fetch(ctx context.Context) (*domain.Message, error) {
	select {
	case m, ok := <-s.claim.Messages():
		if !ok {
			return nil, errClaimClosed
		}
		return toMessage(m), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func toMessage(m *sarama.ConsumerMessage) *domain.Message {
	var headers []domain.Header
	if len(m.Headers) > 0 {
		headers = make([]domain.Header, 0, len(m.Headers))
		for _, h := range m.Headers {
			if h == nil {
				continue
			}
			headers = append(headers, domain.Header{Key: string(h.Key), Value: h.Value})
		}
	}
	return &domain.Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Headers:   headers,
		Time:      m.Timestamp,
	}
}
