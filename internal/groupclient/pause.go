package groupclient

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Gunvolt24/groupclient/internal/domain"
	"github.com/Gunvolt24/groupclient/internal/ports"
	"github.com/Gunvolt24/groupclient/pkg/metrics"
)

// Pause — пауза доставки из партиции логического топика.
// Таймаут не проверяется: соединение получает команду всегда.
func (c *Client) Pause(ctx context.Context, topic string, partition int32) (bool, error) {
	conn, err := c.getConnection(ctx)
	if err != nil {
		return false, err
	}
	return c.pause(ctx, conn, topic, partition)
}

func (c *Client) pause(ctx context.Context, conn ports.Connection, topic string, partition int32) (bool, error) {
	if err := c.pauses.Pause(ctx, conn, c.mapper.Outgoing(topic), partition); err != nil {
		return false, err
	}
	return true, nil
}

type pauseState struct {
	backoff  *backoff.ExponentialBackOff
	attempts int
	timeout  time.Duration
	until    time.Time
}

// PauseController — считает длительность паузы для каждой партиции.
// Ключ: проводной (topic, partition). Решение «паузить ли» принимает вызывающий.
type PauseController struct {
	timeout     time.Duration
	maxTimeout  time.Duration
	exponential bool
	now         func() time.Time

	mu     sync.Mutex
	states map[domain.TopicPartition]*pauseState
}

func NewPauseController(group domain.GroupConfig) *PauseController {
	return &PauseController{
		timeout:     group.PauseTimeout,
		maxTimeout:  group.PauseMaxTimeout,
		exponential: group.PauseExponentialBackoff,
		now:         time.Now,
		states:      make(map[domain.TopicPartition]*pauseState),
	}
}

// Next — параметры очередной паузы партиции.
// Экспоненциальный режим: timeout, 2x, 4x ... не выше maxTimeout; иначе всегда timeout.
func (p *PauseController) Next(tp domain.TopicPartition) domain.PauseOptions {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, ok := p.states[tp]
	if !ok {
		st = &pauseState{}
		p.states[tp] = st
	}
	st.attempts++

	timeout := p.timeout
	if p.exponential {
		if st.backoff == nil {
			st.backoff = p.newBackOff()
		}
		timeout = st.backoff.NextBackOff()
		// первый интервал backoff отдаёт без ограничения сверху
		if p.maxTimeout > 0 && timeout > p.maxTimeout {
			timeout = p.maxTimeout
		}
	}
	st.timeout = timeout
	st.until = p.now().Add(timeout)

	return domain.PauseOptions{
		Timeout:            timeout,
		MaxTimeout:         p.maxTimeout,
		ExponentialBackoff: p.exponential,
	}
}

// Pause — считает паузу и отдаёт команду соединению.
func (p *PauseController) Pause(ctx context.Context, conn ports.Connection, topic string, partition int32) error {
	opts := p.Next(domain.TopicPartition{Topic: topic, Partition: partition})
	if err := conn.Pause(ctx, topic, partition, opts); err != nil {
		return fmt.Errorf("pause %s/%d: %w", topic, partition, err)
	}
	metrics.Pauses.WithLabelValues(topic).Inc()
	return nil
}

// Reset — забывает состояние партиции (после успешной доставки из неё).
func (p *PauseController) Reset(tp domain.TopicPartition) {
	p.mu.Lock()
	delete(p.states, tp)
	p.mu.Unlock()
}

// Attempts — число пауз подряд для партиции.
func (p *PauseController) Attempts(tp domain.TopicPartition) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if st, ok := p.states[tp]; ok {
		return st.attempts
	}
	return 0
}

// Snapshot — состояние всех партиций, которые ставились на паузу и ещё не сброшены.
func (p *PauseController) Snapshot() []domain.PausedPartition {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	out := make([]domain.PausedPartition, 0, len(p.states))
	for tp, st := range p.states {
		out = append(out, domain.PausedPartition{
			Topic:     tp.Topic,
			Partition: tp.Partition,
			Attempts:  st.attempts,
			Timeout:   st.timeout,
			Until:     st.until,
			Active:    now.Before(st.until),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Topic != out[j].Topic {
			return out[i].Topic < out[j].Topic
		}
		return out[i].Partition < out[j].Partition
	})
	return out
}

func (p *PauseController) newBackOff() *backoff.ExponentialBackOff {
	maxInterval := p.maxTimeout
	if maxInterval <= 0 {
		maxInterval = time.Duration(math.MaxInt64)
	}
	b := &backoff.ExponentialBackOff{
		InitialInterval:     p.timeout,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         maxInterval,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return b
}
