package groupclient

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Gunvolt24/groupclient/internal/domain"
	"github.com/Gunvolt24/groupclient/internal/ports"
	"github.com/Gunvolt24/groupclient/pkg/metrics"
)

// getConnection — возвращает текущее соединение или создаёт новое.
// Ошибки соединения повторяются бесконечно через фиксированный интервал;
// прочие ошибки возвращаются как есть. Выход раньше возможен только по ctx.
func (c *Client) getConnection(ctx context.Context) (ports.Connection, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		return conn, nil
	}

	policy := backoff.WithContext(backoff.NewConstantBackOff(c.reconnectInterval), ctx)
	notify := func(err error, wait time.Duration) {
		metrics.ConnectFailures.WithLabelValues(c.group.Name).Inc()
		c.log.Warnf(ctx, "connect failed group=%s: %v (will retry in %s)", c.group.Name, err, wait)
	}

	conn, err := backoff.RetryNotifyWithTimerAndData(func() (ports.Connection, error) {
		metrics.ConnectAttempts.WithLabelValues(c.group.Name).Inc()
		conn, err := c.connect(ctx)
		if err == nil {
			return conn, nil
		}
		if domain.Classify(err) != domain.ConnectionFailure {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}, policy, notify, c.retryTimer)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		// соединение успели поставить параллельно, лишнее закрываем
		if stopErr := conn.Stop(); stopErr != nil {
			c.log.Warnf(ctx, "stop redundant connection group=%s: %v", c.group.Name, stopErr)
		}
		return c.conn, nil
	}
	c.conn = conn
	c.log.Infof(ctx, "connected group=%s topics=%v", c.group.Name, c.group.Topics)
	return conn, nil
}

// connect — Build -> Consumer -> Subscribe на каждый топик группы.
func (c *Client) connect(ctx context.Context) (ports.Connection, error) {
	raw, err := c.factory.Build(ctx, c.group)
	if err != nil {
		return nil, err
	}
	conn, err := raw.Consumer(ctx)
	if err != nil {
		return nil, err
	}

	opts := domain.SubscribeOptions{
		StartFromBeginning:   c.group.StartFromBeginning,
		MaxBytesPerPartition: domain.MaxBytesPerPartition,
	}
	for _, topic := range c.group.Topics {
		if err := conn.Subscribe(ctx, c.mapper.Outgoing(topic), opts); err != nil {
			if stopErr := conn.Stop(); stopErr != nil {
				c.log.Warnf(ctx, "stop half-built connection group=%s: %v", c.group.Name, stopErr)
			}
			return nil, err
		}
	}
	return conn, nil
}

// discard — сбрасывает соединение после сбоя, следующий вызов построит новое.
// Если слот уже освободил Stop, соединение остановлено им.
func (c *Client) discard(ctx context.Context, conn ports.Connection) {
	c.mu.Lock()
	owned := c.conn == conn
	if owned {
		c.conn = nil
	}
	c.mu.Unlock()

	if !owned {
		return
	}
	if err := conn.Stop(); err != nil {
		c.log.Warnf(ctx, "stop broken connection group=%s: %v", c.group.Name, err)
	}
}
