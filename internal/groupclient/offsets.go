package groupclient

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/groupclient/internal/domain"
	"github.com/Gunvolt24/groupclient/internal/ports"
)

// MarkAsConsumed — локальная отметка записи без коммита на брокер.
func (c *Client) MarkAsConsumed(ctx context.Context, meta domain.Metadata) error {
	conn, err := c.getConnection(ctx)
	if err != nil {
		return err
	}
	return c.mark(conn, meta)
}

// MarkAsConsumedSync — отметка и немедленный коммит. При ошибке отметки коммита нет.
func (c *Client) MarkAsConsumedSync(ctx context.Context, meta domain.Metadata) error {
	conn, err := c.getConnection(ctx)
	if err != nil {
		return err
	}
	if err := c.mark(conn, meta); err != nil {
		return err
	}
	if err := conn.CommitOffsets(ctx); err != nil {
		return fmt.Errorf("commit offsets group=%s: %w", c.group.Name, err)
	}
	return nil
}

func (c *Client) mark(conn ports.Connection, meta domain.Metadata) error {
	meta.Topic = c.mapper.Outgoing(meta.Topic)
	if err := conn.MarkMessageAsProcessed(meta); err != nil {
		return fmt.Errorf("mark %s/%d offset=%d: %w", meta.Topic, meta.Partition, meta.Offset, err)
	}
	return nil
}

// TriggerHeartbeat — неблокирующий heartbeat.
func (c *Client) TriggerHeartbeat(ctx context.Context) error {
	conn, err := c.getConnection(ctx)
	if err != nil {
		return err
	}
	return conn.TriggerHeartbeat()
}

// TriggerHeartbeatSync — блокирующий heartbeat: ждёт подтверждения живой сессии.
func (c *Client) TriggerHeartbeatSync(ctx context.Context) error {
	conn, err := c.getConnection(ctx)
	if err != nil {
		return err
	}
	return conn.TriggerHeartbeatSync(ctx)
}
