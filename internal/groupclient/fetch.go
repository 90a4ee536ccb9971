package groupclient

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/groupclient/internal/domain"
	"github.com/Gunvolt24/groupclient/internal/ports"
	"github.com/Gunvolt24/groupclient/pkg/ctxmeta"
	"github.com/Gunvolt24/groupclient/pkg/metrics"
)

// FetchLoop — блокирующий цикл доставки в cb.
//
// Режим (сообщения или пачки) выбирается один раз из конфигурации группы.
// Сбой обработки: уведомление с исходной причиной, пауза партиции, цикл продолжается.
// Сбой соединения: уведомление, соединение сбрасывается, ошибка возвращается.
// Прочее: уведомление и возврат ошибки. После Stop цикл возвращает nil.
func (c *Client) FetchLoop(ctx context.Context, cb Callback) error {
	conn, err := c.getConnection(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.notifier.NoticeError(ctx, source, err)
		return err
	}

	batchMode := c.group.BatchFetching
	c.log.Infof(ctx, "fetch loop started group=%s batch=%t", c.group.Name, batchMode)

	for {
		var iterErr error
		if batchMode {
			iterErr = conn.EachBatch(ctx, c.batchHandler(cb))
		} else {
			iterErr = conn.EachMessage(ctx, c.messageHandler(cb))
		}
		if iterErr == nil {
			c.log.Infof(ctx, "fetch loop finished group=%s", c.group.Name)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		switch domain.Classify(iterErr) {
		case domain.ProcessingFailure:
			if err := c.onProcessingFailure(ctx, conn, iterErr); err != nil {
				return err
			}
		case domain.ConnectionFailure:
			c.notifier.NoticeError(ctx, source, iterErr)
			c.discard(ctx, conn)
			return iterErr
		case domain.UnclassifiedFailure:
			c.notifier.NoticeError(ctx, source, iterErr)
			return iterErr
		}
	}
}

// onProcessingFailure — обработка ProcessingError: уведомление с причиной и пауза партиции.
func (c *Client) onProcessingFailure(ctx context.Context, conn ports.Connection, iterErr error) error {
	var perr *domain.ProcessingError
	if !errors.As(iterErr, &perr) {
		c.notifier.NoticeError(ctx, source, iterErr)
		return iterErr
	}

	c.notifier.NoticeError(ctx, source, perr.Err)

	// в ошибке топик проводной; Pause принимает логический
	topic := c.mapper.Incoming(perr.Topic)
	if _, err := c.pause(ctx, conn, topic, perr.Partition); err != nil {
		c.notifier.NoticeError(ctx, source, err)
		return err
	}
	c.log.Warnf(ctx, "partition paused after processing failure topic=%s partition=%d offset=%d",
		topic, perr.Partition, perr.Offset)
	return nil
}

func (c *Client) messageHandler(cb Callback) domain.MessageHandler {
	return func(ctx context.Context, msg *domain.Message) error {
		local := *msg
		local.Topic = c.mapper.Incoming(msg.Topic)
		item := domain.Item{Kind: domain.KindMessage, Message: &local}
		return c.deliver(ctx, item, msg.Topic, msg.Partition, cb)
	}
}

func (c *Client) batchHandler(cb Callback) domain.BatchHandler {
	return func(ctx context.Context, batch *domain.Batch) error {
		topic := c.mapper.Incoming(batch.Topic)
		msgs := make([]*domain.Message, len(batch.Messages))
		for i, m := range batch.Messages {
			local := *m
			local.Topic = topic
			msgs[i] = &local
		}
		item := domain.Item{
			Kind:  domain.KindBatch,
			Batch: &domain.Batch{Topic: topic, Partition: batch.Partition, Messages: msgs},
		}
		return c.deliver(ctx, item, batch.Topic, batch.Partition, cb)
	}
}

// deliver — вызов колбэка в спане; успех сбрасывает backoff партиции.
func (c *Client) deliver(ctx context.Context, item domain.Item, wireTopic string, partition int32, cb Callback) error {
	meta := item.Metadata()
	ctx = ctxmeta.WithDelivery(ctx, ctxmeta.Delivery{
		Group:     c.group.Name,
		Topic:     meta.Topic,
		Partition: meta.Partition,
		Offset:    meta.Offset,
	})

	ctx, span := c.tracer.Start(ctx, "groupclient.deliver",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.consumer.group.name", c.group.Name),
			attribute.String("messaging.destination.name", meta.Topic),
			attribute.Int("messaging.destination.partition.id", int(partition)),
			attribute.Int64("messaging.kafka.offset", meta.Offset),
			attribute.Int("messaging.batch.message_count", len(item.Messages())),
		),
	)
	defer span.End()

	metrics.Deliveries.WithLabelValues(meta.Topic, item.Kind.String()).Inc()

	if err := cb(ctx, item); err != nil {
		metrics.DeliveryFailures.WithLabelValues(meta.Topic).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	c.pauses.Reset(domain.TopicPartition{Topic: wireTopic, Partition: partition})
	return nil
}
