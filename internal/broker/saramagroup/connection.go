package saramagroup

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/IBM/sarama"

	"github.com/Gunvolt24/groupclient/internal/broker/stream"
	"github.com/Gunvolt24/groupclient/internal/domain"
	"github.com/Gunvolt24/groupclient/internal/ports"
)

var _ ports.Connection = (*Connection)(nil)

var errSubscribeAfterStart = errors.New("sarama: subscribe after consumption started")

// Connection — сессии sarama.ConsumerGroup; Consume крутится в фоне,
// записи идут через общий stream в цикл доставки вызывающего.
type Connection struct {
	group  string
	cg     sarama.ConsumerGroup
	conf   *sarama.Config
	client io.Closer
	log    ports.Logger
	stream *stream.Stream

	mu      sync.Mutex
	topics  []string
	started bool
	session sarama.ConsumerGroupSession
	resume  map[domain.TopicPartition]*resumeTimer

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

type resumeTimer struct {
	stop func() bool
}

func newConnection(cfg Config, group domain.GroupConfig, cg sarama.ConsumerGroup, conf *sarama.Config, client io.Closer, log ports.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		group:  group.Name,
		cg:     cg,
		conf:   conf,
		client: client,
		log:    log,
		stream: stream.New(stream.ConfigFor(group.BatchFetching, cfg.BatchMaxSize, cfg.BatchLinger)),
		resume: make(map[domain.TopicPartition]*resumeTimer),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Subscribe — параметры подписки применяются к конфигурации клиента до первой сессии.
func (c *Connection) Subscribe(_ context.Context, topic string, opts domain.SubscribeOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream.Closed() {
		return domain.ErrConnectionStopped
	}
	if c.started {
		return errSubscribeAfterStart
	}

	c.topics = append(c.topics, topic)
	if opts.StartFromBeginning {
		c.conf.Consumer.Offsets.Initial = sarama.OffsetOldest
	}
	if opts.MaxBytesPerPartition > 0 {
		c.conf.Consumer.Fetch.Default = int32(opts.MaxBytesPerPartition)
	}
	return nil
}

func (c *Connection) EachMessage(ctx context.Context, fn domain.MessageHandler) error {
	if err := c.start(); err != nil {
		return err
	}
	return c.stream.EachMessage(ctx, fn)
}

func (c *Connection) EachBatch(ctx context.Context, fn domain.BatchHandler) error {
	if err := c.start(); err != nil {
		return err
	}
	return c.stream.EachBatch(ctx, fn)
}

func (c *Connection) start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream.Closed() {
		return domain.ErrConnectionStopped
	}
	if c.started {
		return nil
	}
	c.started = true
	topics := append([]string(nil), c.topics...)

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.consume(topics)
	}()
	go func() {
		defer c.wg.Done()
		for err := range c.cg.Errors() {
			c.log.Warnf(c.ctx, "consumer group error group=%s: %v", c.group, err)
		}
	}()
	return nil
}

// consume — новая сессия после каждого ребаланса, пока соединение живо.
func (c *Connection) consume(topics []string) {
	h := &handler{conn: c}
	for {
		if err := c.cg.Consume(c.ctx, topics, h); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) || c.ctx.Err() != nil {
				return
			}
			c.stream.Fail(&domain.ConnectionError{Op: "consume", Err: err})
			return
		}
		if c.ctx.Err() != nil {
			return
		}
	}
}

// Pause — останавливает выборку партиции у брокера и доставку на opts.Timeout.
func (c *Connection) Pause(_ context.Context, topic string, partition int32, opts domain.PauseOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream.Closed() {
		return domain.ErrConnectionStopped
	}

	tp := domain.TopicPartition{Topic: topic, Partition: partition}
	c.stream.Pause(tp, opts.Timeout)
	if prev, ok := c.resume[tp]; ok {
		prev.stop()
		delete(c.resume, tp)
	}
	if opts.Timeout <= 0 {
		return nil
	}

	parts := map[string][]int32{topic: {partition}}
	c.cg.Pause(parts)
	rt := &resumeTimer{}
	t := afterFunc(opts.Timeout, func() {
		c.mu.Lock()
		if c.resume[tp] == rt {
			delete(c.resume, tp)
		}
		c.mu.Unlock()
		c.cg.Resume(parts)
	})
	rt.stop = t
	c.resume[tp] = rt
	return nil
}

// MarkMessageAsProcessed — в sarama отмечается следующий к чтению оффсет.
func (c *Connection) MarkMessageAsProcessed(meta domain.Metadata) error {
	sess, err := c.activeSession()
	if err != nil {
		return err
	}
	sess.MarkOffset(meta.Topic, meta.Partition, meta.Offset+1, "")
	return nil
}

// CommitOffsets — синхронная фиксация отмеченных оффсетов; ошибки брокера приходят в Errors().
func (c *Connection) CommitOffsets(_ context.Context) error {
	sess, err := c.activeSession()
	if err != nil {
		return err
	}
	sess.Commit()
	return nil
}

func (c *Connection) activeSession() (sarama.ConsumerGroupSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream.Closed() {
		return nil, domain.ErrConnectionStopped
	}
	if c.session == nil {
		return nil, domain.ErrNoActiveSession
	}
	return c.session, nil
}

// TriggerHeartbeat — sarama шлёт heartbeat в фоне сессии.
func (c *Connection) TriggerHeartbeat() error {
	if c.stream.Closed() {
		return domain.ErrConnectionStopped
	}
	return nil
}

func (c *Connection) TriggerHeartbeatSync(ctx context.Context) error {
	if err := c.start(); err != nil {
		return err
	}
	return c.stream.WaitActive(ctx)
}

// Stop — закрывает группу и клиента, дожидается фоновых горутин.
func (c *Connection) Stop() error {
	var err error
	c.stopOnce.Do(func() {
		c.stream.Close()
		c.cancel()

		c.mu.Lock()
		for tp, rt := range c.resume {
			rt.stop()
			delete(c.resume, tp)
		}
		c.mu.Unlock()

		err = errors.Join(c.cg.Close(), c.client.Close())
		c.wg.Wait()
	})
	return err
}
