package kafkago

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/groupclient/internal/broker/stream"
	"github.com/Gunvolt24/groupclient/internal/domain"
	"github.com/Gunvolt24/groupclient/internal/ports"
)

var _ ports.Connection = (*Connection)(nil)

var errSubscribeAfterStart = errors.New("kafka-go: subscribe after consumption started")

// Connection — членство в группе kafka-go. Группа поднимается лениво,
// при первой итерации или синхронном heartbeat.
type Connection struct {
	cfg    Config
	group  domain.GroupConfig
	dialer *kafka.Dialer
	log    ports.Logger
	stream *stream.Stream

	newGroup  func(kafka.ConsumerGroupConfig) (consumerGroup, error)
	newReader func(kafka.ReaderConfig) partitionReader

	mu          sync.Mutex
	topics      []string
	startOffset int64
	maxBytes    int
	started     bool
	startErr    error
	cg          consumerGroup
	gen         generation
	genID       int
	offsets     map[string]map[int]int64

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func newConnection(cfg Config, group domain.GroupConfig, dialer *kafka.Dialer, log ports.Logger) *Connection {
	if cfg.CommitInterval <= 0 {
		cfg.CommitInterval = DefaultCommitInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		cfg:         cfg,
		group:       group,
		dialer:      dialer,
		log:         log,
		stream:      stream.New(stream.ConfigFor(group.BatchFetching, cfg.BatchMaxSize, cfg.BatchLinger)),
		newGroup:    newKafkaGroup,
		newReader:   newKafkaReader,
		startOffset: kafka.LastOffset,
		maxBytes:    domain.MaxBytesPerPartition,
		offsets:     make(map[string]map[int]int64),
		ctx:         ctx,
		cancel:      cancel,
	}
}

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
		c.startOffset = kafka.FirstOffset
	}
	if opts.MaxBytesPerPartition > 0 {
		c.maxBytes = opts.MaxBytesPerPartition
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

// start — вступление в группу, один раз на соединение.
func (c *Connection) start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream.Closed() {
		return domain.ErrConnectionStopped
	}
	if c.started {
		return c.startErr
	}
	c.started = true

	cg, err := c.newGroup(kafka.ConsumerGroupConfig{
		ID:                c.group.Name,
		Brokers:           c.cfg.Brokers,
		Topics:            append([]string(nil), c.topics...),
		Dialer:            c.dialer,
		StartOffset:       c.startOffset,
		SessionTimeout:    c.cfg.SessionTimeout,
		HeartbeatInterval: c.cfg.HeartbeatInterval,
		RebalanceTimeout:  c.cfg.RebalanceTimeout,
		ErrorLogger:       kafka.LoggerFunc(c.logError),
	})
	if err != nil {
		c.startErr = fmt.Errorf("new consumer group %s: %w", c.group.Name, err)
		return c.startErr
	}
	c.cg = cg

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(cg)
	}()
	return nil
}

// run — цикл поколений группы до Stop.
func (c *Connection) run(cg consumerGroup) {
	for {
		a, err := cg.Next(c.ctx)
		switch {
		case err == nil:
			c.handleGeneration(a)
		case errors.Is(err, kafka.ErrGroupClosed), c.ctx.Err() != nil:
			return
		default:
			// группа сама повторяет вступление с JoinGroupBackoff
			c.log.Warnf(c.ctx, "join group failed group=%s: %v", c.group.Name, err)
		}
	}
}

// handleGeneration — запускает воркер на каждую назначенную партицию.
func (c *Connection) handleGeneration(a assignment) {
	c.mu.Lock()
	c.gen = a.gen
	c.genID = a.id
	c.retainAssigned(a.partitions)
	c.mu.Unlock()

	c.log.Infof(c.ctx, "generation started group=%s generation=%d member=%s", c.group.Name, a.id, a.memberID)
	c.stream.Activate()

	c.wg.Add(1)
	a.gen.Start(func(ctx context.Context) {
		defer c.wg.Done()
		c.commitLoop(ctx, a.gen)
	})

	for topic, parts := range a.partitions {
		for _, p := range parts {
			topic, p := topic, p
			a.gen.Start(func(ctx context.Context) {
				c.consumePartition(ctx, topic, p)
			})
		}
	}
}

// commitLoop — фиксирует отметки раз в CommitInterval; остаток уходит
// при завершении поколения и при Stop.
func (c *Connection) commitLoop(ctx context.Context, gen generation) {
	ticker := time.NewTicker(c.cfg.CommitInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.flush(gen)
		case <-ctx.Done():
			c.stream.Deactivate()
			c.flush(gen)
			return
		case <-c.stream.Done():
			c.flush(gen)
			return
		}
	}
}

func (c *Connection) flush(gen generation) {
	if err := c.commitMarks(gen); err != nil {
		c.log.Warnf(c.ctx, "commit offsets failed group=%s: %v", c.group.Name, err)
	}
}

// retainAssigned — отбрасывает отметки по партициям, которые ушли другим участникам.
func (c *Connection) retainAssigned(partitions map[string][]kafka.PartitionAssignment) {
	for topic, marks := range c.offsets {
		owned := make(map[int]bool, len(partitions[topic]))
		for _, p := range partitions[topic] {
			owned[p.ID] = true
		}
		for partition := range marks {
			if !owned[partition] {
				delete(marks, partition)
			}
		}
		if len(marks) == 0 {
			delete(c.offsets, topic)
		}
	}
}

func (c *Connection) consumePartition(ctx context.Context, topic string, p kafka.PartitionAssignment) {
	r := c.newReader(kafka.ReaderConfig{
		Brokers:     c.cfg.Brokers,
		Topic:       topic,
		Partition:   p.ID,
		Dialer:      c.dialer,
		MinBytes:    1,
		MaxBytes:    c.maxBytes,
		MaxWait:     500 * time.Millisecond,
		ErrorLogger: kafka.LoggerFunc(c.logError),
	})
	defer func() { _ = r.Close() }()

	tp := domain.TopicPartition{Topic: topic, Partition: int32(p.ID)}
	if err := r.SetOffset(p.Offset); err != nil {
		c.stream.Fail(&domain.ConnectionError{Op: "seek " + tp.String(), Err: err})
		return
	}
	if err := c.stream.Run(ctx, tp, readerSource{r: r}); err != nil {
		c.stream.Fail(&domain.ConnectionError{Op: "fetch " + tp.String(), Err: err})
	}
}

func (c *Connection) logError(format string, args ...any) {
	c.log.Warnf(c.ctx, "kafka-go: "+format, args...)
}

// Pause — партиция не доставляется opts.Timeout; воркер держит невыданные записи.
func (c *Connection) Pause(_ context.Context, topic string, partition int32, opts domain.PauseOptions) error {
	if c.stream.Closed() {
		return domain.ErrConnectionStopped
	}
	c.stream.Pause(domain.TopicPartition{Topic: topic, Partition: partition}, opts.Timeout)
	return nil
}

// MarkMessageAsProcessed — следующий к фиксации оффсет partition = offset+1.
func (c *Connection) MarkMessageAsProcessed(meta domain.Metadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream.Closed() {
		return domain.ErrConnectionStopped
	}
	marks, ok := c.offsets[meta.Topic]
	if !ok {
		marks = make(map[int]int64)
		c.offsets[meta.Topic] = marks
	}
	if next := meta.Offset + 1; next > marks[int(meta.Partition)] {
		marks[int(meta.Partition)] = next
	}
	return nil
}

// CommitOffsets — фиксирует накопленные отметки в текущем поколении.
// При ошибке отметки возвращаются обратно и уйдут следующей фиксацией.
func (c *Connection) CommitOffsets(_ context.Context) error {
	c.mu.Lock()
	if c.stream.Closed() {
		c.mu.Unlock()
		return domain.ErrConnectionStopped
	}
	gen := c.gen
	c.mu.Unlock()
	if gen == nil {
		return domain.ErrNoActiveSession
	}
	return c.commitMarks(gen)
}

// commitMarks — забирает накопленные отметки и фиксирует их в поколении gen.
func (c *Connection) commitMarks(gen generation) error {
	c.mu.Lock()
	pending := c.offsets
	c.offsets = make(map[string]map[int]int64)
	c.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}
	if err := gen.CommitOffsets(pending); err != nil {
		c.restore(pending)
		return err
	}
	return nil
}

func (c *Connection) restore(pending map[string]map[int]int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for topic, marks := range pending {
		cur, ok := c.offsets[topic]
		if !ok {
			cur = make(map[int]int64, len(marks))
			c.offsets[topic] = cur
		}
		for partition, off := range marks {
			if off > cur[partition] {
				cur[partition] = off
			}
		}
	}
}

// TriggerHeartbeat — kafka-go шлёт heartbeat сам в фоне поколения.
func (c *Connection) TriggerHeartbeat() error {
	if c.stream.Closed() {
		return domain.ErrConnectionStopped
	}
	return nil
}

// TriggerHeartbeatSync — ждёт, пока группа не получит назначение.
func (c *Connection) TriggerHeartbeatSync(ctx context.Context) error {
	if err := c.start(); err != nil {
		return err
	}
	return c.stream.WaitActive(ctx)
}

// Stop — фиксирует остаток отметок, выходит из группы и дожидается воркеров.
// Повторный вызов безопасен.
func (c *Connection) Stop() error {
	var err error
	c.stopOnce.Do(func() {
		c.stream.Close()
		c.cancel()

		c.mu.Lock()
		cg := c.cg
		c.mu.Unlock()
		if cg != nil {
			err = cg.Close()
		}
		c.wg.Wait()
	})
	return err
}
