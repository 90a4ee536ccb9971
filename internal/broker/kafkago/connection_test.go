package kafkago

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/groupclient/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// fakeGroup — отдаёт поколения из канала, после Close — kafka.ErrGroupClosed.
type fakeGroup struct {
	gens      chan assignment
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeGroup() *fakeGroup {
	return &fakeGroup{gens: make(chan assignment, 1), closed: make(chan struct{})}
}

func (g *fakeGroup) Next(ctx context.Context) (assignment, error) {
	select {
	case a := <-g.gens:
		return a, nil
	case <-g.closed:
		return assignment{}, kafka.ErrGroupClosed
	case <-ctx.Done():
		return assignment{}, ctx.Err()
	}
}

func (g *fakeGroup) Close() error {
	g.closeOnce.Do(func() { close(g.closed) })
	return nil
}

// fakeGeneration — поколение завершается, как только любая из функций вернулась.
type fakeGeneration struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	commits   []map[string]map[int]int64
	commitErr error
}

func newFakeGeneration() *fakeGeneration {
	ctx, cancel := context.WithCancel(context.Background())
	return &fakeGeneration{ctx: ctx, cancel: cancel}
}

func (g *fakeGeneration) Start(fn func(ctx context.Context)) {
	go func() {
		fn(g.ctx)
		g.cancel()
	}()
}

func (g *fakeGeneration) CommitOffsets(offsets map[string]map[int]int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.commitErr != nil {
		return g.commitErr
	}
	g.commits = append(g.commits, offsets)
	return nil
}

func (g *fakeGeneration) Commits() []map[string]map[int]int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]map[string]map[int]int64(nil), g.commits...)
}

func (g *fakeGeneration) failCommits(err error) {
	g.mu.Lock()
	g.commitErr = err
	g.mu.Unlock()
}

type fakeReader struct {
	msgs chan kafka.Message
	err  error

	mu     sync.Mutex
	offset int64
}

func newFakeReader(topic string, partition int, offsets ...int64) *fakeReader {
	r := &fakeReader{msgs: make(chan kafka.Message, len(offsets))}
	for _, off := range offsets {
		r.msgs <- kafka.Message{Topic: topic, Partition: partition, Offset: off, Value: []byte("v")}
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if r.err != nil {
		return kafka.Message{}, r.err
	}
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) SetOffset(offset int64) error {
	r.mu.Lock()
	r.offset = offset
	r.mu.Unlock()
	return nil
}

func (r *fakeReader) Offset() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.offset
}

func (r *fakeReader) Close() error { return nil }

type harness struct {
	conn   *Connection
	group  *fakeGroup
	dialer *kafka.Dialer

	mu        sync.Mutex
	groupCfg  kafka.ConsumerGroupConfig
	readerCfg []kafka.ReaderConfig
}

// newHarness — партиции без своего читателя получают пустой, блокирующийся до отмены.
func newHarness(readers map[int]*fakeReader) *harness {
	return newHarnessWith(Config{Brokers: []string{"broker:9092"}}, readers)
}

func newHarnessWith(cfg Config, readers map[int]*fakeReader) *harness {
	h := &harness{group: newFakeGroup(), dialer: &kafka.Dialer{ClientID: "sink-test"}}
	h.conn = newConnection(cfg, domain.GroupConfig{Name: "sink"}, h.dialer, nopLogger{})
	h.conn.newGroup = func(cfg kafka.ConsumerGroupConfig) (consumerGroup, error) {
		h.mu.Lock()
		h.groupCfg = cfg
		h.mu.Unlock()
		return h.group, nil
	}
	h.conn.newReader = func(cfg kafka.ReaderConfig) partitionReader {
		h.mu.Lock()
		h.readerCfg = append(h.readerCfg, cfg)
		h.mu.Unlock()
		if r, ok := readers[cfg.Partition]; ok {
			return r
		}
		return newFakeReader(cfg.Topic, cfg.Partition)
	}
	return h
}

func TestConnection_EachMessage_DeliversAssignedPartitions(t *testing.T) {
	r0 := newFakeReader("records", 0, 5, 6)
	r1 := newFakeReader("records", 1, 0)
	h := newHarness(map[int]*fakeReader{0: r0, 1: r1})
	ctx := context.Background()

	require.NoError(t, h.conn.Subscribe(ctx, "records", domain.SubscribeOptions{
		StartFromBeginning:   true,
		MaxBytesPerPartition: domain.MaxBytesPerPartition,
	}))

	h.group.gens <- assignment{
		id: 1,
		partitions: map[string][]kafka.PartitionAssignment{
			"records": {{ID: 0, Offset: 5}, {ID: 1, Offset: kafka.FirstOffset}},
		},
		gen: newFakeGeneration(),
	}

	var got []domain.Metadata
	err := h.conn.EachMessage(ctx, func(_ context.Context, m *domain.Message) error {
		got = append(got, m.Metadata())
		if len(got) == 3 {
			require.NoError(t, h.conn.Stop())
		}
		return nil
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []domain.Metadata{
		{Topic: "records", Partition: 0, Offset: 5},
		{Topic: "records", Partition: 0, Offset: 6},
		{Topic: "records", Partition: 1, Offset: 0},
	}, got)

	var p0 []int64
	for _, m := range got {
		if m.Partition == 0 {
			p0 = append(p0, m.Offset)
		}
	}
	assert.Equal(t, []int64{5, 6}, p0)

	assert.Equal(t, int64(5), r0.Offset())
	assert.Equal(t, kafka.FirstOffset, r1.Offset())

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Equal(t, "sink", h.groupCfg.ID)
	assert.Equal(t, []string{"records"}, h.groupCfg.Topics)
	assert.Equal(t, kafka.FirstOffset, h.groupCfg.StartOffset)
	// координация группы идёт через тот же Dialer с SASL/TLS, что и чтение
	assert.Same(t, h.dialer, h.groupCfg.Dialer)
	require.Len(t, h.readerCfg, 2)
	for _, rc := range h.readerCfg {
		assert.Equal(t, "records", rc.Topic)
		assert.Equal(t, domain.MaxBytesPerPartition, rc.MaxBytes)
		assert.Same(t, h.dialer, rc.Dialer)
	}
}

func TestConnection_Subscribe_DefaultsToLatest(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()

	require.NoError(t, h.conn.Subscribe(ctx, "a", domain.SubscribeOptions{}))
	require.NoError(t, h.conn.Subscribe(ctx, "b", domain.SubscribeOptions{}))
	require.NoError(t, h.conn.start())
	t.Cleanup(func() { _ = h.conn.Stop() })

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Equal(t, []string{"a", "b"}, h.groupCfg.Topics)
	assert.Equal(t, kafka.LastOffset, h.groupCfg.StartOffset)

	assert.ErrorIs(t, h.conn.Subscribe(ctx, "c", domain.SubscribeOptions{}), errSubscribeAfterStart)
}

func TestConnection_EachMessage_GroupError(t *testing.T) {
	h := newHarness(nil)
	boom := errors.New("bad config")
	h.conn.newGroup = func(kafka.ConsumerGroupConfig) (consumerGroup, error) { return nil, boom }

	err := h.conn.EachMessage(context.Background(), func(context.Context, *domain.Message) error { return nil })
	require.ErrorIs(t, err, boom)

	// повторный старт не пересоздаёт группу
	assert.ErrorIs(t, h.conn.EachBatch(context.Background(), func(context.Context, *domain.Batch) error { return nil }), boom)
}

func TestConnection_FetchFailureIsConnectionError(t *testing.T) {
	r := &fakeReader{err: errors.New("broker gone")}
	h := newHarness(map[int]*fakeReader{0: r})
	t.Cleanup(func() { _ = h.conn.Stop() })

	require.NoError(t, h.conn.Subscribe(context.Background(), "records", domain.SubscribeOptions{}))
	h.group.gens <- assignment{
		id:         1,
		partitions: map[string][]kafka.PartitionAssignment{"records": {{ID: 0, Offset: 0}}},
		gen:        newFakeGeneration(),
	}

	err := h.conn.EachMessage(context.Background(), func(context.Context, *domain.Message) error { return nil })

	var cerr *domain.ConnectionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, domain.ConnectionFailure, domain.Classify(err))
}

func TestConnection_HandlerErrorIsProcessingError(t *testing.T) {
	r := newFakeReader("records", 2, 41)
	h := newHarness(map[int]*fakeReader{2: r})
	t.Cleanup(func() { _ = h.conn.Stop() })

	require.NoError(t, h.conn.Subscribe(context.Background(), "records", domain.SubscribeOptions{}))
	h.group.gens <- assignment{
		id:         1,
		partitions: map[string][]kafka.PartitionAssignment{"records": {{ID: 2, Offset: 41}}},
		gen:        newFakeGeneration(),
	}

	boom := errors.New("boom")
	err := h.conn.EachMessage(context.Background(), func(context.Context, *domain.Message) error { return boom })

	var perr *domain.ProcessingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "records", perr.Topic)
	assert.Equal(t, int32(2), perr.Partition)
	assert.Equal(t, int64(41), perr.Offset)
	assert.ErrorIs(t, err, boom)
}

func TestConnection_MarkAndCommit(t *testing.T) {
	h := newHarness(nil)
	t.Cleanup(func() { _ = h.conn.Stop() })
	ctx := context.Background()

	require.ErrorIs(t, h.conn.CommitOffsets(ctx), domain.ErrNoActiveSession)

	gen := newFakeGeneration()
	h.conn.handleGeneration(assignment{
		id:         1,
		partitions: map[string][]kafka.PartitionAssignment{"records": {{ID: 0}}},
		gen:        gen,
	})

	require.NoError(t, h.conn.MarkMessageAsProcessed(domain.Metadata{Topic: "records", Partition: 0, Offset: 9}))
	require.NoError(t, h.conn.MarkMessageAsProcessed(domain.Metadata{Topic: "records", Partition: 0, Offset: 4}))
	require.NoError(t, h.conn.CommitOffsets(ctx))
	require.NoError(t, h.conn.CommitOffsets(ctx))

	assert.Equal(t, []map[string]map[int]int64{{"records": {0: 10}}}, gen.Commits())

	boom := errors.New("coordinator moved")
	gen.failCommits(boom)
	require.NoError(t, h.conn.MarkMessageAsProcessed(domain.Metadata{Topic: "records", Partition: 0, Offset: 11}))
	require.ErrorIs(t, h.conn.CommitOffsets(ctx), boom)

	gen.failCommits(nil)
	require.NoError(t, h.conn.CommitOffsets(ctx))
	assert.Equal(t, map[string]map[int]int64{"records": {0: 12}}, gen.Commits()[1])
}

func TestConnection_NewGenerationDropsForeignMarks(t *testing.T) {
	h := newHarness(nil)
	t.Cleanup(func() { _ = h.conn.Stop() })

	h.conn.handleGeneration(assignment{
		id:         1,
		partitions: map[string][]kafka.PartitionAssignment{"records": {{ID: 0}, {ID: 1}}},
		gen:        newFakeGeneration(),
	})
	require.NoError(t, h.conn.MarkMessageAsProcessed(domain.Metadata{Topic: "records", Partition: 0, Offset: 3}))
	require.NoError(t, h.conn.MarkMessageAsProcessed(domain.Metadata{Topic: "records", Partition: 1, Offset: 7}))

	next := newFakeGeneration()
	h.conn.handleGeneration(assignment{
		id:         2,
		partitions: map[string][]kafka.PartitionAssignment{"records": {{ID: 1}}},
		gen:        next,
	})
	require.NoError(t, h.conn.CommitOffsets(context.Background()))

	assert.Equal(t, []map[string]map[int]int64{{"records": {1: 8}}}, next.Commits())
}

func TestConnection_CommitsMarksOnInterval(t *testing.T) {
	h := newHarness(nil)
	h.conn.cfg.CommitInterval = 20 * time.Millisecond
	t.Cleanup(func() { _ = h.conn.Stop() })

	gen := newFakeGeneration()
	h.conn.handleGeneration(assignment{
		id:         1,
		partitions: map[string][]kafka.PartitionAssignment{"records": {{ID: 0}}},
		gen:        gen,
	})
	require.NoError(t, h.conn.MarkMessageAsProcessed(domain.Metadata{Topic: "records", Partition: 0, Offset: 9}))

	assert.Eventually(t, func() bool { return len(gen.Commits()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, map[string]map[int]int64{"records": {0: 10}}, gen.Commits()[0])
}

func TestConnection_StopCommitsPendingMarks(t *testing.T) {
	h := newHarness(nil)
	gen := newFakeGeneration()
	h.conn.handleGeneration(assignment{
		id:         1,
		partitions: map[string][]kafka.PartitionAssignment{"records": {{ID: 0}}},
		gen:        gen,
	})

	for off := int64(0); off < 50; off++ {
		require.NoError(t, h.conn.MarkMessageAsProcessed(domain.Metadata{Topic: "records", Partition: 0, Offset: off}))
	}
	require.NoError(t, h.conn.Stop())

	assert.Equal(t, []map[string]map[int]int64{{"records": {0: 50}}}, gen.Commits())
}

func TestConnection_GenerationEndCommitsPendingMarks(t *testing.T) {
	h := newHarness(nil)
	t.Cleanup(func() { _ = h.conn.Stop() })

	gen := newFakeGeneration()
	h.conn.handleGeneration(assignment{
		id:         1,
		partitions: map[string][]kafka.PartitionAssignment{"records": {{ID: 3}}},
		gen:        gen,
	})
	require.NoError(t, h.conn.MarkMessageAsProcessed(domain.Metadata{Topic: "records", Partition: 3, Offset: 20}))

	gen.cancel()
	assert.Eventually(t, func() bool { return len(gen.Commits()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, map[string]map[int]int64{"records": {3: 21}}, gen.Commits()[0])
}

func TestConnection_SingleMessageModeDoesNotLinger(t *testing.T) {
	r := newFakeReader("records", 0, 1)
	h := newHarnessWith(Config{Brokers: []string{"broker:9092"}, BatchMaxSize: 100, BatchLinger: time.Hour}, map[int]*fakeReader{0: r})
	t.Cleanup(func() { _ = h.conn.Stop() })

	require.NoError(t, h.conn.Subscribe(context.Background(), "records", domain.SubscribeOptions{}))
	h.group.gens <- assignment{
		id:         1,
		partitions: map[string][]kafka.PartitionAssignment{"records": {{ID: 0, Offset: 1}}},
		gen:        newFakeGeneration(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var got []int64
	err := h.conn.EachMessage(ctx, func(_ context.Context, m *domain.Message) error {
		got = append(got, m.Offset)
		return h.conn.Stop()
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, got)
}

func TestConnection_GenerationEndDeactivates(t *testing.T) {
	h := newHarness(nil)
	t.Cleanup(func() { _ = h.conn.Stop() })

	gen := newFakeGeneration()
	h.conn.handleGeneration(assignment{id: 1, gen: gen})
	assert.True(t, h.conn.stream.Active())

	gen.cancel()
	assert.Eventually(t, func() bool { return !h.conn.stream.Active() }, time.Second, 5*time.Millisecond)
}

func TestConnection_TriggerHeartbeatSync_WaitsForAssignment(t *testing.T) {
	h := newHarness(nil)
	t.Cleanup(func() { _ = h.conn.Stop() })
	require.NoError(t, h.conn.Subscribe(context.Background(), "records", domain.SubscribeOptions{}))

	go func() {
		time.Sleep(20 * time.Millisecond)
		h.group.gens <- assignment{id: 1, gen: newFakeGeneration()}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.conn.TriggerHeartbeatSync(ctx))
	assert.NoError(t, h.conn.TriggerHeartbeat())
}

func TestConnection_Pause(t *testing.T) {
	h := newHarness(nil)
	t.Cleanup(func() { _ = h.conn.Stop() })
	ctx := context.Background()
	tp := domain.TopicPartition{Topic: "records", Partition: 3}

	require.NoError(t, h.conn.Pause(ctx, "records", 3, domain.PauseOptions{Timeout: time.Minute}))
	assert.True(t, h.conn.stream.IsPaused(tp))

	require.NoError(t, h.conn.Pause(ctx, "records", 3, domain.PauseOptions{}))
	assert.False(t, h.conn.stream.IsPaused(tp))
}

func TestConnection_AfterStop(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()

	require.NoError(t, h.conn.Stop())
	require.NoError(t, h.conn.Stop())

	assert.ErrorIs(t, h.conn.Subscribe(ctx, "records", domain.SubscribeOptions{}), domain.ErrConnectionStopped)
	assert.ErrorIs(t, h.conn.MarkMessageAsProcessed(domain.Metadata{Topic: "records"}), domain.ErrConnectionStopped)
	assert.ErrorIs(t, h.conn.CommitOffsets(ctx), domain.ErrConnectionStopped)
	assert.ErrorIs(t, h.conn.Pause(ctx, "records", 0, domain.PauseOptions{Timeout: time.Second}), domain.ErrConnectionStopped)
	assert.ErrorIs(t, h.conn.TriggerHeartbeat(), domain.ErrConnectionStopped)
	assert.ErrorIs(t, h.conn.TriggerHeartbeatSync(ctx), domain.ErrConnectionStopped)
	assert.ErrorIs(t, h.conn.EachMessage(ctx, func(context.Context, *domain.Message) error { return nil }), domain.ErrConnectionStopped)
}

func TestToMessage(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := toMessage(kafka.Message{
		Topic:     "records",
		Partition: 4,
		Offset:    17,
		Key:       []byte("k"),
		Value:     []byte("v"),
		Headers:   []kafka.Header{{Key: "trace", Value: []byte("abc")}},
		Time:      ts,
	})

	assert.Equal(t, &domain.Message{
		Topic:     "records",
		Partition: 4,
		Offset:    17,
		Key:       []byte("k"),
		Value:     []byte("v"),
		Headers:   []domain.Header{{Key: "trace", Value: []byte("abc")}},
		Time:      ts,
	}, m)
	assert.Nil(t, toMessage(kafka.Message{}).Headers)
}
