package saramagroup

import (
	"context"
	"sync"

	"github.com/IBM/sarama"

	"github.com/Gunvolt24/groupclient/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// recorder — общий журнал отметок и фиксаций всех сессий.
type recorder struct {
	mu      sync.Mutex
	marks   []mark
	commits int
}

type mark struct {
	topic     string
	partition int32
	offset    int64
}

func (r *recorder) Marks() []mark {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mark(nil), r.marks...)
}

func (r *recorder) Commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commits
}

type fakeSession struct {
	ctx context.Context
	rec *recorder
}

func (s *fakeSession) Claims() map[string][]int32 { return nil }
func (s *fakeSession) MemberID() string           { return "member-1" }
func (s *fakeSession) GenerationID() int32        { return 1 }
func (s *fakeSession) MarkOffset(topic string, partition int32, offset int64, _ string) {
	s.rec.mu.Lock()
	s.rec.marks = append(s.rec.marks, mark{topic: topic, partition: partition, offset: offset})
	s.rec.mu.Unlock()
}
func (s *fakeSession) Commit() {
	s.rec.mu.Lock()
	s.rec.commits++
	s.rec.mu.Unlock()
}
func (s *fakeSession) ResetOffset(string, int32, int64, string)    {}
func (s *fakeSession) MarkMessage(*sarama.ConsumerMessage, string) {}
func (s *fakeSession) Context() context.Context                    { return s.ctx }

type fakeClaim struct {
	topic     string
	partition int32
	ch        chan *sarama.ConsumerMessage
}

func newFakeClaim(topic string, partition int32, offsets ...int64) *fakeClaim {
	cl := &fakeClaim{topic: topic, partition: partition, ch: make(chan *sarama.ConsumerMessage, len(offsets))}
	for _, off := range offsets {
		cl.ch <- &sarama.ConsumerMessage{Topic: topic, Partition: partition, Offset: off}
	}
	return cl
}

func (c *fakeClaim) Topic() string                            { return c.topic }
func (c *fakeClaim) Partition() int32                         { return c.partition }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return 0 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.ch }

// fakeGroup — одна сессия на вызов Consume; сессия живёт до отмены ctx или Close.
type fakeGroup struct {
	claims     []*fakeClaim
	consumeErr error
	rec        *recorder

	errs      chan error
	closed    chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	topics  []string
	paused  []map[string][]int32
	resumed []map[string][]int32
}

func newFakeGroup(claims ...*fakeClaim) *fakeGroup {
	return &fakeGroup{
		claims: claims,
		rec:    &recorder{},
		errs:   make(chan error),
		closed: make(chan struct{}),
	}
}

func (g *fakeGroup) Consume(ctx context.Context, topics []string, h sarama.ConsumerGroupHandler) error {
	g.mu.Lock()
	g.topics = topics
	g.mu.Unlock()
	if g.consumeErr != nil {
		return g.consumeErr
	}
	select {
	case <-g.closed:
		return sarama.ErrClosedConsumerGroup
	default:
	}

	sctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sess := &fakeSession{ctx: sctx, rec: g.rec}
	if err := h.Setup(sess); err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, cl := range g.claims {
		wg.Add(1)
		go func(cl *fakeClaim) {
			defer wg.Done()
			_ = h.ConsumeClaim(sess, cl)
		}(cl)
	}

	select {
	case <-ctx.Done():
	case <-g.closed:
	}
	cancel()
	wg.Wait()
	return h.Cleanup(sess)
}

func (g *fakeGroup) Errors() <-chan error { return g.errs }

func (g *fakeGroup) Close() error {
	g.closeOnce.Do(func() {
		close(g.closed)
		close(g.errs)
	})
	return nil
}

func (g *fakeGroup) Pause(partitions map[string][]int32) {
	g.mu.Lock()
	g.paused = append(g.paused, partitions)
	g.mu.Unlock()
}

func (g *fakeGroup) Resume(partitions map[string][]int32) {
	g.mu.Lock()
	g.resumed = append(g.resumed, partitions)
	g.mu.Unlock()
}

func (g *fakeGroup) PauseAll()  {}
func (g *fakeGroup) ResumeAll() {}

func (g *fakeGroup) Paused() []map[string][]int32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]map[string][]int32(nil), g.paused...)
}

func (g *fakeGroup) Resumed() []map[string][]int32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]map[string][]int32(nil), g.resumed...)
}

func (g *fakeGroup) Topics() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.topics
}

type countingCloser struct {
	mu     sync.Mutex
	closes int
}

func (c *countingCloser) Close() error {
	c.mu.Lock()
	c.closes++
	c.mu.Unlock()
	return nil
}

func (c *countingCloser) Closes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

func newTestConnection(g *fakeGroup) (*Connection, *countingCloser) {
	closer := &countingCloser{}
	return newConnection(Config{}, domain.GroupConfig{Name: "sink"}, g, sarama.NewConfig(), closer, nopLogger{}), closer
}
