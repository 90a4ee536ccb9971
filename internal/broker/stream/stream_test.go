package stream_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/groupclient/internal/broker/stream"
	"github.com/Gunvolt24/groupclient/internal/domain"
)

// chanSource — источник поверх буферизованного канала; пустой канал блокирует Fetch.
type chanSource struct {
	ch chan *domain.Message
}

func newSource(topic string, partition int32, offsets ...int64) *chanSource {
	ch := make(chan *domain.Message, len(offsets))
	for _, off := range offsets {
		ch <- &domain.Message{Topic: topic, Partition: partition, Offset: off}
	}
	return &chanSource{ch: ch}
}

func (s *chanSource) Fetch(ctx context.Context) (*domain.Message, error) {
	select {
	case m := <-s.ch:
		return m, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type errSource struct{ err error }

func (s errSource) Fetch(context.Context) (*domain.Message, error) { return nil, s.err }

// runWorker запускает воркера и возвращает канал с его результатом.
func runWorker(ctx context.Context, s *stream.Stream, tp domain.TopicPartition, src stream.Source) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx, tp, src) }()
	return errCh
}

var tp0 = domain.TopicPartition{Topic: "records", Partition: 0}

func TestEachMessage_DeliversInOrderUntilClosed(t *testing.T) {
	s := stream.New(stream.Config{BatchMaxSize: 1})
	workerDone := runWorker(context.Background(), s, tp0, newSource("records", 0, 1, 2, 3))

	var offsets []int64
	err := s.EachMessage(context.Background(), func(_ context.Context, m *domain.Message) error {
		offsets = append(offsets, m.Offset)
		if len(offsets) == 3 {
			s.Close()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, offsets)
	assert.NoError(t, <-workerDone)
}

func TestEachMessage_HandlerErrorRedeliversSameMessage(t *testing.T) {
	s := stream.New(stream.Config{BatchMaxSize: 1})
	runWorker(context.Background(), s, tp0, newSource("records", 0, 1, 2, 3))
	defer s.Close()

	cause := errors.New("db down")
	var offsets []int64
	handler := func(_ context.Context, m *domain.Message) error {
		offsets = append(offsets, m.Offset)
		if m.Offset == 2 && len(offsets) == 2 {
			return cause
		}
		if m.Offset == 3 {
			s.Close()
		}
		return nil
	}

	err := s.EachMessage(context.Background(), handler)
	var perr *domain.ProcessingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "records", perr.Topic)
	assert.Equal(t, int64(2), perr.Offset)
	assert.ErrorIs(t, err, cause)

	require.NoError(t, s.EachMessage(context.Background(), handler))
	assert.Equal(t, []int64{1, 2, 2, 3}, offsets)
}

func TestEachBatch_CollectsUpToMaxSize(t *testing.T) {
	s := stream.New(stream.Config{BatchMaxSize: 3, BatchLinger: 50 * time.Millisecond})
	runWorker(context.Background(), s, tp0, newSource("records", 0, 1, 2, 3, 4, 5))

	var sizes []int
	err := s.EachBatch(context.Background(), func(_ context.Context, b *domain.Batch) error {
		assert.Equal(t, "records", b.Topic)
		sizes = append(sizes, len(b.Messages))
		if b.LastOffset() == 5 {
			s.Close()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, sizes)
}

func TestEachBatch_HandlerErrorKeepsWholeBatch(t *testing.T) {
	s := stream.New(stream.Config{BatchMaxSize: 2, BatchLinger: 20 * time.Millisecond})
	runWorker(context.Background(), s, tp0, newSource("records", 0, 7, 8))
	defer s.Close()

	cause := errors.New("constraint violation")
	err := s.EachBatch(context.Background(), func(context.Context, *domain.Batch) error { return cause })

	var perr *domain.ProcessingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, int64(7), perr.Offset, "ошибка пачки указывает на первое сообщение")

	var got []int64
	err = s.EachBatch(context.Background(), func(_ context.Context, b *domain.Batch) error {
		for _, m := range b.Messages {
			got = append(got, m.Offset)
		}
		s.Close()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, got)
}

func TestPause_HoldsPartitionUntilDeadline(t *testing.T) {
	s := stream.New(stream.Config{BatchMaxSize: 1})
	s.Pause(tp0, 60*time.Millisecond)
	assert.True(t, s.IsPaused(tp0))

	start := time.Now()
	runWorker(context.Background(), s, tp0, newSource("records", 0, 1))

	var delivered time.Duration
	err := s.EachMessage(context.Background(), func(context.Context, *domain.Message) error {
		delivered = time.Since(start)
		s.Close()
		return nil
	})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, delivered, 50*time.Millisecond)
	assert.False(t, s.IsPaused(tp0))
}

func TestPause_FromHandlerBouncesRestOfChunk(t *testing.T) {
	s := stream.New(stream.Config{BatchMaxSize: 3, BatchLinger: 20 * time.Millisecond})
	runWorker(context.Background(), s, tp0, newSource("records", 0, 1, 2, 3))

	var offsets []int64
	err := s.EachMessage(context.Background(), func(_ context.Context, m *domain.Message) error {
		offsets = append(offsets, m.Offset)
		switch m.Offset {
		case 1:
			s.Pause(tp0, 30*time.Millisecond)
		case 3:
			s.Close()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, offsets)
}

func TestResume_ReleasesPartition(t *testing.T) {
	s := stream.New(stream.Config{})
	s.Pause(tp0, time.Hour)
	s.Resume(tp0)
	assert.False(t, s.IsPaused(tp0))

	s.Pause(tp0, 0)
	assert.False(t, s.IsPaused(tp0))
}

func TestFail_EndsIterationWithError(t *testing.T) {
	s := stream.New(stream.Config{})
	connErr := &domain.ConnectionError{Op: "fetch", Err: errors.New("broker gone")}

	go s.Fail(connErr)
	err := s.EachMessage(context.Background(), func(context.Context, *domain.Message) error { return nil })
	require.ErrorIs(t, err, connErr)

	// первая ошибка выигрывает
	s.Fail(errors.New("second"))
	require.ErrorIs(t, s.EachMessage(context.Background(), nil), connErr)
}

func TestEachMessage_ContextCanceled(t *testing.T) {
	s := stream.New(stream.Config{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.EachMessage(ctx, func(context.Context, *domain.Message) error { return nil })
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRun_SourceErrorReturned(t *testing.T) {
	s := stream.New(stream.Config{})
	defer s.Close()

	srcErr := errors.New("offset out of range")
	err := s.Run(context.Background(), tp0, errSource{err: srcErr})
	require.ErrorIs(t, err, srcErr)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	s := stream.New(stream.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	done := runWorker(ctx, s, tp0, newSource("records", 0))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWaitActive(t *testing.T) {
	s := stream.New(stream.Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, s.WaitActive(ctx), context.DeadlineExceeded)

	s.Activate()
	assert.True(t, s.Active())
	require.NoError(t, s.WaitActive(context.Background()))

	s.Deactivate()
	assert.False(t, s.Active())

	go func() {
		time.Sleep(10 * time.Millisecond)
		s.Close()
	}()
	require.ErrorIs(t, s.WaitActive(context.Background()), domain.ErrConnectionStopped)
	assert.True(t, s.Closed())
}

func TestConfigFor(t *testing.T) {
	assert.Equal(t, stream.Config{BatchMaxSize: 1}, stream.ConfigFor(false, 100, 200*time.Millisecond))
	assert.Equal(t, stream.Config{BatchMaxSize: 100, BatchLinger: 200 * time.Millisecond}, stream.ConfigFor(true, 100, 200*time.Millisecond))
}
