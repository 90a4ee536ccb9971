// Пакет stream — общий для драйверов диспетчер партиций.
//
// Воркеры партиций (по одной горутине на назначенную партицию) читают записи
// из своего источника и по одной порции предлагают их единственному циклу
// доставки EachMessage/EachBatch, который выполняется в горутине вызывающего.
// Цикл отвечает числом принятых записей; непринятые остаются у воркера и
// предлагаются снова, поэтому после сбоя обработки доставка продолжается с той
// же записи, как только пауза партиции истечёт.
package stream

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Gunvolt24/groupclient/internal/domain"
)

// ErrClosed — поток закрыт через Close или Fail.
var ErrClosed = errors.New("stream closed")

// Source — источник записей одной партиции. Fetch блокируется до записи или отмены ctx.
type Source interface {
	Fetch(ctx context.Context) (*domain.Message, error)
}

// Config — размер порции. BatchMaxSize <= 1 — по одной записи.
type Config struct {
	BatchMaxSize int
	BatchLinger  time.Duration
}

// ConfigFor — без пакетной выборки записи идут по одной, без добора.
func ConfigFor(batchFetching bool, maxSize int, linger time.Duration) Config {
	if !batchFetching {
		return Config{BatchMaxSize: 1}
	}
	return Config{BatchMaxSize: maxSize, BatchLinger: linger}
}

type offer struct {
	tp    domain.TopicPartition
	msgs  []*domain.Message
	reply chan int
}

// Stream — точка встречи воркеров партиций и цикла доставки.
type Stream struct {
	cfg       Config
	offers    chan offer
	done      chan struct{}
	closeOnce sync.Once
	now       func() time.Time

	mu       sync.Mutex
	paused   map[domain.TopicPartition]time.Time
	active   bool
	activeCh chan struct{}
	failErr  error
}

func New(cfg Config) *Stream {
	if cfg.BatchMaxSize < 1 {
		cfg.BatchMaxSize = 1
	}
	return &Stream{
		cfg:      cfg,
		offers:   make(chan offer),
		done:     make(chan struct{}),
		now:      time.Now,
		paused:   make(map[domain.TopicPartition]time.Time),
		activeCh: make(chan struct{}),
	}
}

// EachMessage — доставляет записи по одной, пока поток не закрыт.
// Ошибка обработчика возвращается как *domain.ProcessingError; запись остаётся у воркера.
func (s *Stream) EachMessage(ctx context.Context, fn domain.MessageHandler) error {
	for {
		o, err := s.next(ctx)
		if err != nil {
			return s.finish(err)
		}

		acked, herr := s.handleMessages(ctx, o, fn)
		o.reply <- acked
		if herr != nil {
			return herr
		}
	}
}

func (s *Stream) handleMessages(ctx context.Context, o offer, fn domain.MessageHandler) (int, error) {
	for i, m := range o.msgs {
		// обработчик мог поставить партицию на паузу, остаток ждёт
		if s.IsPaused(o.tp) {
			return i, nil
		}
		if err := fn(ctx, m); err != nil {
			return i, &domain.ProcessingError{Topic: m.Topic, Partition: m.Partition, Offset: m.Offset, Err: err}
		}
	}
	return len(o.msgs), nil
}

// EachBatch — доставляет порции целиком. При ошибке порция остаётся у воркера полностью.
func (s *Stream) EachBatch(ctx context.Context, fn domain.BatchHandler) error {
	for {
		o, err := s.next(ctx)
		if err != nil {
			return s.finish(err)
		}
		if s.IsPaused(o.tp) {
			o.reply <- 0
			continue
		}

		batch := &domain.Batch{Topic: o.tp.Topic, Partition: o.tp.Partition, Messages: o.msgs}
		if err := fn(ctx, batch); err != nil {
			o.reply <- 0
			return &domain.ProcessingError{
				Topic:     batch.Topic,
				Partition: batch.Partition,
				Offset:    batch.FirstOffset(),
				Err:       err,
			}
		}
		o.reply <- len(o.msgs)
	}
}

func (s *Stream) next(ctx context.Context) (offer, error) {
	select {
	case o := <-s.offers:
		return o, nil
	case <-s.done:
		return offer{}, ErrClosed
	case <-ctx.Done():
		return offer{}, ctx.Err()
	}
}

// finish — закрытие без Fail завершает итерацию с nil.
func (s *Stream) finish(err error) error {
	if !errors.Is(err, ErrClosed) {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failErr
}

// Run — воркер партиции: читает из src и предлагает порции циклу доставки.
// Возвращает nil при отмене ctx или закрытии потока, иначе ошибку источника.
func (s *Stream) Run(ctx context.Context, tp domain.TopicPartition, src Source) error {
	// Close должен прерывать и заблокированную выборку
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	var pending []*domain.Message
	for {
		if err := s.waitResumed(ctx, tp); err != nil {
			return nil
		}

		if len(pending) == 0 {
			msgs, err := s.fill(ctx, src)
			if err != nil {
				if ctx.Err() != nil || s.Closed() {
					return nil
				}
				return err
			}
			pending = msgs
		}

		n, err := s.offer(ctx, tp, pending)
		if err != nil {
			return nil
		}
		pending = pending[n:]
	}
}

// fill — одна блокирующая выборка, затем добор до BatchMaxSize в пределах BatchLinger.
func (s *Stream) fill(ctx context.Context, src Source) ([]*domain.Message, error) {
	first, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	msgs := []*domain.Message{first}
	if s.cfg.BatchMaxSize <= 1 {
		return msgs, nil
	}

	lingerCtx, cancel := context.WithTimeout(ctx, s.cfg.BatchLinger)
	defer cancel()
	for len(msgs) < s.cfg.BatchMaxSize {
		m, err := src.Fetch(lingerCtx)
		if err != nil {
			// ошибка при доборе всплывёт на следующей выборке
			break
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (s *Stream) offer(ctx context.Context, tp domain.TopicPartition, msgs []*domain.Message) (int, error) {
	o := offer{tp: tp, msgs: msgs, reply: make(chan int, 1)}
	select {
	case s.offers <- o:
	case <-s.done:
		return 0, ErrClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	select {
	case n := <-o.reply:
		return n, nil
	case <-s.done:
		return 0, ErrClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (s *Stream) waitResumed(ctx context.Context, tp domain.TopicPartition) error {
	for {
		s.mu.Lock()
		until, ok := s.paused[tp]
		s.mu.Unlock()
		if !ok {
			return nil
		}

		wait := until.Sub(s.now())
		if wait <= 0 {
			s.mu.Lock()
			if cur, ok := s.paused[tp]; ok && cur.Equal(until) {
				delete(s.paused, tp)
			}
			s.mu.Unlock()
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-s.done:
			timer.Stop()
			return ErrClosed
		}
	}
}

// Pause — удерживает партицию d. d <= 0 снимает паузу.
func (s *Stream) Pause(tp domain.TopicPartition, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d <= 0 {
		delete(s.paused, tp)
		return
	}
	s.paused[tp] = s.now().Add(d)
}

// Resume — снимает паузу досрочно.
func (s *Stream) Resume(tp domain.TopicPartition) {
	s.Pause(tp, 0)
}

// IsPaused — партиция удерживается прямо сейчас.
func (s *Stream) IsPaused(tp domain.TopicPartition) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.paused[tp]
	return ok && s.now().Before(until)
}

// Activate — сессия группы активна (назначение получено).
func (s *Stream) Activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		s.active = true
		close(s.activeCh)
	}
}

// Deactivate — сессия закончилась (ребаланс, потеря координатора).
func (s *Stream) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		s.active = false
		s.activeCh = make(chan struct{})
	}
}

func (s *Stream) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// WaitActive — ждёт активной сессии. После Close — domain.ErrConnectionStopped.
func (s *Stream) WaitActive(ctx context.Context) error {
	s.mu.Lock()
	ch := s.activeCh
	s.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-s.done:
		return domain.ErrConnectionStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close — завершает итерацию и воркеров. Повторный вызов безопасен.
func (s *Stream) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Fail — завершает итерацию с ошибкой err (первая ошибка выигрывает).
func (s *Stream) Fail(err error) {
	s.mu.Lock()
	if s.failErr == nil {
		s.failErr = err
	}
	s.mu.Unlock()
	s.Close()
}

func (s *Stream) Done() <-chan struct{} { return s.done }

func (s *Stream) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
