package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/groupclient/internal/domain"
	"github.com/Gunvolt24/groupclient/internal/ports"
	"github.com/Gunvolt24/groupclient/pkg/metrics"
)

var _ ports.MessageConsumer = (*SinkService)(nil)

// SinkService — прикладной обработчик группы: сохраняет записи в хранилище
// и только после этого отмечает их обработанными.
type SinkService struct {
	client         ports.GroupConsumer
	repo           ports.RecordRepository
	log            ports.Logger
	processTimeout time.Duration
	syncCommit     bool
}

// NewSinkService — DI-конструктор. processTimeout <= 0 — без ограничения на сохранение.
func NewSinkService(
	client ports.GroupConsumer,
	repo ports.RecordRepository,
	log ports.Logger,
	processTimeout time.Duration,
	syncCommit bool,
) *SinkService {
	return &SinkService{
		client:         client,
		repo:           repo,
		log:            log,
		processTimeout: processTimeout,
		syncCommit:     syncCommit,
	}
}

// Run — цикл выборки до отмены ctx или Close. После сбоя соединения клиент
// уже сбросил его, поэтому цикл просто запускается заново; прочие ошибки фатальны.
func (s *SinkService) Run(ctx context.Context) error {
	s.log.Infof(ctx, "sink started sync_commit=%t", s.syncCommit)
	for {
		err := s.client.FetchLoop(ctx, s.Handle)
		if err == nil || ctx.Err() != nil {
			return err
		}
		if domain.Classify(err) != domain.ConnectionFailure {
			return err
		}
		s.log.Warnf(ctx, "fetch loop interrupted by connection failure, restarting: %v", err)
	}
}

// Handle — колбэк доставки. Ошибка уходит в клиента как сбой обработки,
// партиция встаёт на паузу и элемент будет доставлен снова.
func (s *SinkService) Handle(ctx context.Context, item domain.Item) error {
	msgs := item.Messages()
	if len(msgs) == 0 {
		return nil
	}
	meta := item.Metadata()

	saveCtx := ctx
	if s.processTimeout > 0 {
		var cancel context.CancelFunc
		saveCtx, cancel = context.WithTimeout(ctx, s.processTimeout)
		defer cancel()
	}

	start := time.Now()
	if err := s.repo.SaveBatch(saveCtx, msgs); err != nil {
		s.log.Errorf(ctx, "save failed topic=%s partition=%d offset=%d err=%v", meta.Topic, meta.Partition, meta.Offset, err)
		return fmt.Errorf("save records: %w", err)
	}
	metrics.RecordsStored.WithLabelValues(meta.Topic).Add(float64(len(msgs)))

	mark := s.client.MarkAsConsumed
	if s.syncCommit {
		mark = s.client.MarkAsConsumedSync
	}
	if err := mark(ctx, meta); err != nil {
		return fmt.Errorf("mark consumed: %w", err)
	}

	s.log.Infof(ctx, "stored kind=%s records=%d last_offset=%d took=%s", item.Kind, len(msgs), meta.Offset, time.Since(start))
	return nil
}

// Close — останавливает клиента группы.
func (s *SinkService) Close() error {
	return s.client.Stop()
}
