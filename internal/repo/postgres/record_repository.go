package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gunvolt24/groupclient/internal/domain"
	"github.com/Gunvolt24/groupclient/internal/ports"
)

// Проверка, что RecordRepository удовлетворяет интерфейсу RecordRepository.
var _ ports.RecordRepository = (*RecordRepository)(nil)

const insertRecord = `
	INSERT INTO consumed_records (topic, partition, "offset", key, value, headers, produced_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (topic, partition, "offset") DO NOTHING`

// RecordRepository — принятые записи в Postgres (pgxpool).
type RecordRepository struct {
	pool *pgxpool.Pool
}

func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository { return &RecordRepository{pool: pool} }

type storedHeader struct {
	Key   string `json:"key"`
	Value []byte `json:"value"`
}

// SaveBatch — одна транзакция на пачку; повторная запись того же оффсета игнорируется.
func (r *RecordRepository) SaveBatch(ctx context.Context, msgs []*domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, m := range msgs {
		if m == nil {
			return errors.New("nil message in batch")
		}
		headers, err := encodeHeaders(m.Headers)
		if err != nil {
			return fmt.Errorf("encode headers offset=%d: %w", m.Offset, err)
		}
		batch.Queue(insertRecord, m.Topic, m.Partition, m.Offset, m.Key, m.Value, headers, producedAt(m.Time))
	}

	transaction, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// При уже завершённой транзакции Rollback вернёт ErrTxClosed, его игнорируем.
		_ = transaction.Rollback(ctx)
	}()

	if err := transaction.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert records: %w", err)
	}
	return transaction.Commit(ctx)
}

// CountByTopic — число сохранённых записей топика.
func (r *RecordRepository) CountByTopic(ctx context.Context, topic string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM consumed_records WHERE topic = $1`, topic).Scan(&n)
	return n, err
}

func encodeHeaders(hs []domain.Header) ([]byte, error) {
	out := make([]storedHeader, 0, len(hs))
	for _, h := range hs {
		out = append(out, storedHeader{Key: h.Key, Value: h.Value})
	}
	return json.Marshal(out)
}

func producedAt(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
