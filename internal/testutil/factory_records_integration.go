//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/Gunvolt24/groupclient/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeMessages — n последовательных записей одной партиции начиная с оффсета from.
func MakeMessages(topic string, partition int32, from int64, n int) []*domain.Message {
	now := time.Now().UTC().Truncate(time.Millisecond)
	out := make([]*domain.Message, 0, n)
	for i := 0; i < n; i++ {
		off := from + int64(i)
		out = append(out, &domain.Message{
			Topic:     topic,
			Partition: partition,
			Offset:    off,
			Key:       []byte("key-" + strconv.FormatInt(off, 10)),
			Value:     []byte(`{"n":` + strconv.FormatInt(off, 10) + `}`),
			Headers:   []domain.Header{{Key: "source", Value: []byte("itest")}},
			Time:      now,
		})
	}
	return out
}
