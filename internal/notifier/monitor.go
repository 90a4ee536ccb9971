// Пакет notifier — приёмник ошибок клиента группы.
package notifier

import (
	"context"

	"github.com/Gunvolt24/groupclient/internal/domain"
	"github.com/Gunvolt24/groupclient/internal/ports"
	"github.com/Gunvolt24/groupclient/pkg/metrics"
)

var _ ports.ErrorNotifier = (*Monitor)(nil)

// Monitor — пишет ошибку в лог и считает её в groupclient_errors_noticed_total{source,kind}.
type Monitor struct {
	log ports.Logger
}

func NewMonitor(log ports.Logger) *Monitor {
	return &Monitor{log: log}
}

// NoticeError — вид ошибки определяется по domain.Classify; nil игнорируется.
func (m *Monitor) NoticeError(ctx context.Context, source string, err error) {
	if err == nil {
		return
	}
	kind := domain.Classify(err)
	metrics.NoticedErrors.WithLabelValues(source, kind.String()).Inc()
	m.log.Errorf(ctx, "error noticed source=%s kind=%s: %v", source, kind, err)
}
