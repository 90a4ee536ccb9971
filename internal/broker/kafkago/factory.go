// Пакет kafkago — драйвер соединения группы поверх segmentio/kafka-go:
// ConsumerGroup/Generation для членства и оффсетов, Reader на каждую назначенную партицию.
package kafkago

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/Gunvolt24/groupclient/internal/broker/security"
	"github.com/Gunvolt24/groupclient/internal/domain"
	"github.com/Gunvolt24/groupclient/internal/ports"
)

var (
	_ ports.ConnectionFactory = (*Factory)(nil)
	_ ports.RawClient         = (*rawClient)(nil)
)

// Config — параметры драйвера, общие для всех групп.
type Config struct {
	Brokers  []string
	ClientID string
	Security security.Settings

	DialTimeout       time.Duration
	SessionTimeout    time.Duration
	HeartbeatInterval time.Duration
	RebalanceTimeout  time.Duration

	// CommitInterval — период фиксации отмеченных оффсетов.
	CommitInterval time.Duration

	// BatchMaxSize/BatchLinger: размер порции в режиме пачек.
	BatchMaxSize int
	BatchLinger  time.Duration
}

// DefaultCommitInterval — период фиксации, если CommitInterval не задан.
const DefaultCommitInterval = 5 * time.Second

// Factory — собирает клиента kafka-go и проверяет доступность брокеров.
type Factory struct {
	cfg Config
	log ports.Logger

	// dial — проверка брокера; в тестах подменяется.
	dial func(ctx context.Context, d *kafka.Dialer, addr string) (io.Closer, error)
}

func NewFactory(cfg Config, log ports.Logger) *Factory {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	return &Factory{
		cfg: cfg,
		log: log,
		dial: func(ctx context.Context, d *kafka.Dialer, addr string) (io.Closer, error) {
			return d.DialContext(ctx, "tcp", addr)
		},
	}
}

// Build — Dialer с SASL и TLS для группы и читателей; хотя бы один брокер должен отвечать.
func (f *Factory) Build(ctx context.Context, group domain.GroupConfig) (ports.RawClient, error) {
	if len(f.cfg.Brokers) == 0 {
		return nil, errors.New("kafka-go: empty broker list")
	}
	if err := f.cfg.Security.Validate(); err != nil {
		return nil, err
	}
	mechanism, err := saslMechanism(f.cfg.Security)
	if err != nil {
		return nil, err
	}
	tlsCfg := f.cfg.Security.TLSConfig()

	dialer := &kafka.Dialer{
		ClientID:      f.cfg.ClientID,
		Timeout:       f.cfg.DialTimeout,
		DualStack:     true,
		SASLMechanism: mechanism,
		TLS:           tlsCfg,
	}

	if err := f.probe(ctx, dialer); err != nil {
		return nil, &domain.ConnectionError{Op: "dial", Err: err}
	}

	f.log.Infof(ctx, "kafka-go client built group=%s brokers=%v", group.Name, f.cfg.Brokers)
	return &rawClient{cfg: f.cfg, group: group, dialer: dialer, log: f.log}, nil
}

func (f *Factory) probe(ctx context.Context, dialer *kafka.Dialer) error {
	var errs []error
	for _, addr := range f.cfg.Brokers {
		conn, err := f.dial(ctx, dialer, addr)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", addr, err))
	}
	return errors.Join(errs...)
}

// saslMechanism — механизм kafka-go по настройкам; nil без SASL.
func saslMechanism(s security.Settings) (sasl.Mechanism, error) {
	if !s.SASLEnabled() {
		return nil, nil
	}
	s = s.Normalize()
	switch s.SASLMechanism {
	case security.MechanismPlain:
		return plain.Mechanism{Username: s.SASLUsername, Password: s.SASLPassword}, nil
	case security.MechanismSCRAMSHA256:
		return scram.Mechanism(scram.SHA256, s.SASLUsername, s.SASLPassword)
	case security.MechanismSCRAMSHA512:
		return scram.Mechanism(scram.SHA512, s.SASLUsername, s.SASLPassword)
	default:
		return nil, fmt.Errorf("kafka-go: SASL mechanism %s is not supported, use the sarama driver", s.SASLMechanism)
	}
}

type rawClient struct {
	cfg    Config
	group  domain.GroupConfig
	dialer *kafka.Dialer
	log    ports.Logger
}

func (r *rawClient) Consumer(_ context.Context) (ports.Connection, error) {
	return newConnection(r.cfg, r.group, r.dialer, r.log), nil
}
