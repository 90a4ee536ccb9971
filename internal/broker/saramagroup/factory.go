// Пакет saramagroup — драйвер соединения группы поверх IBM/sarama.
package saramagroup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"

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
	Version  string // версия протокола Kafka, например "2.8.0"
	Security security.Settings

	DialTimeout       time.Duration
	SessionTimeout    time.Duration
	HeartbeatInterval time.Duration
	RebalanceTimeout  time.Duration

	// CommitInterval — период автофиксации отмеченных оффсетов.
	CommitInterval time.Duration

	BatchMaxSize int
	BatchLinger  time.Duration
}

// Factory — собирает sarama.Client для группы.
type Factory struct {
	cfg Config
	log ports.Logger

	newClient func(addrs []string, conf *sarama.Config) (sarama.Client, error)
}

func NewFactory(cfg Config, log ports.Logger) *Factory {
	return &Factory{cfg: cfg, log: log, newClient: sarama.NewClient}
}

// Build — sarama.NewClient сам опрашивает брокеров за метаданными;
// недоступность брокеров возвращается как *domain.ConnectionError.
func (f *Factory) Build(ctx context.Context, group domain.GroupConfig) (ports.RawClient, error) {
	if len(f.cfg.Brokers) == 0 {
		return nil, errors.New("sarama: empty broker list")
	}
	conf, err := newSaramaConfig(f.cfg, group)
	if err != nil {
		return nil, err
	}

	client, err := f.newClient(f.cfg.Brokers, conf)
	if err != nil {
		var cerr sarama.ConfigurationError
		if errors.As(err, &cerr) {
			return nil, fmt.Errorf("sarama config: %w", err)
		}
		return nil, &domain.ConnectionError{Op: "connect", Err: err}
	}

	f.log.Infof(ctx, "sarama client built group=%s brokers=%v version=%s", group.Name, f.cfg.Brokers, conf.Version)
	return &rawClient{cfg: f.cfg, group: group, client: client, log: f.log}, nil
}

// newSaramaConfig — автофиксация отмеченных оффсетов, стартовая позиция и лимит выборки группы.
// MarkOffset только копит оффсеты; их отправляет offset manager раз в интервал и при закрытии сессии.
func newSaramaConfig(cfg Config, group domain.GroupConfig) (*sarama.Config, error) {
	conf := sarama.NewConfig()

	conf.Version = sarama.DefaultVersion
	if cfg.Version != "" {
		v, err := sarama.ParseKafkaVersion(cfg.Version)
		if err != nil {
			return nil, fmt.Errorf("sarama: invalid version %q: %w", cfg.Version, err)
		}
		conf.Version = v
	}
	if cfg.ClientID != "" {
		conf.ClientID = cfg.ClientID
	}

	conf.Consumer.Return.Errors = true
	conf.Consumer.Offsets.AutoCommit.Enable = true
	if cfg.CommitInterval > 0 {
		conf.Consumer.Offsets.AutoCommit.Interval = cfg.CommitInterval
	}
	conf.Consumer.Offsets.Initial = sarama.OffsetNewest
	if group.StartFromBeginning {
		conf.Consumer.Offsets.Initial = sarama.OffsetOldest
	}
	conf.Consumer.Fetch.Default = domain.MaxBytesPerPartition
	conf.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRange()}

	if cfg.SessionTimeout > 0 {
		conf.Consumer.Group.Session.Timeout = cfg.SessionTimeout
	}
	if cfg.HeartbeatInterval > 0 {
		conf.Consumer.Group.Heartbeat.Interval = cfg.HeartbeatInterval
	}
	if cfg.RebalanceTimeout > 0 {
		conf.Consumer.Group.Rebalance.Timeout = cfg.RebalanceTimeout
	}
	if cfg.DialTimeout > 0 {
		conf.Net.DialTimeout = cfg.DialTimeout
	}

	if err := configureSecurity(conf, cfg.Security); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("sarama config: %w", err)
	}
	return conf, nil
}

func configureSecurity(conf *sarama.Config, s security.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s = s.Normalize()

	if tlsCfg := s.TLSConfig(); tlsCfg != nil {
		conf.Net.TLS.Enable = true
		conf.Net.TLS.Config = tlsCfg
	}
	if !s.SASLEnabled() {
		return nil
	}

	conf.Net.SASL.Enable = true
	switch s.SASLMechanism {
	case security.MechanismPlain:
		conf.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		conf.Net.SASL.User = s.SASLUsername
		conf.Net.SASL.Password = s.SASLPassword
	case security.MechanismSCRAMSHA256:
		conf.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
		conf.Net.SASL.User = s.SASLUsername
		conf.Net.SASL.Password = s.SASLPassword
		conf.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
			return &xdgSCRAMClient{HashGeneratorFcn: sha256Gen}
		}
	case security.MechanismSCRAMSHA512:
		conf.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA512
		conf.Net.SASL.User = s.SASLUsername
		conf.Net.SASL.Password = s.SASLPassword
		conf.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
			return &xdgSCRAMClient{HashGeneratorFcn: sha512Gen}
		}
	case security.MechanismAWSMSKIAM:
		conf.Net.SASL.Mechanism = sarama.SASLTypeOAuth
		conf.Net.SASL.TokenProvider = newMSKTokenProvider(s.AWSRegion)
	}
	return nil
}

type rawClient struct {
	cfg    Config
	group  domain.GroupConfig
	client sarama.Client
	log    ports.Logger
}

func (r *rawClient) Consumer(_ context.Context) (ports.Connection, error) {
	cg, err := sarama.NewConsumerGroupFromClient(r.group.Name, r.client)
	if err != nil {
		_ = r.client.Close()
		return nil, &domain.ConnectionError{Op: "consumer group", Err: err}
	}
	return newConnection(r.cfg, r.group, cg, r.client.Config(), r.client, r.log), nil
}
