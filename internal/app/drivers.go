package app

import (
	"fmt"
	"strings"

	"github.com/Gunvolt24/groupclient/config"
	"github.com/Gunvolt24/groupclient/internal/broker/kafkago"
	"github.com/Gunvolt24/groupclient/internal/broker/saramagroup"
	"github.com/Gunvolt24/groupclient/internal/ports"
)

// newConnectionFactory — драйвер брокера по имени из конфигурации.
func newConnectionFactory(k config.Kafka, log ports.Logger) (ports.ConnectionFactory, error) {
	switch strings.ToLower(strings.TrimSpace(k.Driver)) {
	case "", config.DriverKafkaGo:
		return kafkago.NewFactory(kafkago.Config{
			Brokers:           k.Brokers,
			ClientID:          k.ClientID,
			Security:          k.SecuritySettings(),
			DialTimeout:       k.DialTimeout,
			SessionTimeout:    k.SessionTimeout,
			HeartbeatInterval: k.HeartbeatInterval,
			RebalanceTimeout:  k.RebalanceTimeout,
			CommitInterval:    k.CommitInterval,
			BatchMaxSize:      k.BatchMaxSize,
			BatchLinger:       k.BatchLinger,
		}, log), nil
	case config.DriverSarama:
		return saramagroup.NewFactory(saramagroup.Config{
			Brokers:           k.Brokers,
			ClientID:          k.ClientID,
			Version:           k.Version,
			Security:          k.SecuritySettings(),
			DialTimeout:       k.DialTimeout,
			SessionTimeout:    k.SessionTimeout,
			HeartbeatInterval: k.HeartbeatInterval,
			RebalanceTimeout:  k.RebalanceTimeout,
			CommitInterval:    k.CommitInterval,
			BatchMaxSize:      k.BatchMaxSize,
			BatchLinger:       k.BatchLinger,
		}, log), nil
	default:
		return nil, fmt.Errorf("unknown kafka driver %q", k.Driver)
	}
}
