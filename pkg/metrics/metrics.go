package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	Deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groupclient_deliveries_total",
			Help: "Number of items handed to the application callback",
		},
		[]string{"topic", "kind"}, // message|batch
	)
	DeliveryFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groupclient_delivery_failures_total",
			Help: "Number of items the application callback failed to process",
		},
		[]string{"topic"},
	)
	Pauses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groupclient_partition_pauses_total",
			Help: "Number of partition pauses issued to the connection",
		},
		[]string{"topic"},
	)
)

var (
	ConnectAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groupclient_connect_attempts_total",
			Help: "Broker connection attempts",
		},
		[]string{"group"},
	)
	ConnectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groupclient_connect_failures_total",
			Help: "Failed broker connection attempts",
		},
		[]string{"group"},
	)
	NoticedErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groupclient_errors_noticed_total",
			Help: "Errors passed to the error notifier",
		},
		[]string{"source", "kind"}, // processing|connection|unclassified
	)
)

var RecordsStored = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sink_records_stored_total",
		Help: "Number of records written to the sink storage",
	},
	[]string{"topic"},
)

var registerOnce sync.Once

// MustRegister — регистрирует коллекторы в глобальном реестре. Повторный вызов безопасен.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			Deliveries, DeliveryFailures, Pauses,
			ConnectAttempts, ConnectFailures, NoticedErrors,
			RecordsStored,
		)
	})
}
