package domain

import "time"

// PausedPartition — состояние паузы партиции для административного API.
type PausedPartition struct {
	Topic     string        `json:"topic"`
	Partition int32         `json:"partition"`
	Attempts  int           `json:"attempts"`
	Timeout   time.Duration `json:"timeout_ns"`
	Until     time.Time     `json:"until"`
	Active    bool          `json:"active"`
}

// ClientStatus — снимок состояния клиента группы.
type ClientStatus struct {
	Group     string            `json:"group"`
	Connected bool              `json:"connected"`
	Paused    []PausedPartition `json:"paused"`
}
