package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionStopped — операция над уже остановленным соединением.
	ErrConnectionStopped = errors.New("connection stopped")
	// ErrNoActiveSession — у соединения нет активной сессии группы (до ребаланса или после него).
	ErrNoActiveSession = errors.New("no active group session")
)

// ErrorKind — класс ошибки для цикла выборки.
type ErrorKind int

const (
	UnclassifiedFailure ErrorKind = iota
	ProcessingFailure
	ConnectionFailure
)

func (k ErrorKind) String() string {
	switch k {
	case ProcessingFailure:
		return "processing"
	case ConnectionFailure:
		return "connection"
	default:
		return "unclassified"
	}
}

// ProcessingError — сбой обработки конкретной записи (topic, partition).
// Err — исходная причина из прикладного кода.
type ProcessingError struct {
	Topic     string
	Partition int32
	Offset    int64
	Err       error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing error: topic=%s partition=%d offset=%d: %v",
		e.Topic, e.Partition, e.Offset, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// ConnectionError — сбой установления соединения с брокером.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: op=%s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Classify — определяет класс ошибки. ProcessingError имеет приоритет,
// даже если внутри неё завёрнута ошибка соединения.
func Classify(err error) ErrorKind {
	if err == nil {
		return UnclassifiedFailure
	}
	var perr *ProcessingError
	if errors.As(err, &perr) {
		return ProcessingFailure
	}
	var cerr *ConnectionError
	if errors.As(err, &cerr) {
		return ConnectionFailure
	}
	return UnclassifiedFailure
}
