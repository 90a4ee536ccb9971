// Пакет groupclient — клиент одной consumer group: владеет соединением с брокером,
// крутит цикл выборки и применяет политики устойчивости (переподключение,
// пауза партиций с backoff, отметка и коммит оффсетов, heartbeat).
package groupclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/groupclient/internal/domain"
	"github.com/Gunvolt24/groupclient/internal/ports"
	"github.com/Gunvolt24/groupclient/internal/topicmap"
)

// source — имя компонента для ErrorNotifier.
const source = "groupclient.Client"

// DefaultReconnectInterval — фиксированная пауза между попытками подключения.
const DefaultReconnectInterval = 5 * time.Second

var (
	_ ports.GroupConsumer  = (*Client)(nil)
	_ ports.StatusReporter = (*Client)(nil)
)

// Callback — прикладной обработчик элемента доставки.
type Callback = func(ctx context.Context, item domain.Item) error

// Option — необязательная настройка клиента.
type Option func(*Client)

// WithTopicMapper — подмена перевода имён топиков (по умолчанию topicmap.Identity).
func WithTopicMapper(m ports.TopicMapper) Option {
	return func(c *Client) {
		if m != nil {
			c.mapper = m
		}
	}
}

// WithReconnectInterval — пауза между попытками подключения.
func WithReconnectInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.reconnectInterval = d
		}
	}
}

// WithTracer — трейсер для спанов доставки.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// Client — оркестратор группы. Соединение создаётся лениво и живёт до Stop.
//
// Цикл выборки и колбэк выполняются в одной горутине; Stop и Status можно
// вызывать из любой.
type Client struct {
	group    domain.GroupConfig
	factory  ports.ConnectionFactory
	notifier ports.ErrorNotifier
	log      ports.Logger
	mapper   ports.TopicMapper
	tracer   trace.Tracer
	pauses   *PauseController

	reconnectInterval time.Duration
	retryTimer        backoff.Timer // nil — таймер по умолчанию

	mu   sync.Mutex
	conn ports.Connection
}

// New — конструктор. Подключение не выполняется.
func New(
	group domain.GroupConfig,
	factory ports.ConnectionFactory,
	notifier ports.ErrorNotifier,
	log ports.Logger,
	opts ...Option,
) *Client {
	c := &Client{
		group:             group,
		factory:           factory,
		notifier:          notifier,
		log:               log,
		mapper:            topicmap.Identity{},
		tracer:            otel.Tracer("github.com/Gunvolt24/groupclient"),
		pauses:            NewPauseController(group),
		reconnectInterval: DefaultReconnectInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Group — конфигурация группы клиента.
func (c *Client) Group() domain.GroupConfig { return c.group }

// Stop — останавливает соединение (ровно один раз) и забывает его.
// Без соединения ничего не делает. Заблокированная выборка завершается.
func (c *Client) Stop() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	if err := conn.Stop(); err != nil {
		return fmt.Errorf("stop connection: %w", err)
	}
	c.log.Infof(context.Background(), "connection stopped group=%s", c.group.Name)
	return nil
}

// Status — снимок состояния для административного API.
func (c *Client) Status() domain.ClientStatus {
	c.mu.Lock()
	connected := c.conn != nil
	c.mu.Unlock()

	return domain.ClientStatus{
		Group:     c.group.Name,
		Connected: connected,
		Paused:    c.pauses.Snapshot(),
	}
}
