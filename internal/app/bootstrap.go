package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Gunvolt24/groupclient/config"
	"github.com/Gunvolt24/groupclient/internal/groupclient"
	"github.com/Gunvolt24/groupclient/internal/notifier"
	"github.com/Gunvolt24/groupclient/internal/ports"
	"github.com/Gunvolt24/groupclient/internal/repo/postgres"
	"github.com/Gunvolt24/groupclient/internal/topicmap"
	rest "github.com/Gunvolt24/groupclient/internal/transport/http"
	"github.com/Gunvolt24/groupclient/internal/usecase"
	"github.com/Gunvolt24/groupclient/pkg/logger"
	"github.com/Gunvolt24/groupclient/pkg/metrics"
	"github.com/Gunvolt24/groupclient/pkg/telemetry"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, consumer).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер админки
	Consumer        ports.MessageConsumer // потребитель группы
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}
	fail := func(err error) (*App, Cleanup, error) {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}

	group := cfg.GroupConfig()
	if group.Name == "" || len(group.Topics) == 0 {
		return fail(errors.New("group name and at least one topic are required"))
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	factory, err := newConnectionFactory(cfg.Kafka, logg)
	if err != nil {
		return fail(err)
	}

	// Пул подключений Postgres и миграции.
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DSN:             cfg.Postgres.DSN,
		MaxConns:        cfg.Postgres.MaxConns,
		MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
		MaxConnIdleTime: cfg.Postgres.MaxConnIdleTime,
		PingTimeout:     cfg.Postgres.PingTimeout,
	})
	if err != nil {
		return fail(fmt.Errorf("postgres pool: %w", err))
	}
	if cfg.Postgres.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return fail(err)
		}
	}

	// Трейсинг OTEL (при включённой конфигурации), иначе no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, telemetry.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			Group:       group.Name,
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Клиент группы и прикладной обработчик.
	opts := []groupclient.Option{groupclient.WithReconnectInterval(cfg.Kafka.ReconnectInterval)}
	if cfg.Group.TopicPrefix != "" {
		opts = append(opts, groupclient.WithTopicMapper(topicmap.Prefix{Prefix: cfg.Group.TopicPrefix}))
	}
	client := groupclient.New(group, factory, notifier.NewMonitor(logg), logg, opts...)

	repo := postgres.NewRecordRepository(pool)
	sink := usecase.NewSinkService(client, repo, logg, cfg.Group.ProcessTimeout, cfg.Group.SyncCommit)

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	router := rest.NewRouter(rest.NewHandler(client, logg), otelServiceName)
	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	logg.Infof(ctx, "bootstrap done group=%s topics=%v driver=%s batch=%t",
		group.Name, group.Topics, cfg.Kafka.Driver, group.BatchFetching)

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		Consumer:        sink,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if err := sink.Close(); err != nil {
			logg.Warnf(ctx, "consumer close error: %v", err)
		}

		pool.Close()
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run — запускает HTTP-сервер и потребителя; при отмене ctx или ошибке одного из них
// останавливает оба. Остановка по контексту ошибкой не считается.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Infof(ctx, "consumer starting")
		return a.Consumer.Run(gctx)
	})

	g.Go(func() error {
		a.Logger.Infof(ctx, "http server starting addr=%s", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
		a.shutdown(ctx)
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		a.Logger.Errorf(ctx, "background error: %v", err)
		return err
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}

func (a *App) shutdown(ctx context.Context) {
	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// Остановка потребителя: прерывает текущую выборку.
	if err := a.Consumer.Close(); err != nil {
		a.Logger.Warnf(ctx, "consumer close error: %v", err)
	}
}
