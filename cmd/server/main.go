package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"mergington/internal/activity"
	"mergington/internal/activity/models"
	"mergington/internal/activity/service"
	"mergington/internal/activity/store"
	"mergington/internal/platform/config"
	"mergington/internal/platform/httpserver"
	"mergington/internal/platform/logger"
	"mergington/internal/platform/metrics"
	"mergington/internal/platform/postgres"
	platformredis "mergington/internal/platform/redis"
	httptransport "mergington/internal/transport/http"
	"mergington/pkg/platform/audit/publisher"
	auditkafka "mergington/pkg/platform/audit/publishers/kafka"
	auditmemory "mergington/pkg/platform/audit/store/memory"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the activity packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, closeStore, err := newRegistryStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize registry store: %w", err)
	}
	defer closeStore()

	auditPublisher, closeAudit, err := newAuditPublisher(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize audit publisher: %w", err)
	}
	defer closeAudit()

	m := metrics.New()

	svc := activity.NewService(registry,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAuditPublisher(auditPublisher),
	)

	router := httptransport.NewRouter(activity.NewHandler(svc, log, m))
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting activity service", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}

// newRegistryStore selects the storage backend from configuration, seeds the
// default activities, and returns the store with its cleanup function.
// Postgres wins when both DATABASE_URL and REDIS_URL are set.
func newRegistryStore(ctx context.Context, cfg config.Server, log *slog.Logger) (service.RegistryStore, func(), error) {
	seed := store.Defaults()

	switch {
	case cfg.DatabaseURL != "":
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		s := store.NewPostgres(pool)
		if err := seedStore(ctx, s, seed); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info("using postgres registry store")
		return s, pool.Close, nil

	case cfg.Redis.URL != "":
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		s := store.NewRedis(client.Client, cfg.Redis.KeyPrefix)
		if err := seedStore(ctx, s, seed); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		log.Info("using redis registry store", "key_prefix", cfg.Redis.KeyPrefix)
		return s, func() { _ = client.Close() }, nil

	default:
		s := store.NewInMemory()
		if err := seedStore(ctx, s, seed); err != nil {
			return nil, nil, err
		}
		log.Info("using in-memory registry store")
		return s, func() {}, nil
	}
}

type seeder interface {
	Seed(ctx context.Context, activities []*models.Activity) error
}

func seedStore(ctx context.Context, s seeder, activities []*models.Activity) error {
	if err := s.Seed(ctx, activities); err != nil {
		return fmt.Errorf("seed activities: %w", err)
	}
	return nil
}

// newAuditPublisher builds the audit pipeline: an in-memory store always, a
// Kafka sink when brokers are configured, and async buffering when enabled.
// The cleanup drains the publisher before releasing the sink.
func newAuditPublisher(cfg config.Server, log *slog.Logger) (*publisher.Publisher, func(), error) {
	opts := make([]publisher.Option, 0, 2)

	if cfg.AuditBuffer > 0 {
		opts = append(opts, publisher.WithAsyncBuffer(cfg.AuditBuffer))
	}

	var sink *auditkafka.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		var err error
		sink, err = auditkafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, nil, fmt.Errorf("connect kafka audit sink: %w", err)
		}
		opts = append(opts, publisher.WithSink(sink))
		log.Info("audit events forwarded to kafka", "topic", cfg.Kafka.Topic)
	}

	p := publisher.NewPublisher(auditmemory.NewInMemoryStore(), opts...)
	cleanup := func() {
		p.Close()
		if sink != nil {
			sink.Close()
		}
	}
	return p, cleanup, nil
}
