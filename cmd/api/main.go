package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"funnel_backend/internal/contacts"
	"funnel_backend/internal/escalation"
	"funnel_backend/internal/events"
	"funnel_backend/internal/funnel"
	funnelhandler "funnel_backend/internal/funnel/handler"
	apphttp "funnel_backend/internal/http"
	"funnel_backend/internal/http/router"
	"funnel_backend/internal/qrcache"
	"funnel_backend/internal/relay"
	"funnel_backend/internal/scheduler"
	"funnel_backend/internal/session"
	"funnel_backend/internal/webhook"
	"funnel_backend/internal/whatsapp"
	"funnel_backend/platform/config"
	"funnel_backend/platform/db"
	"funnel_backend/platform/logger"
	"funnel_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Queue client: inbound processing and the relay ride the queue when
	// Redis is configured, otherwise both fall back in-process.
	queueClient, closeQueue := initQueueClient(cfg, log)
	if closeQueue != nil {
		defer closeQueue()
	}

	whatsappClient := whatsapp.NewClient(cfg, log)
	forwarder := relay.New(cfg, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	contactsModule := contacts.NewModule(pool, cfg.ContactRetention, val, log)

	board := escalation.NewMondayClient(cfg, log)
	escalationModule := escalation.NewModule(contactsModule.Repository(), board, eventBus, cfg, log)

	var inboundDispatcher funnelhandler.Dispatcher
	if queueClient != nil {
		inboundDispatcher = queueClient
	}
	funnelModule := funnel.NewModule(
		contactsModule.Repository(),
		escalationModule.Service(),
		whatsappClient,
		inboundDispatcher,
		cfg,
		log,
	)

	qrModule := qrcache.NewModule(cfg, log)
	qrModule.RegisterHandlers(eventBus)

	sessionModule := session.NewModule(whatsappClient, cfg, log)

	var relayDispatcher webhook.RelayDispatcher
	if queueClient != nil {
		relayDispatcher = queueClient
	} else {
		relayDispatcher = &goRelayDispatcher{forwarder: forwarder}
	}
	webhookModule := webhook.NewModule(relayDispatcher, eventBus, funnelModule.Dispatcher(), log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			contactsModule,
			funnelModule,
			qrModule,
			sessionModule,
			escalationModule,
			webhookModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: engine}

	g, gctx := errgroup.WithContext(ctx)

	// Queue worker shares the process with the API server.
	if queueClient != nil {
		worker, err := scheduler.NewWorker(cfg, funnelModule.Service(), contactsModule.Service(), forwarder, log)
		if err != nil {
			log.Error("failed to initialize queue worker", "error", err)
			panic("failed to initialize queue worker: " + err.Error())
		}
		g.Go(func() error {
			worker.Run(gctx)
			return nil
		})
		log.Info("queue worker started", "queue", cfg.AsynqQueueName)
	}

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

// goRelayDispatcher forwards on a fresh goroutine when no queue is available.
type goRelayDispatcher struct {
	forwarder *relay.Forwarder
}

func (d *goRelayDispatcher) DispatchRelay(ctx context.Context, payload []byte) error {
	buf := make([]byte, len(payload))
	copy(buf, payload)
	go d.forwarder.Forward(context.WithoutCancel(ctx), buf)
	return nil
}

func initQueueClient(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; processing inbound messages in-process")
		return nil, nil
	}

	queueClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize queue client", "error", err)
		return nil, nil
	}

	return queueClient, func() {
		_ = queueClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("%s: %w", name, lastErr)
}
