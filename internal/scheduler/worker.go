package scheduler

import (
	"context"
	"fmt"

	contactsservice "funnel_backend/internal/contacts/service"
	funnelservice "funnel_backend/internal/funnel/service"
	"funnel_backend/internal/relay"
	"funnel_backend/platform/config"
	"funnel_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes queued funnel, relay and housekeeping tasks.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	funnel    *funnelservice.Service
	contacts  *contactsservice.Service
	forwarder *relay.Forwarder
	log       *logger.Logger
}

func NewWorker(
	cfg config.SchedulerConfig,
	funnel *funnelservice.Service,
	contacts *contactsservice.Service,
	forwarder *relay.Forwarder,
	log *logger.Logger,
) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		funnel:    funnel,
		contacts:  contacts,
		forwarder: forwarder,
		log:       log,
	}

	mux.HandleFunc(TaskProcessInbound, w.handleProcessInbound)
	mux.HandleFunc(TaskRelayForward, w.handleRelayForward)
	mux.HandleFunc(TaskContactsClean, w.handleContactsClean)

	return w, nil
}

func (w *Worker) handleProcessInbound(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseProcessInboundPayload(task)
	if err != nil {
		return err
	}
	return w.funnel.Process(ctx, payload.Message)
}

func (w *Worker) handleRelayForward(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRelayForwardPayload(task)
	if err != nil {
		return err
	}
	w.forwarder.Forward(ctx, payload.Raw)
	return nil
}

func (w *Worker) handleContactsClean(ctx context.Context, task *asynq.Task) error {
	if _, err := ParseContactsCleanPayload(task); err != nil {
		return err
	}

	phones, err := w.contacts.CleanupStale(ctx)
	if err != nil {
		return err
	}
	w.log.Info("stale contacts removed", "count", len(phones))
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
