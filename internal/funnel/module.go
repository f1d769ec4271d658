// Package funnel provides the lead-intake funnel bounded context: the state
// machine, the inbound message router and their HTTP surface.
package funnel

import (
	"context"

	"funnel_backend/internal/contacts/repository"
	"funnel_backend/internal/funnel/handler"
	"funnel_backend/internal/funnel/service"
	"funnel_backend/internal/funnel/transport"
	apphttp "funnel_backend/internal/http"
	"funnel_backend/platform/config"
	"funnel_backend/platform/logger"
)

// Module is the funnel bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	dispatcher handler.Dispatcher
}

// NewModule creates and initializes the funnel module. The dispatcher decides
// where processing happens: the queue-backed client in production, the
// in-process fallback when Redis is not configured.
func NewModule(
	repo repository.Repository,
	escalator service.Escalator,
	sender service.Sender,
	dispatcher handler.Dispatcher,
	cfg config.FunnelConfig,
	log *logger.Logger,
) *Module {
	svc := service.New(repo, escalator, sender, cfg, log)
	if dispatcher == nil {
		dispatcher = &goDispatcher{service: svc, log: log}
	}
	h := handler.New(dispatcher, log)

	return &Module{
		handler:    h,
		service:    svc,
		dispatcher: dispatcher,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "funnel"
}

// Service returns the processing core for the queue worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// Dispatcher returns the inbound dispatcher for the webhook ingest path.
func (m *Module) Dispatcher() handler.Dispatcher {
	return m.dispatcher
}

// RegisterRoutes mounts the inbound message route. The provider calls it
// directly, so it stays outside the API-key guard like the original webhook.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.POST("/process-message", m.handler.ProcessMessage)
}

// goDispatcher processes inbound messages on a fresh goroutine when no work
// queue is available. Errors are logged; the HTTP caller already got its 200.
type goDispatcher struct {
	service *service.Service
	log     *logger.Logger
}

func (d *goDispatcher) DispatchInbound(ctx context.Context, msg transport.InboundMessage) error {
	go func() {
		if err := d.service.Process(context.WithoutCancel(ctx), msg); err != nil {
			d.log.Error("inbound processing failed", "from", msg.From, "error", err)
		}
	}()
	return nil
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
