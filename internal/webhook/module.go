package webhook

import (
	"funnel_backend/internal/events"
	funnelhandler "funnel_backend/internal/funnel/handler"
	apphttp "funnel_backend/internal/http"
	"funnel_backend/platform/logger"
)

// Module is the webhook ingest module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the webhook module.
func NewModule(relay RelayDispatcher, bus events.Bus, inbound funnelhandler.Dispatcher, log *logger.Logger) *Module {
	return &Module{
		handler: NewHandler(relay, bus, inbound, log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts the provider callback. The provider cannot send
// credentials, so the route stays outside the API-key guard.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.POST("/webhook", m.handler.Receive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
