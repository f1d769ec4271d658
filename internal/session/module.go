package session

import (
	apphttp "funnel_backend/internal/http"
	"funnel_backend/platform/config"
	"funnel_backend/platform/logger"
)

// Module is the session status bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the session module.
func NewModule(provider StatusProvider, cfg config.WhatsAppConfig, log *logger.Logger) *Module {
	return &Module{
		handler: NewHandler(provider, cfg.GetDefaultSessionID(), log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "session"
}

// RegisterRoutes mounts the status polling endpoint. The pairing UI polls it
// before any credentials exist, so it stays outside the API-key guard.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/session/status", m.handler.Status)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
