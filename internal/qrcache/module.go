// Package qrcache holds the most recent pairing QR code per session and
// serves it to the pairing UI, pre-rendered as a PNG data URL.
package qrcache

import (
	"context"

	"funnel_backend/internal/events"
	apphttp "funnel_backend/internal/http"
	"funnel_backend/platform/config"
	"funnel_backend/platform/logger"
)

// Module is the QR cache bounded context module implementing http.Module.
type Module struct {
	cache   *Cache
	handler *Handler
	log     *logger.Logger
}

// NewModule creates and initializes the QR cache module.
func NewModule(cfg config.QRConfig, log *logger.Logger) *Module {
	cache := New(cfg, log)
	return &Module{
		cache:   cache,
		handler: NewHandler(cache),
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "qrcache"
}

// Cache returns the underlying cache, for modules that feed it directly.
func (m *Module) Cache() *Cache {
	return m.cache
}

// RegisterRoutes mounts the QR polling endpoint. The pairing UI polls it
// before any credentials exist, so it stays outside the API-key guard.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/qr", m.handler.Get)
}

// RegisterHandlers subscribes the cache to session lifecycle events.
// A disconnect keeps the entry: the code may still pair on reconnect.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.QRReceived{}.EventName(), events.HandlerFunc(m.onQRReceived))
	bus.Subscribe(events.SessionPaired{}.EventName(), events.HandlerFunc(m.onSessionPaired))
}

func (m *Module) onQRReceived(_ context.Context, event events.Event) error {
	e, ok := event.(events.QRReceived)
	if !ok {
		return nil
	}
	m.cache.Put(e.SessionID, e.Raw)
	return nil
}

func (m *Module) onSessionPaired(_ context.Context, event events.Event) error {
	e, ok := event.(events.SessionPaired)
	if !ok {
		return nil
	}
	m.cache.Clear(e.SessionID)
	m.log.Info("qr cache cleared after pairing", "session_id", e.SessionID, "trigger", e.Trigger)
	return nil
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
