// Package webhook ingests provider events: every payload is relayed
// downstream verbatim, session lifecycle events feed the QR cache through
// the event bus, and chat messages enter the funnel pipeline.
package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"funnel_backend/internal/events"
	funnelhandler "funnel_backend/internal/funnel/handler"
	"funnel_backend/internal/funnel/transport"
	"funnel_backend/platform/httpkit"
	"funnel_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// RelayDispatcher hands the raw payload to the relay path. The queue-backed
// client in production, a goroutine fallback otherwise.
type RelayDispatcher interface {
	DispatchRelay(ctx context.Context, payload []byte) error
}

// envelope is the provider event header. Two generations of the provider
// use different field names for the same thing; both are accepted.
type envelope struct {
	Event     string          `json:"event"`
	DataType  string          `json:"dataType"`
	Session   string          `json:"session"`
	SessionID string          `json:"sessionId"`
	Payload   json.RawMessage `json:"payload"`
	Data      json.RawMessage `json:"data"`
}

func (e envelope) eventName() string {
	if e.Event != "" {
		return e.Event
	}
	return e.DataType
}

func (e envelope) session() string {
	if e.Session != "" {
		return e.Session
	}
	if e.SessionID != "" {
		return e.SessionID
	}
	return "default"
}

func (e envelope) body() json.RawMessage {
	if len(e.Payload) > 0 {
		return e.Payload
	}
	return e.Data
}

type qrPayload struct {
	QR string `json:"qr"`
}

type webhookResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	EventType string `json:"eventType,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Handler is the provider webhook endpoint.
type Handler struct {
	relay   RelayDispatcher
	bus     events.Bus
	inbound funnelhandler.Dispatcher
	log     *logger.Logger
}

// NewHandler creates the webhook handler. relay and inbound may be nil.
func NewHandler(relay RelayDispatcher, bus events.Bus, inbound funnelhandler.Dispatcher, log *logger.Logger) *Handler {
	return &Handler{relay: relay, bus: bus, inbound: inbound, log: log}
}

// Receive handles POST /webhook. The provider gets its 200 as soon as the
// payload is parsed and handed off; nothing downstream may block the ack.
func (h *Handler) Receive(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unreadable body", nil)
		return
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "malformed event", nil)
		return
	}

	ctx := c.Request.Context()
	eventName := env.eventName()
	sessionID := env.session()
	h.log.WebhookEvent(eventName, sessionID)

	if h.relay != nil {
		if err := h.relay.DispatchRelay(ctx, raw); err != nil {
			h.log.Warn("relay dispatch failed", "event", eventName, "error", err)
		}
	}

	switch eventName {
	case "qr":
		h.handleQR(ctx, sessionID, env.body())
	case "ready", "authenticated":
		h.bus.Publish(ctx, events.SessionPaired{
			BaseEvent: events.NewBaseEvent(),
			SessionID: sessionID,
			Trigger:   eventName,
		})
	case "disconnected":
		// The QR entry survives a disconnect; the cache subscribes to
		// paired events only.
		h.bus.Publish(ctx, events.SessionDisconnected{
			BaseEvent: events.NewBaseEvent(),
			SessionID: sessionID,
		})
	case "message":
		h.handleMessage(ctx, raw)
	}

	httpkit.OK(c, webhookResponse{
		Success:   true,
		Message:   "event accepted",
		EventType: eventName,
		SessionID: sessionID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleQR(ctx context.Context, sessionID string, body json.RawMessage) {
	if len(body) == 0 {
		return
	}
	var p qrPayload
	if err := json.Unmarshal(body, &p); err != nil || p.QR == "" {
		h.log.Warn("qr event without payload", "session_id", sessionID)
		return
	}
	h.bus.Publish(ctx, events.QRReceived{
		BaseEvent: events.NewBaseEvent(),
		SessionID: sessionID,
		Raw:       p.QR,
	})
}

func (h *Handler) handleMessage(ctx context.Context, raw []byte) {
	if h.inbound == nil {
		return
	}
	msg, source, err := transport.Normalize(raw)
	if err != nil {
		h.log.Warn("inbound message rejected", "source", source, "error", err)
		return
	}
	if err := h.inbound.DispatchInbound(ctx, msg); err != nil {
		h.log.Error("inbound dispatch failed", "from", msg.From, "error", err)
	}
}
