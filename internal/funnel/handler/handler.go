// Package handler exposes the inbound message endpoint of the funnel.
package handler

import (
	"context"
	"io"
	"net/http"

	"funnel_backend/internal/funnel/transport"
	"funnel_backend/platform/httpkit"
	"funnel_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Dispatcher hands a normalized inbound message off for background
// processing. Satisfied by the scheduler client (queued) or the in-process
// fallback dispatcher.
type Dispatcher interface {
	DispatchInbound(ctx context.Context, msg transport.InboundMessage) error
}

// Handler serves POST /api/process-message.
type Handler struct {
	dispatcher Dispatcher
	log        *logger.Logger
}

// New creates the funnel handler.
func New(dispatcher Dispatcher, log *logger.Logger) *Handler {
	return &Handler{dispatcher: dispatcher, log: log}
}

// ProcessMessage accepts both wire shapes, normalizes them and responds
// immediately after the event is queued. The reply send happens in the
// background so the webhook caller is never blocked on the transport.
func (h *Handler) ProcessMessage(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unreadable request body", nil)
		return
	}

	msg, source, err := transport.Normalize(raw)
	if httpkit.HandleError(c, err) {
		return
	}

	h.log.Info("inbound message accepted",
		"source", source, "from", msg.From, "type", msg.Kind, "session", msg.SessionID)

	if err := h.dispatcher.DispatchInbound(c.Request.Context(), msg); err != nil {
		h.log.Error("inbound dispatch failed", "from", msg.From, "error", err)
		httpkit.Error(c, http.StatusServiceUnavailable, "failed to queue message", nil)
		return
	}

	httpkit.OK(c, transport.AcceptedResponse{
		Success: true,
		Source:  source,
		From:    msg.From,
		Name:    msg.Name,
		Type:    msg.Kind,
	})
}
