package session

import (
	"context"

	"funnel_backend/platform/httpkit"
	"funnel_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// StatusProvider reports the raw transport state of a chat session.
type StatusProvider interface {
	GetSessionStatus(ctx context.Context, sessionID string) (state string, message string, err error)
}

// StatusResponse is the body of GET /api/session/status.
type StatusResponse struct {
	Success bool   `json:"success"`
	Status  Phase  `json:"status"`
	State   string `json:"state,omitempty"`
	Message string `json:"message,omitempty"`
}

// Handler serves the session status polling endpoint.
type Handler struct {
	provider  StatusProvider
	defaultID string
	log       *logger.Logger
}

// NewHandler creates the session status handler.
func NewHandler(provider StatusProvider, defaultID string, log *logger.Logger) *Handler {
	return &Handler{provider: provider, defaultID: defaultID, log: log}
}

// Status handles GET /api/session/status?sessionId=.
// An unreachable transport resolves to disconnected rather than an error:
// the pairing UI polls this continuously and treats failures as a phase.
func (h *Handler) Status(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		sessionID = h.defaultID
	}

	state, message, err := h.provider.GetSessionStatus(c.Request.Context(), sessionID)
	if err != nil {
		h.log.Warn("session status lookup failed", "session_id", sessionID, "error", err)
		httpkit.OK(c, StatusResponse{
			Success: true,
			Status:  PhaseDisconnected,
			Message: "transport unreachable",
		})
		return
	}

	httpkit.OK(c, StatusResponse{
		Success: true,
		Status:  Resolve(state, message),
		State:   state,
		Message: message,
	})
}
