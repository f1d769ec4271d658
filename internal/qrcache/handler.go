package qrcache

import (
	"net/http"

	"funnel_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// QRResponse is the body of GET /api/qr.
type QRResponse struct {
	Success   bool   `json:"success"`
	HasQR     bool   `json:"hasQR"`
	QR        string `json:"qr,omitempty"`
	QRImage   string `json:"qrImage,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Message   string `json:"message"`
}

// Handler serves the QR polling endpoint used by the pairing UI.
type Handler struct {
	cache *Cache
}

// NewHandler creates the QR handler.
func NewHandler(cache *Cache) *Handler {
	return &Handler{cache: cache}
}

// Get handles GET /api/qr?sessionId=.
func (h *Handler) Get(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		httpkit.Error(c, http.StatusBadRequest, "sessionId query parameter is required", nil)
		return
	}

	entry, ok := h.cache.Get(sessionID)
	if !ok {
		httpkit.OK(c, QRResponse{
			Success: true,
			HasQR:   false,
			Message: "no QR code available for this session",
		})
		return
	}

	httpkit.OK(c, QRResponse{
		Success:   true,
		HasQR:     true,
		QR:        entry.Raw,
		QRImage:   entry.Image,
		Timestamp: entry.CreatedAt.UnixMilli(),
		Message:   "QR code available",
	})
}
