package relay

import (
	"errors"
	"net/http"

	"github.com/BerylCAtieno/sales-opener-agent/internal/models"
	"github.com/gin-gonic/gin"
)

// Handler exposes the relay over HTTP. A nil relay answers /chat with 503.
type Handler struct {
	relay *Relay
}

func NewHandler(relay *Relay) *Handler {
	return &Handler{relay: relay}
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Chat(c *gin.Context) {
	if h.relay == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "chat relay is not configured"})
		return
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	resp, err := h.relay.Chat(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		c.JSON(statusFor(err), gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownThread):
		return http.StatusNotFound
	case errors.Is(err, ErrRunTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
