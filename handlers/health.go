package handlers

import (
	"net/http"

	"github.com/akinalp/realms/pkg"
)

// GatewayStats, ws.Hub'ın sağlık endpoint'inde kullanılan kısmı.
type GatewayStats interface {
	ConnectionCount() int
	ChannelCount() int
}

type HealthHandler struct {
	gateway GatewayStats
}

func NewHealthHandler(gateway GatewayStats) *HealthHandler {
	return &HealthHandler{gateway: gateway}
}

// Check — GET /api/health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"connections": h.gateway.ConnectionCount(),
		"channels":    h.gateway.ChannelCount(),
	})
}
