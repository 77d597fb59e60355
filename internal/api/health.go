package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/citegraph/internal/service"
	"github.com/persistorai/citegraph/internal/ws"
)

// Error codes used in JSON error bodies.
const (
	ErrCodeNotFound = "not_found"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	progress  *service.Progress
	hub       *ws.Hub
	version   string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler. progress and hub may be nil.
func NewHealthHandler(progress *service.Progress, hub *ws.Hub, version string) *HealthHandler {
	return &HealthHandler{
		progress:  progress,
		hub:       hub,
		version:   version,
		startTime: time.Now(),
	}
}

// healthResponse is the JSON payload returned by the liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Crawl         string  `json:"crawl"`
	StreamClients int     `json:"stream_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /health.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Crawl:         service.StateIdle,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if h.progress != nil {
		resp.Crawl = h.progress.Snapshot().State
	}
	if h.hub != nil {
		resp.StreamClients = h.hub.ClientCount()
	}

	c.JSON(http.StatusOK, resp)
}
