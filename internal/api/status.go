package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/citegraph/internal/service"
)

// StatusHandler reports crawl progress.
type StatusHandler struct {
	progress *service.Progress
}

// NewStatusHandler creates a StatusHandler. A nil tracker reports an idle crawl.
func NewStatusHandler(progress *service.Progress) *StatusHandler {
	return &StatusHandler{progress: progress}
}

// Get handles GET /status.
func (h *StatusHandler) Get(c *gin.Context) {
	if h.progress == nil {
		c.JSON(http.StatusOK, service.ProgressState{State: service.StateIdle})
		return
	}

	c.JSON(http.StatusOK, h.progress.Snapshot())
}
