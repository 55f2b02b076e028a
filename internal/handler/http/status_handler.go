package http

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"
	"github.com/yokitheyo/coverart/internal/domain"
	"github.com/yokitheyo/coverart/internal/dto"
)

// StatusHandler exposes the latest pipeline status for the presentation
// layer to render.
type StatusHandler struct {
	status domain.StatusService
}

func NewStatusHandler(status domain.StatusService) *StatusHandler {
	return &StatusHandler{status: status}
}

func (h *StatusHandler) RegisterRoutes(engine *ginext.Engine) {
	engine.GET("/status", h.GetStatus)
}

// GetStatus GET /status
func (h *StatusHandler) GetStatus(c *ginext.Context) {
	c.JSON(http.StatusOK, dto.MapStatusToResponse(h.status.Snapshot()))
}
