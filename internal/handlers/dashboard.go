package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"memberfee_app_echo/internal/services"
)

// DashboardHandler handles the admin overview endpoint
type DashboardHandler struct {
	dashboard *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Overview returns the admin dashboard numbers
func (h *DashboardHandler) Overview(c echo.Context) error {
	overview, err := h.dashboard.Overview(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, overview)
}
