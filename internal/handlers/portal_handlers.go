package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"memberfee_app_echo/internal/middleware"
	"memberfee_app_echo/internal/services"
)

// PortalHandler serves the member self-service endpoints. Every response
// is scoped to the session user.
type PortalHandler struct {
	portal *services.PortalService
}

func NewPortalHandler(portal *services.PortalService) *PortalHandler {
	return &PortalHandler{portal: portal}
}

func (h *PortalHandler) Profile(c echo.Context) error {
	member, err := h.portal.Profile(c.Request().Context(), middleware.Session(c).UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, member)
}

func (h *PortalHandler) Stats(c echo.Context) error {
	stats, err := h.portal.Stats(c.Request().Context(), middleware.Session(c).UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *PortalHandler) Payments(c echo.Context) error {
	payments, err := h.portal.Payments(c.Request().Context(), middleware.Session(c).UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *PortalHandler) ChartData(c echo.Context) error {
	data, err := h.portal.ChartData(c.Request().Context(), middleware.Session(c).UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, data)
}
