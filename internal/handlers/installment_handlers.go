package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"memberfee_app_echo/internal/models"
	"memberfee_app_echo/internal/services"
)

// InstallmentHandler serves the admin installment endpoints
type InstallmentHandler struct {
	installments *services.InstallmentService
}

func NewInstallmentHandler(installments *services.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{installments: installments}
}

// List returns installments, optionally narrowed by memberId and month
func (h *InstallmentHandler) List(c echo.Context) error {
	var q services.InstallmentQuery
	if s := c.QueryParam("memberId"); s != "" {
		id, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "memberId must be a number")
		}
		q.MemberID = uint(id)
	}
	if m := c.QueryParam("month"); m != "" {
		if !models.ValidMonth(m) {
			return echo.NewHTTPError(http.StatusBadRequest, "month must be in YYYY-MM format")
		}
		q.Month = m
	}

	installments, err := h.installments.List(c.Request().Context(), q)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, installments)
}

// Create records an installment
func (h *InstallmentHandler) Create(c echo.Context) error {
	in, err := h.input(c)
	if err != nil {
		return err
	}
	inst, err := h.installments.Create(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, inst)
}

// Update rewrites an installment
func (h *InstallmentHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	in, err := h.input(c)
	if err != nil {
		return err
	}
	inst, err := h.installments.Update(c.Request().Context(), id, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, inst)
}

// Delete removes an installment
func (h *InstallmentHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.installments.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Installment deleted successfully"})
}

func (h *InstallmentHandler) input(c echo.Context) (services.InstallmentInput, error) {
	var req InstallmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return services.InstallmentInput{}, err
	}

	amount, err := req.Amount.Float64()
	if err != nil || math.IsInf(amount, 0) {
		return services.InstallmentInput{}, echo.NewHTTPError(http.StatusBadRequest, "amount must be a number")
	}

	in := services.InstallmentInput{MemberID: req.MemberID, Month: req.Month, Amount: amount}
	if req.PaymentDate != "" {
		t, err := parseDate(req.PaymentDate)
		if err != nil {
			return services.InstallmentInput{}, echo.NewHTTPError(http.StatusBadRequest, "paymentDate must be YYYY-MM-DD or RFC 3339")
		}
		in.PaymentDate = &t
	}
	return in, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
