package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"memberfee_app_echo/internal/services"
)

// MemberHandler serves the admin member endpoints
type MemberHandler struct {
	members *services.MemberService
}

func NewMemberHandler(members *services.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// List returns all members with their derived totals
func (h *MemberHandler) List(c echo.Context) error {
	members, err := h.members.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, members)
}

// Create registers a member
func (h *MemberHandler) Create(c echo.Context) error {
	var req MemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Password) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "password is required")
	}

	member, err := h.members.Create(c.Request().Context(), services.CreateMemberInput{
		Name:         req.Name,
		Email:        req.Email,
		MembershipID: req.MembershipID,
		Password:     req.Password,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, member)
}

// Update edits a member. An empty password keeps the current one.
func (h *MemberHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req MemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := services.UpdateMemberInput{
		Name:         req.Name,
		Email:        req.Email,
		MembershipID: req.MembershipID,
		Active:       req.Active,
	}
	if req.Password != "" {
		in.Password = &req.Password
	}
	if _, err := h.members.Update(c.Request().Context(), id, in); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Member updated successfully"})
}

// ToggleStatus flips the active flag
func (h *MemberHandler) ToggleStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	member, err := h.members.ToggleStatus(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, member)
}

// Details returns a member with its installments
func (h *MemberHandler) Details(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	details, err := h.members.Details(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, details)
}
