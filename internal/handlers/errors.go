package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"memberfee_app_echo/internal/services"
)

// httpError maps a service error to its HTTP status. Client errors carry
// the service message; anything else becomes a 500 whose cause stays in
// Internal for the error handler to log.
func httpError(err error) error {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, services.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err, services.ErrValidation))
	case errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err, services.ErrConflict))
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, clientMessage(err, services.ErrNotFound))
	case errors.Is(err, services.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrTooManyAttempts):
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many failed login attempts, try again later")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
}

// clientMessage drops the sentinel prefix, "conflict: email already exists"
// becomes "email already exists"
func clientMessage(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()+": "); i >= 0 {
		return msg[i+len(sentinel.Error())+2:]
	}
	return msg
}

// bindAndValidate decodes the request body into req and validates it
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}
	return uint(id), nil
}
