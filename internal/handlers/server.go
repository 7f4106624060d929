package handlers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"memberfee_app_echo/internal/middleware"
)

// NewServer builds the echo instance with middleware, error handling and routes
func NewServer(d Dependencies, staticDir string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = middleware.NewErrorHandler(d.Logger)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomw.Recover())
	e.Use(middleware.Metrics())
	e.Use(middleware.RouteGuard(d.Sessions))

	if staticDir != "" {
		e.Static("/static", staticDir)
	}

	Register(e, d)
	return e
}
