package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"memberfee_app_echo/web/templates/pages"
	"memberfee_app_echo/web/templates/shared"
)

const genericMessage = "Something went wrong. Please try again later."

// NewErrorHandler creates the echo error handler. API paths get a JSON
// {"error": message} body; pages get a rendered error page. Causes of 5xx
// responses are logged and never sent to the client.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		errorTitle := "Internal Server Error"
		errorMessage := ""

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if msg, ok := he.Message.(string); ok && msg != "" {
				errorMessage = msg
			}
		}

		switch code {
		case http.StatusNotFound:
			errorTitle = "Page Not Found"
			if errorMessage == "" || errorMessage == http.StatusText(code) {
				errorMessage = "The page you're looking for doesn't exist."
			}
		case http.StatusForbidden:
			errorTitle = "Access Denied"
			if errorMessage == "" {
				errorMessage = "You don't have permission to access this resource."
			}
		case http.StatusUnauthorized:
			errorTitle = "Unauthorized"
			if errorMessage == "" {
				errorMessage = "Please log in to continue."
			}
		case http.StatusBadRequest:
			errorTitle = "Bad Request"
			if errorMessage == "" {
				errorMessage = "The request could not be processed."
			}
		case http.StatusTooManyRequests:
			errorTitle = "Too Many Requests"
			if errorMessage == "" {
				errorMessage = "Too many attempts. Please try again later."
			}
		default:
			if code >= http.StatusInternalServerError {
				errorMessage = genericMessage
			} else if errorMessage == "" {
				errorMessage = http.StatusText(code)
			}
		}

		req := c.Request()
		attrs := []any{
			slog.Int("status", code),
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			slog.Any("error", err),
		}
		if he != nil && he.Internal != nil {
			attrs = append(attrs, slog.Any("cause", he.Internal))
		}
		if code >= http.StatusInternalServerError {
			logger.ErrorContext(req.Context(), "request failed", attrs...)
		} else {
			logger.DebugContext(req.Context(), "request rejected", attrs...)
		}

		path := req.URL.Path
		if strings.HasPrefix(path, "/api/") || req.Method == http.MethodHead {
			if req.Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, map[string]string{"error": errorMessage})
			}
			if err != nil {
				logger.ErrorContext(req.Context(), "write error response", slog.Any("error", err))
			}
			return
		}

		props := pages.ErrorPageProps{
			PageProps: shared.PageProps{
				Title: errorTitle,
				Breadcrumbs: []shared.Breadcrumb{
					{Title: "Home", URL: "/"},
					{Title: "Error", URL: ""},
				},
			},
			ErrorTitle:   errorTitle,
			ErrorMessage: errorMessage,
		}

		claims := Session(c)
		page := pages.PublicErrorPage(props)
		if claims != nil {
			props.UserName = claims.Name
			props.UserEmail = claims.Email
			props.IsAdmin = claims.IsAdmin()
			props.BackLink = DashboardFor(claims)
			props.BackText = "Back to dashboard"
			page = pages.ErrorPage(props)
		}

		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		c.Response().WriteHeader(code)
		if renderErr := page.Render(req.Context(), c.Response()); renderErr != nil {
			logger.ErrorContext(req.Context(), "render error page", slog.Any("error", fmt.Errorf("failed to render error page: %w", renderErr)))
			_ = c.String(code, errorMessage)
		}
	}
}
