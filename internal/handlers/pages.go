package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"memberfee_app_echo/internal/middleware"
	"memberfee_app_echo/web/templates/pages"
	"memberfee_app_echo/web/templates/shared"
)

// PageHandler renders the HTML shells. The route guard has already
// decided who may see them.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Root sends anonymous visitors to the login page
func (h *PageHandler) Root(c echo.Context) error {
	return c.Redirect(http.StatusTemporaryRedirect, middleware.LoginPath)
}

// Login renders the login page
func (h *PageHandler) Login(c echo.Context) error {
	return render(c, pages.LoginPage(pages.LoginProps{Error: c.QueryParam("error")}))
}

// Section returns a handler rendering one section page
func (h *PageHandler) Section(activeNav, title string, section pages.Section) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.Session(c)
		if claims == nil {
			return c.Redirect(http.StatusTemporaryRedirect, middleware.LoginPath)
		}

		home := middleware.DashboardFor(claims)
		props := shared.PageProps{
			Title:     title,
			ActiveNav: activeNav,
			Breadcrumbs: []shared.Breadcrumb{
				{Title: "Home", URL: home},
				{Title: title, URL: ""},
			},
			UserName:  claims.Name,
			UserEmail: claims.Email,
			IsAdmin:   claims.IsAdmin(),
		}
		return render(c, pages.SectionPage(props, section))
	}
}

func render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return component.Render(c.Request().Context(), c.Response())
}
