package handlers

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"memberfee_app_echo/internal/auth"
	"memberfee_app_echo/internal/middleware"
	"memberfee_app_echo/internal/models"
	"memberfee_app_echo/internal/services"
	"memberfee_app_echo/web/templates/pages"
)

// Dependencies are the shared resources the routes are built from
type Dependencies struct {
	DB       *gorm.DB
	Sessions *auth.SessionManager
	Throttle services.LoginThrottle
	Logger   *slog.Logger
}

// Register wires every page and API route onto e
func Register(e *echo.Echo, d Dependencies) {
	memberService := services.NewMemberService(d.DB)
	authService := services.NewAuthService(d.DB, d.Throttle, d.Logger)

	authHandler := NewAuthHandler(authService, d.Sessions, d.Logger)
	memberHandler := NewMemberHandler(memberService)
	installmentHandler := NewInstallmentHandler(services.NewInstallmentService(d.DB))
	reportHandler := NewReportHandler(services.NewReportService(d.DB), d.Logger)
	dashboardHandler := NewDashboardHandler(services.NewDashboardService(d.DB))
	portalHandler := NewPortalHandler(services.NewPortalService(d.DB, memberService))
	pageHandler := NewPageHandler()

	e.GET("/healthz", Healthz(d.DB))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Pages, behind the route guard
	e.GET("/", pageHandler.Root)
	e.GET("/login", pageHandler.Login)
	adminDashboard := pageHandler.Section("dashboard", "Dashboard", pages.Section{Heading: "Dashboard", Endpoint: "/api/admin/dashboard", View: "admin-dashboard"})
	memberDashboard := pageHandler.Section("dashboard", "Dashboard", pages.Section{Heading: "My Dashboard", Endpoint: "/api/member/stats", View: "member-dashboard"})
	e.GET("/admin", adminDashboard)
	e.GET("/admin/dashboard", adminDashboard)
	e.GET("/admin/members", pageHandler.Section("members", "Members", pages.Section{Heading: "Members", Endpoint: "/api/admin/members", View: "members"}))
	e.GET("/admin/installments", pageHandler.Section("installments", "Installments", pages.Section{Heading: "Installments", Endpoint: "/api/admin/installments", View: "installments"}))
	e.GET("/admin/reports", pageHandler.Section("reports", "Reports", pages.Section{Heading: "Reports", Endpoint: "/api/admin/reports", View: "reports"}))
	e.GET("/member", memberDashboard)
	e.GET("/member/dashboard", memberDashboard)
	e.GET("/member/payments", pageHandler.Section("payments", "Payments", pages.Section{Heading: "My Payments", Endpoint: "/api/member/payments", View: "payments"}))
	e.GET("/member/profile", pageHandler.Section("profile", "Profile", pages.Section{Heading: "My Profile", Endpoint: "/api/member/profile", View: "profile"}))

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me, middleware.RequireSession(d.Sessions))

	admin := api.Group("/admin", middleware.RequireRole(d.Sessions, models.RoleAdmin))
	admin.GET("/dashboard", dashboardHandler.Overview)
	admin.GET("/members", memberHandler.List)
	admin.POST("/members", memberHandler.Create)
	admin.PUT("/members/:id", memberHandler.Update)
	admin.PATCH("/members/:id/toggle-status", memberHandler.ToggleStatus)
	admin.GET("/members/:id/details", memberHandler.Details)
	admin.GET("/installments", installmentHandler.List)
	admin.POST("/installments", installmentHandler.Create)
	admin.PUT("/installments/:id", installmentHandler.Update)
	admin.DELETE("/installments/:id", installmentHandler.Delete)
	admin.GET("/reports", reportHandler.Report)
	admin.GET("/reports/download", reportHandler.Download)
	admin.POST("/change-password", authHandler.ChangePassword)

	member := api.Group("/member", middleware.RequireRole(d.Sessions, models.RoleMember))
	member.GET("/profile", portalHandler.Profile)
	member.GET("/stats", portalHandler.Stats)
	member.GET("/payments", portalHandler.Payments)
	member.GET("/chart-data", portalHandler.ChartData)
	member.POST("/change-password", authHandler.ChangePassword)
}
