package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/civicvoice/civicvoice-api/internal/api/handler"
	"github.com/civicvoice/civicvoice-api/internal/api/middleware"
	"github.com/civicvoice/civicvoice-api/internal/core/domain"
	"github.com/civicvoice/civicvoice-api/internal/core/ports"
	"github.com/civicvoice/civicvoice-api/internal/core/service"
	"github.com/civicvoice/civicvoice-api/internal/infrastructure/config"
	"github.com/civicvoice/civicvoice-api/internal/infrastructure/db/postgres"
)

// NewRouter builds the Echo instance with every route registered.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, mailer ports.MailDispatcher, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("civicvoice"))

	// --- Repositories ---
	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	tokenRepo := postgres.NewResetTokenRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)

	// --- Services ---
	sessionService := service.NewSessionService(sessionRepo, cfg.Session.TTL, cfg.Session.RememberTTL, log)
	authService := service.NewAuthService(userRepo, reportRepo, sessionService, cfg.Password.MinLength, cfg.Password.BcryptCost, log)
	resetService := service.NewResetService(userRepo, tokenRepo, mailer, cfg.Password.MinLength, cfg.Password.BcryptCost, log)
	reportService := service.NewReportService(reportRepo, log)

	// --- Handlers ---
	cookies := handler.NewSessionCookies(cfg.Session.CookieName)
	authHandler := handler.NewAuthHandler(authService, sessionService, cookies)
	resetHandler := handler.NewResetHandler(resetService)
	reportHandler := handler.NewReportHandler(reportService, cfg.Upload.Dir, cfg.Upload.MaxSizeBytes)
	profileHandler := handler.NewProfileHandler(authService, reportService)
	adminHandler := handler.NewAdminHandler(authService)
	healthHandler := handler.NewHealthHandler(pool)

	// Session restore runs on every route; guards below decide per-route.
	e.Use(middleware.Session(sessionService, cfg.Session.CookieName))

	authed := middleware.RequireAuthenticated()
	staff := middleware.RequireRole(domain.RoleAuthority, domain.RoleAdmin)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth & password reset ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.POST("/auth/password/forgot", resetHandler.Forgot)
	e.POST("/auth/password/verify", resetHandler.VerifyOTP)
	e.POST("/auth/password/reset", resetHandler.Reset)

	// --- Profile ---
	e.GET("/profile", profileHandler.Me, authed)
	e.PUT("/profile", profileHandler.UpdateMe, authed)
	e.GET("/profile/stats", profileHandler.MyStats, authed)

	// --- Reports ---
	e.POST("/reports", reportHandler.Create, authed)
	e.GET("/reports", reportHandler.List, authed)
	e.GET("/reports/stats", reportHandler.Stats, authed)
	e.GET("/reports/export", reportHandler.Export, authed)
	e.GET("/reports/:id", reportHandler.Get, authed)
	e.GET("/reports/:id/history", reportHandler.History, authed)
	e.PUT("/reports/:id/status", reportHandler.UpdateStatus, authed, staff)

	// --- Admin ---
	e.GET("/admin/users", adminHandler.ListUsers, authed, adminOnly)
	e.POST("/admin/authorities", adminHandler.CreateAuthority, authed, adminOnly)
	e.DELETE("/admin/authorities/:id", adminHandler.RemoveAuthority, authed, adminOnly)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	return e
}
