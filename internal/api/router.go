package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/hospital-device-risk/platform-api/docs"
	"github.com/hospital-device-risk/platform-api/internal/api/handler"
	"github.com/hospital-device-risk/platform-api/internal/api/middleware"
	"github.com/hospital-device-risk/platform-api/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(authService ports.AuthService, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(authService)
	authn := middleware.Authenticate(authService)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/manufacturers/login", authHandler.LoginManufacturer)
	e.POST("/auth/manufacturers/register", authHandler.RegisterManufacturer)
	e.GET("/auth/me", authHandler.Me, authn)

	// --- Super-admin routes ---
	admin := e.Group("/admin", authn, middleware.SuperAdminOnly())
	admin.PATCH("/principals/:username/status", adminHandler.SetPrincipalStatus)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
