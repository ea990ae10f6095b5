package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/timetracer/timetracer-api/docs"
	"github.com/timetracer/timetracer-api/internal/api/handler"
	"github.com/timetracer/timetracer-api/internal/api/middleware"
	"github.com/timetracer/timetracer-api/internal/core/ports"
	"github.com/timetracer/timetracer-api/internal/infrastructure/config"
)

// Services groups the core services the router exposes over HTTP.
type Services struct {
	Auth    ports.AuthService
	Users   ports.UserService
	Entries ports.TimeEntryService
	Revoker ports.TokenRevoker
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, svcs Services, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("timetracer"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svcs.Auth)
	userHandler := handler.NewUserHandler(svcs.Users)
	entryHandler := handler.NewTimeEntryHandler(svcs.Entries)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	requireAuth := middleware.Auth(cfg.JWTSecret, svcs.Revoker)

	// --- Public routes ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	api := e.Group("/api")
	api.GET("/health", healthHandler.Liveness)
	api.GET("/health/ready", readinessHandler.Readiness)
	api.POST("/auth/login", authHandler.Login)

	// --- Authenticated routes ---
	auth := api.Group("/auth", requireAuth)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me)

	users := api.Group("/users", requireAuth)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	entries := api.Group("/time-entries", requireAuth)
	entries.GET("", entryHandler.List)
	entries.POST("", entryHandler.Submit)
	entries.PUT("/:id", entryHandler.Update)
	entries.DELETE("/:id", entryHandler.Delete)

	return e
}
