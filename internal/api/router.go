package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/animecatalog/catalog-api/docs"
	"github.com/animecatalog/catalog-api/internal/api/handler"
	"github.com/animecatalog/catalog-api/internal/api/middleware"
	"github.com/animecatalog/catalog-api/internal/core/domain"
	"github.com/animecatalog/catalog-api/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Logger  zerolog.Logger
	Catalog ports.CatalogService
	Auth    ports.AuthService
	// Health lists the backing services checked by /health/ready.
	Health []handler.Dependency
	// Registry receives the HTTP request metrics and backs /metrics.
	// Nil uses the default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "catalog",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	entryHandler := handler.NewEntryHandler(deps.Catalog, deps.Logger)
	authHandler := handler.NewAuthHandler(deps.Auth)
	authMiddleware := middleware.Auth(deps.Auth)
	requireUser := middleware.RBAC(domain.RoleUser)
	requireAdmin := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/token", authHandler.Token, authMiddleware)

	// --- Catalog routes ---
	items := e.Group("/items", authMiddleware)
	items.GET("", entryHandler.List, requireUser)
	items.GET("/all", entryHandler.All, requireUser)
	items.GET("/find", entryHandler.Find, requireUser)
	items.GET("/by-id/:id", entryHandler.GetWithPrincipal, requireUser)
	items.GET("/:id", entryHandler.Get, requireUser)

	items.POST("", entryHandler.Create, requireAdmin)
	items.PUT("", entryHandler.Replace, requireAdmin)
	items.DELETE("/:id", entryHandler.Delete, requireAdmin)

	// Legacy admin-prefixed paths.
	items.POST("/admin", entryHandler.Create, requireAdmin)
	items.PUT("/admin", entryHandler.Replace, requireAdmin)
	items.DELETE("/admin/:id", entryHandler.Delete, requireAdmin)

	// --- Health checks (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Health...)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogRequestID: true,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Msg("request")
			return nil
		},
	})
}
