package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler handles GET /health, the liveness check.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Dependency is one backing service checked by the readiness check.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthDependenciesHandler handles GET /health/ready, the readiness check.
// Every configured dependency must answer its ping before the service is ready.
type HealthDependenciesHandler struct {
	deps []Dependency
}

func NewHealthDependenciesHandler(deps ...Dependency) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{deps: deps}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.deps))
	healthy := true

	for _, d := range h.deps {
		if err := d.Ping(ctx); err != nil {
			deps[d.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[d.Name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
