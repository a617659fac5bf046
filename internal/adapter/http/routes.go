// Package http provides the HTTP handler layer for the decision engine API.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers all API routes. A nil gatherer exposes the
// default prometheus registry on /metrics.
func RegisterRoutes(e *echo.Echo, h *SearchHandler, gatherer prometheus.Gatherer) {
	// Operational endpoints (no version prefix)
	e.GET("/health", h.Health)
	e.GET("/metrics", metricsHandler(gatherer))

	// API v1 group
	api := e.Group("/api/v1")
	api.POST("/search", h.Search)
	api.POST("/explain", h.Explain)
}

func metricsHandler(gatherer prometheus.Gatherer) echo.HandlerFunc {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
