package router // package router wires handlers and middleware onto the echo instance

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-medicine-box/internal/handler"
	"github.com/iliyamo/smart-medicine-box/internal/middleware"
)

// Options configures the middleware in front of POST /predict.
type Options struct {
	// DeviceJWTSecret enables bearer auth when non-empty.
	DeviceJWTSecret string
	// RateLimiter runs after authentication so keys can include the
	// device id. Nil disables rate limiting.
	RateLimiter echo.MiddlewareFunc
}

// RegisterRoutes registers the public metadata endpoints and the
// prediction endpoint. Route names double as endpoint names in /routes.
func RegisterRoutes(e *echo.Echo, h *handler.PredictionHandler, opts Options) {
	e.GET("/", h.Root).Name = "root"
	e.GET("/health", h.Health).Name = "health"
	e.GET("/routes", h.Routes).Name = "list_routes"
	e.GET("/healthz", handler.Liveness).Name = "liveness"

	var mw []echo.MiddlewareFunc
	if opts.DeviceJWTSecret != "" {
		mw = append(mw,
			middleware.DeviceAuth(opts.DeviceJWTSecret),
			middleware.RequireRole(middleware.RoleDevice, middleware.RoleCaregiver),
		)
	}
	if opts.RateLimiter != nil {
		mw = append(mw, opts.RateLimiter)
	}
	e.POST("/predict", h.Predict, mw...).Name = "predict"
}
