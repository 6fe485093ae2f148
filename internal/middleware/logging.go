package middleware

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestLogger assigns a request id, recovers panics and writes one log
// entry per request.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			start := time.Now()
			req := c.Request()

			id := req.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set("request_id", id)
			c.Response().Header().Set(RequestIDHeader, id)

			defer func() {
				if r := recover(); r != nil {
					buf := make([]byte, 2048)
					n := runtime.Stack(buf, false)
					log.Error("panic recovered",
						zap.String("request_id", id),
						zap.String("panic", fmt.Sprint(r)),
						zap.ByteString("stack", buf[:n]))
					err = c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
				}
				status := c.Response().Status
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if err != nil && !c.Response().Committed {
					status = http.StatusInternalServerError
				}
				log.Info("request",
					zap.String("request_id", id),
					zap.String("method", req.Method),
					zap.String("path", req.URL.Path),
					zap.Int("status", status),
					zap.Duration("latency", time.Since(start)),
					zap.String("remote_ip", c.RealIP()))
			}()

			return next(c)
		}
	}
}

// RequestID returns the id assigned by RequestLogger.
func RequestID(c echo.Context) string {
	if s, ok := c.Get("request_id").(string); ok {
		return s
	}
	return ""
}
