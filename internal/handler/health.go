package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Liveness is the probe for load balancers and orchestrators. It answers
// "ok" whenever the process serves HTTP, independent of model state; use
// /health for the model status.
func Liveness(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
