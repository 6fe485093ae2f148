package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Roles carried in device tokens.
const (
	RoleDevice    = "DEVICE"
	RoleCaregiver = "CAREGIVER"
)

// RequireRole rejects requests whose token role, as stored by DeviceAuth,
// is not one of roles. Requests without any role are rejected too.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
