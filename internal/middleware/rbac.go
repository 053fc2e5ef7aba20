package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole admits requests whose verified session carries one of roles.
// Install it after JWT; requests without a role answer 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := sessionRole(c)
			if _, ok := allowed[role]; !ok || role == "" {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "staff access required"})
			}
			return next(c)
		}
	}
}

func sessionRole(c echo.Context) string {
	role, _ := c.Get(ContextKeyStaffRole).(string)
	return role
}
