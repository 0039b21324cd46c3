package middleware

import (
	"net/http"

	"marketing-api/pkg/logger"
	"marketing-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequireRoles gates a route to an allow-list of tenant roles. It must run
// after AuthMiddleware; a request with a valid token but a role outside the
// list is rejected with 403.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			auth, ok := GetAuthContext(c)
			if !ok {
				log.Error("Role gate reached without auth context")
				prometheus.RecordAuthError("missing_auth_context")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			if !allowed[auth.Role] {
				log.Warn("Role not permitted for this route",
					zap.String("role", auth.Role),
					zap.String("path", c.Path()))
				prometheus.RecordAuthError("role_denied")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient role for this operation"})
			}

			return next(c)
		}
	}
}
