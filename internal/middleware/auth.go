package middleware

import (
	"net/http"
	"strings"

	"marketing-api/pkg/jwtutil"
	"marketing-api/pkg/logger"
	"marketing-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const authContextKey = "auth"

// AuthContext carries the verified caller identity. It is attached once by
// AuthMiddleware and read-only for downstream handlers.
type AuthContext struct {
	UserID   string
	TenantID string
	Role     string
}

// AuthMiddleware validates the JWT token from the Authorization header and
// attaches the caller's AuthContext. Requests without a complete tenant
// identity never reach a handler.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Error("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Error("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		if claims.Subject == "" || claims.TenantID == "" || claims.Role == "" {
			log.Error("Token is missing required claims")
			prometheus.RecordAuthError("incomplete_claims")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is missing required claims"})
		}

		auth := AuthContext{
			UserID:   claims.Subject,
			TenantID: claims.TenantID,
			Role:     claims.Role,
		}
		SetAuthContext(c, auth)

		log.Debug("Request authenticated",
			zap.String("user_id", auth.UserID),
			zap.String("tenant_id", auth.TenantID),
			zap.String("role", auth.Role))

		return next(c)
	}
}

// SetAuthContext attaches a caller identity to the request
func SetAuthContext(c echo.Context, auth AuthContext) {
	c.Set(authContextKey, auth)
}

// GetAuthContext returns the caller identity set by AuthMiddleware
func GetAuthContext(c echo.Context) (AuthContext, bool) {
	auth, ok := c.Get(authContextKey).(AuthContext)
	return auth, ok
}
