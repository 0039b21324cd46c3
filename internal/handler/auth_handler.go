package handler

import (
	"net/http"

	"marketing-api/internal/model"
	"marketing-api/pkg/database"
	"marketing-api/pkg/jwtutil"
	"marketing-api/pkg/logger"
	"marketing-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates a user by email and password and issues a JWT scoped
// to the user's default tenant and role there.
func Login(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	var user model.User
	if result := database.GetDB().Where("email = ?", req.Email).First(&user); result.Error != nil {
		log.Warn("Login attempt for unknown email", zap.String("email", req.Email))
		prometheus.RecordAuthError("login_failure")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Login attempt with wrong password", zap.String("email", req.Email))
		prometheus.RecordAuthError("login_failure")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// Resolve the user's default tenant membership; fall back to any
	// membership so a user without a default can still log in.
	var membership model.UserTenant
	result := database.GetDB().
		Where("user_id = ?", user.ID).
		Order("is_default DESC, created_at ASC").
		First(&membership)
	if result.Error != nil {
		log.Warn("Login attempt for user without tenant membership", zap.String("user_id", user.ID))
		prometheus.RecordAuthError("no_tenant_membership")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "user does not belong to any tenant"})
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Email, membership.TenantID, membership.Role)
	if err != nil {
		log.Error("Failed to sign token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}

	log.Info("User logged in",
		zap.String("user_id", user.ID),
		zap.String("tenant_id", membership.TenantID),
		zap.String("role", membership.Role))

	return c.JSON(http.StatusOK, echo.Map{
		"token":     token,
		"user_id":   user.ID,
		"tenant_id": membership.TenantID,
		"role":      membership.Role,
	})
}
