package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/REHANAMD/InternGenie/internal/auth"
	"github.com/REHANAMD/InternGenie/pkg/models"

	"github.com/labstack/echo/v4"
)

const userIDKey = "user_id"

// RequireAuth validates the Bearer token on protected routes and stores the
// authenticated user ID in the request context.
func RequireAuth(manager *auth.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return unauthorized(c, "Missing or malformed Authorization header")
			}

			claims, err := manager.ValidateToken(token)
			if err != nil {
				return unauthorized(c, "Invalid or expired token")
			}

			c.Set(userIDKey, claims.UserID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user ID stored by RequireAuth
func UserID(c echo.Context) int {
	id, _ := c.Get(userIDKey).(int)
	return id
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:     "unauthorized",
		Message:   message,
		RequestID: RequestID(c),
		Timestamp: time.Now(),
	})
}
