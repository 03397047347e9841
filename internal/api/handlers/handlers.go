package handlers

import (
	"time"

	"github.com/REHANAMD/InternGenie/internal/api/middleware"
	"github.com/REHANAMD/InternGenie/pkg/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// authedUserID returns the user ID stored by the auth middleware
func authedUserID(c echo.Context) int {
	return middleware.UserID(c)
}

// errorJSON writes the standard error envelope
func errorJSON(c echo.Context, status int, code, message string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: middleware.RequestID(c),
		Timestamp: time.Now(),
	})
}
