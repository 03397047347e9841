package handlers

import (
	"errors"
	"net/http"

	"github.com/REHANAMD/InternGenie/internal/auth"
	"github.com/REHANAMD/InternGenie/internal/logging"
	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/models"

	"github.com/labstack/echo/v4"
)

// RegisterHandler handles new candidate signups
func RegisterHandler(manager *auth.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()

		var req models.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "validation_failed", err.Error())
		}

		user, token, expiresAt, err := manager.Register(c.Request().Context(), &req)
		if err != nil {
			if errors.Is(err, auth.ErrEmailTaken) {
				return errorJSON(c, http.StatusConflict, "email_taken", "An account with this email already exists")
			}
			logger.Error("Registration failed", map[string]interface{}{"error": err.Error()})
			return errorJSON(c, http.StatusInternalServerError, "registration_failed", "Could not create the account")
		}

		logger.Info("Candidate registered", map[string]interface{}{"user_id": user.ID})
		return c.JSON(http.StatusCreated, models.AuthResponse{
			Success:   true,
			Token:     token,
			ExpiresAt: expiresAt,
			User:      user,
		})
	}
}

// LoginHandler handles candidate logins with per-IP rate limiting
func LoginHandler(manager *auth.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()

		if !manager.AllowLogin(c.RealIP()) {
			return errorJSON(c, http.StatusTooManyRequests, "rate_limited", "Too many login attempts, try again later")
		}

		var req models.LoginRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "validation_failed", err.Error())
		}

		user, token, expiresAt, err := manager.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return errorJSON(c, http.StatusUnauthorized, "invalid_credentials", "Email or password is incorrect")
			}
			logger.Error("Login failed", map[string]interface{}{"error": err.Error()})
			return errorJSON(c, http.StatusInternalServerError, "login_failed", "Could not log in")
		}

		return c.JSON(http.StatusOK, models.AuthResponse{
			Success:   true,
			Token:     token,
			ExpiresAt: expiresAt,
			User:      user,
		})
	}
}

// RefreshTokenHandler reissues a token for the authenticated candidate so
// active sessions can extend without a fresh login
func RefreshTokenHandler(manager *auth.Manager, store *storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := store.GetUserByID(c.Request().Context(), authedUserID(c))
		if err != nil {
			return errorJSON(c, http.StatusUnauthorized, "unknown_user", "Account no longer exists")
		}

		token, expiresAt, err := manager.GenerateToken(user)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "refresh_failed", "Could not refresh the token")
		}

		return c.JSON(http.StatusOK, models.AuthResponse{
			Success:   true,
			Token:     token,
			ExpiresAt: expiresAt,
			User:      user,
		})
	}
}

// UpdatePasswordHandler changes the password of the authenticated candidate
func UpdatePasswordHandler(manager *auth.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.PasswordUpdateRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "validation_failed", err.Error())
		}

		userID := authedUserID(c)
		if err := manager.UpdatePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword); err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return errorJSON(c, http.StatusUnauthorized, "invalid_credentials", "Current password is incorrect")
			}
			return errorJSON(c, http.StatusInternalServerError, "password_update_failed", "Could not update the password")
		}

		return c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Password updated"})
	}
}

// ForgotPasswordHandler starts the OTP reset flow. Unknown emails get the
// same response as known ones so the endpoint cannot enumerate accounts.
func ForgotPasswordHandler(manager *auth.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.ForgotPasswordRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "validation_failed", err.Error())
		}

		otp, err := manager.RequestPasswordReset(c.Request().Context(), req.Email)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "reset_request_failed", "Could not start the password reset")
		}

		// There is no mail transport; the OTP rides back in the response
		// for the frontend to display, mirroring the demo deployment.
		resp := map[string]interface{}{
			"success": true,
			"message": "If the email is registered, an OTP has been generated",
		}
		if otp != "" {
			resp["otp"] = otp
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// VerifyOTPHandler checks a reset OTP without consuming it
func VerifyOTPHandler(manager *auth.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.VerifyOTPRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "validation_failed", err.Error())
		}

		if err := manager.VerifyOTP(c.Request().Context(), req.Email, req.OTP); err != nil {
			return errorJSON(c, http.StatusUnauthorized, "invalid_otp", "OTP is invalid or expired")
		}
		return c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "OTP verified"})
	}
}

// ResetPasswordHandler completes the OTP reset flow
func ResetPasswordHandler(manager *auth.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.ResetPasswordRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "validation_failed", err.Error())
		}
		if req.NewPassword != req.ConfirmPassword {
			return errorJSON(c, http.StatusBadRequest, "password_mismatch", "Passwords do not match")
		}

		if err := manager.ResetPasswordWithOTP(c.Request().Context(), req.Email, req.OTP, req.NewPassword); err != nil {
			if errors.Is(err, auth.ErrInvalidOTP) {
				return errorJSON(c, http.StatusUnauthorized, "invalid_otp", "OTP is invalid or expired")
			}
			return errorJSON(c, http.StatusInternalServerError, "reset_failed", "Could not reset the password")
		}
		return c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Password reset"})
	}
}
