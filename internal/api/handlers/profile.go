package handlers

import (
	"errors"
	"net/http"

	"github.com/REHANAMD/InternGenie/internal/logging"
	"github.com/REHANAMD/InternGenie/internal/recommender"
	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/models"

	"github.com/labstack/echo/v4"
)

// GetProfileHandler returns the authenticated candidate's profile
func GetProfileHandler(store *storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := store.GetUserByID(c.Request().Context(), authedUserID(c))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return errorJSON(c, http.StatusNotFound, "not_found", "Profile not found")
			}
			return errorJSON(c, http.StatusInternalServerError, "profile_fetch_failed", "Could not load the profile")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "user": user})
	}
}

// UpdateProfileHandler updates the candidate profile and invalidates any
// cached recommendations, since every subscore depends on profile fields.
func UpdateProfileHandler(store *storage.Store, engine *recommender.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()

		var req models.ProfileUpdateRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "validation_failed", err.Error())
		}

		userID := authedUserID(c)
		ctx := c.Request().Context()
		if err := store.UpdateUserProfile(ctx, userID, &req); err != nil {
			logger.Error("Profile update failed", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
			return errorJSON(c, http.StatusInternalServerError, "profile_update_failed", "Could not update the profile")
		}

		engine.InvalidateCandidate(userID)

		user, err := store.GetUserByID(ctx, userID)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "profile_fetch_failed", "Could not load the updated profile")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "user": user})
	}
}

// UpdatePrivacyHandler toggles chatbot access to profile data
func UpdatePrivacyHandler(store *storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.PrivacyPreferencesRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
		}

		if err := store.SetDataConsent(c.Request().Context(), authedUserID(c), req.DataConsent); err != nil {
			return errorJSON(c, http.StatusInternalServerError, "privacy_update_failed", "Could not update privacy preferences")
		}
		return c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Privacy preferences updated"})
	}
}

// DeleteAccountHandler removes the candidate and all dependent rows
func DeleteAccountHandler(store *storage.Store, engine *recommender.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := authedUserID(c)
		if err := store.DeleteUser(c.Request().Context(), userID); err != nil {
			return errorJSON(c, http.StatusInternalServerError, "account_delete_failed", "Could not delete the account")
		}

		engine.InvalidateCandidate(userID)

		logging.GetGlobalLogger().Info("Account deleted", map[string]interface{}{"user_id": userID})
		return c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Account deleted"})
	}
}
