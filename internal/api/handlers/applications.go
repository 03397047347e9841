package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/REHANAMD/InternGenie/internal/logging"
	"github.com/REHANAMD/InternGenie/internal/recommender"
	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/models"

	"github.com/labstack/echo/v4"
)

// ApplyHandler records an application and drops the candidate's cached
// recommendations, since applied postings are excluded from future ranking.
func ApplyHandler(store *storage.Store, engine *recommender.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()

		internshipID, err := strconv.Atoi(c.Param("id"))
		if err != nil || internshipID <= 0 {
			return errorJSON(c, http.StatusBadRequest, "invalid_id", "Internship ID must be a positive integer")
		}

		userID := authedUserID(c)
		ctx := c.Request().Context()

		if _, err := store.GetInternship(ctx, internshipID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return errorJSON(c, http.StatusNotFound, "not_found", "Internship not found")
			}
			return errorJSON(c, http.StatusInternalServerError, "apply_failed", "Could not submit the application")
		}

		applicationID, err := store.CreateApplication(ctx, userID, internshipID)
		if err != nil {
			if errors.Is(err, storage.ErrAlreadyApplied) {
				return errorJSON(c, http.StatusConflict, "already_applied", "You have already applied to this internship")
			}
			logger.Error("Application insert failed", map[string]interface{}{
				"user_id":       userID,
				"internship_id": internshipID,
				"error":         err.Error(),
			})
			return errorJSON(c, http.StatusInternalServerError, "apply_failed", "Could not submit the application")
		}

		engine.InvalidateCandidate(userID)
		recordBehavior(c, store, userID, "apply", internshipID)

		return c.JSON(http.StatusCreated, map[string]interface{}{
			"success":        true,
			"application_id": applicationID,
		})
	}
}

// ListApplicationsHandler returns the candidate's applications with posting details
func ListApplicationsHandler(store *storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		apps, err := store.ListApplications(c.Request().Context(), authedUserID(c))
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "applications_fetch_failed", "Could not load applications")
		}
		if apps == nil {
			apps = []models.Application{}
		}
		return c.JSON(http.StatusOK, models.ApplicationsResponse{
			Success:      true,
			Count:        len(apps),
			Applications: apps,
		})
	}
}

// WithdrawApplicationHandler marks an application withdrawn and restores
// the posting to the candidate's recommendation pool.
func WithdrawApplicationHandler(store *storage.Store, engine *recommender.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		applicationID, err := strconv.Atoi(c.Param("id"))
		if err != nil || applicationID <= 0 {
			return errorJSON(c, http.StatusBadRequest, "invalid_id", "Application ID must be a positive integer")
		}

		userID := authedUserID(c)
		ctx := c.Request().Context()

		app, err := store.GetApplication(ctx, applicationID, userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return errorJSON(c, http.StatusNotFound, "not_found", "Application not found")
			}
			return errorJSON(c, http.StatusInternalServerError, "withdraw_failed", "Could not withdraw the application")
		}
		if app.Status == models.ApplicationStatusWithdrawn {
			return errorJSON(c, http.StatusConflict, "already_withdrawn", "Application is already withdrawn")
		}

		if err := store.UpdateApplicationStatus(ctx, applicationID, models.ApplicationStatusWithdrawn); err != nil {
			return errorJSON(c, http.StatusInternalServerError, "withdraw_failed", "Could not withdraw the application")
		}

		engine.InvalidateCandidate(userID)
		recordBehavior(c, store, userID, "withdraw", app.InternshipID)

		return c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Application withdrawn"})
	}
}

// HasAppliedHandler reports whether the candidate has a live application
// for a posting, so the frontend can label the apply button
func HasAppliedHandler(store *storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		internshipID, err := strconv.Atoi(c.Param("id"))
		if err != nil || internshipID <= 0 {
			return errorJSON(c, http.StatusBadRequest, "invalid_id", "Internship ID must be a positive integer")
		}

		applied, err := store.HasApplied(c.Request().Context(), authedUserID(c), internshipID)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "lookup_failed", "Could not check the application status")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"applied": applied,
		})
	}
}

// recordBehavior logs an implicit interaction event; failures never affect
// the main request.
func recordBehavior(c echo.Context, store *storage.Store, userID int, action string, internshipID int) {
	if err := store.RecordBehavior(c.Request().Context(), userID, action, internshipID); err != nil {
		logging.GetGlobalLogger().Warn("Behavior event dropped", map[string]interface{}{
			"user_id": userID,
			"action":  action,
			"error":   err.Error(),
		})
	}
}
