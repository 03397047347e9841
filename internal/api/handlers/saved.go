package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/models"

	"github.com/labstack/echo/v4"
)

// SaveInternshipHandler bookmarks a posting for the candidate. Saving is
// idempotent and does not touch the recommendation cache; the saved flag is
// resolved per request.
func SaveInternshipHandler(store *storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
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
			return errorJSON(c, http.StatusInternalServerError, "save_failed", "Could not save the internship")
		}

		if err := store.SaveInternship(ctx, userID, internshipID); err != nil {
			return errorJSON(c, http.StatusInternalServerError, "save_failed", "Could not save the internship")
		}

		recordBehavior(c, store, userID, "save", internshipID)
		return c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Internship saved"})
	}
}

// UnsaveInternshipHandler removes a bookmark
func UnsaveInternshipHandler(store *storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		internshipID, err := strconv.Atoi(c.Param("id"))
		if err != nil || internshipID <= 0 {
			return errorJSON(c, http.StatusBadRequest, "invalid_id", "Internship ID must be a positive integer")
		}

		userID := authedUserID(c)
		if err := store.UnsaveInternship(c.Request().Context(), userID, internshipID); err != nil {
			return errorJSON(c, http.StatusInternalServerError, "unsave_failed", "Could not remove the bookmark")
		}

		recordBehavior(c, store, userID, "unsave", internshipID)
		return c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Internship removed from saved"})
	}
}

// ListSavedHandler returns the candidate's bookmarked postings
func ListSavedHandler(store *storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		internships, err := store.ListSavedInternships(c.Request().Context(), authedUserID(c))
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "saved_fetch_failed", "Could not load saved internships")
		}
		if internships == nil {
			internships = []models.Internship{}
		}
		return c.JSON(http.StatusOK, models.InternshipsResponse{
			Success:     true,
			Count:       len(internships),
			Internships: internships,
		})
	}
}
