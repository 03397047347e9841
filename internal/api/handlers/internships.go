package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/REHANAMD/InternGenie/internal/recommender"
	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/models"

	"github.com/labstack/echo/v4"
)

// ListInternshipsHandler returns the active catalog with optional paging
func ListInternshipsHandler(store *storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := queryInt(c, "limit", 0)
		offset := queryInt(c, "offset", 0)

		var (
			internships []models.Internship
			err         error
		)
		if limit > 0 {
			internships, err = store.ListInternships(c.Request().Context(), limit, offset)
		} else {
			internships, err = store.ListActiveInternships(c.Request().Context())
		}
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "catalog_fetch_failed", "Could not load internships")
		}

		return c.JSON(http.StatusOK, models.InternshipsResponse{
			Success:     true,
			Count:       len(internships),
			Internships: internships,
		})
	}
}

// GetInternshipHandler returns one posting by ID
func GetInternshipHandler(store *storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			return errorJSON(c, http.StatusBadRequest, "invalid_id", "Internship ID must be a positive integer")
		}

		internship, err := store.GetInternship(c.Request().Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return errorJSON(c, http.StatusNotFound, "not_found", "Internship not found")
			}
			return errorJSON(c, http.StatusInternalServerError, "internship_fetch_failed", "Could not load the internship")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "internship": internship})
	}
}

// SeedDataHandler fills an empty catalog with the sample postings so a
// fresh deployment has something to recommend. No-op when postings exist.
func SeedDataHandler(store *storage.Store, engine *recommender.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		inserted, err := store.SeedSampleData(c.Request().Context())
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "seed_failed", "Could not seed the catalog")
		}
		if inserted > 0 {
			engine.InvalidateCatalog()
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":  true,
			"inserted": inserted,
		})
	}
}

// queryInt parses an integer query parameter, falling back on bad input
func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
