package handlers

import (
	"errors"
	"net/http"

	"github.com/REHANAMD/InternGenie/internal/insights"
	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/models"

	"github.com/labstack/echo/v4"
)

// TrendingSkillsHandler returns skills ranked by recent demand
func TrendingSkillsHandler(service *insights.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := queryInt(c, "limit", 10)

		trends, err := service.TrendingSkills(c.Request().Context(), limit)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "insights_failed", "Could not compute trending skills")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"count":   len(trends),
			"skills":  trends,
		})
	}
}

// MarketInsightsHandler returns platform-wide application statistics
func MarketInsightsHandler(service *insights.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		market, err := service.Market(c.Request().Context())
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "insights_failed", "Could not compute market insights")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"market":  market,
		})
	}
}

// UserInsightsHandler summarizes the candidate's own activity
func UserInsightsHandler(service *insights.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		me, err := service.ForUser(c.Request().Context(), authedUserID(c))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return errorJSON(c, http.StatusNotFound, "not_found", "Candidate profile not found")
			}
			return errorJSON(c, http.StatusInternalServerError, "insights_failed", "Could not compute your insights")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":  true,
			"insights": me,
		})
	}
}

// TrackBehaviorHandler records an explicit interaction event
func TrackBehaviorHandler(store *storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.TrackBehaviorRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "validation_failed", err.Error())
		}

		userID := authedUserID(c)
		if err := store.RecordBehavior(c.Request().Context(), userID, req.Action, req.InternshipID); err != nil {
			return errorJSON(c, http.StatusInternalServerError, "tracking_failed", "Could not record the event")
		}
		return c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Event recorded"})
	}
}
