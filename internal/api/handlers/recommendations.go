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

// RecommendationsHandler returns the ranked top-N matches for the
// authenticated candidate. `limit` overrides the configured N and
// `use_cache=false` forces a fresh scoring pass.
func RecommendationsHandler(engine *recommender.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()
		userID := authedUserID(c)

		limit := queryInt(c, "limit", 0)
		useCache := true
		if raw := c.QueryParam("use_cache"); raw != "" {
			parsed, err := strconv.ParseBool(raw)
			if err != nil {
				return errorJSON(c, http.StatusBadRequest, "invalid_parameter", "use_cache must be a boolean")
			}
			useCache = parsed
		}

		recs, cached, err := engine.Recommend(c.Request().Context(), userID, limit, useCache)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return errorJSON(c, http.StatusNotFound, "not_found", "Candidate profile not found")
			}
			logger.Error("Recommendation pass failed", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
			return errorJSON(c, http.StatusInternalServerError, "recommendation_failed", "Could not compute recommendations")
		}

		if recs == nil {
			recs = []models.Recommendation{}
		}
		return c.JSON(http.StatusOK, models.RecommendationsResponse{
			Success:         true,
			Count:           len(recs),
			Cached:          cached,
			Recommendations: recs,
		})
	}
}

// ExplainMatchHandler breaks down the score of one candidate/posting pair
func ExplainMatchHandler(engine *recommender.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		internshipID, err := strconv.Atoi(c.Param("id"))
		if err != nil || internshipID <= 0 {
			return errorJSON(c, http.StatusBadRequest, "invalid_id", "Internship ID must be a positive integer")
		}

		match, err := engine.Explain(c.Request().Context(), authedUserID(c), internshipID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return errorJSON(c, http.StatusNotFound, "not_found", "Candidate or internship not found")
			}
			return errorJSON(c, http.StatusInternalServerError, "explain_failed", "Could not explain the match")
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":        true,
			"score":          match.Score,
			"breakdown":      match.Breakdown,
			"matched_skills": match.MatchedSkills,
			"skill_gaps":     match.SkillGaps,
			"explanation":    match.Explanation,
		})
	}
}
