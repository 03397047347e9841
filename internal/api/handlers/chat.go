package handlers

import (
	"errors"
	"net/http"

	"github.com/REHANAMD/InternGenie/internal/chatbot"
	"github.com/REHANAMD/InternGenie/internal/logging"
	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/models"

	"github.com/labstack/echo/v4"
)

// ChatMessageHandler answers one internship question
func ChatMessageHandler(store *storage.Store, bot *chatbot.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()

		var req models.ChatMessageRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "validation_failed", err.Error())
		}

		ctx := c.Request().Context()
		user, err := store.GetUserByID(ctx, authedUserID(c))
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "chat_failed", "Could not load the candidate profile")
		}

		reply, err := bot.Answer(ctx, user, req.InternshipID, req.Question)
		if err != nil {
			if errors.Is(err, chatbot.ErrDisabled) {
				return errorJSON(c, http.StatusServiceUnavailable, "chat_disabled", "The assistant is currently disabled")
			}
			logger.Error("Chat reply failed", map[string]interface{}{
				"user_id": user.ID,
				"error":   err.Error(),
			})
			return errorJSON(c, http.StatusInternalServerError, "chat_failed", "Could not generate a reply")
		}

		return c.JSON(http.StatusOK, models.ChatResponse{Success: true, Reply: reply})
	}
}

// ChatFeedbackHandler records whether a reply was helpful
func ChatFeedbackHandler(bot *chatbot.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.ChatFeedbackRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "validation_failed", err.Error())
		}

		fb := &models.ChatFeedback{
			UserID:   authedUserID(c),
			Question: req.Question,
			Response: req.Response,
			Intent:   req.Intent,
			Helpful:  req.Helpful,
		}
		if err := bot.RecordFeedback(c.Request().Context(), fb); err != nil {
			return errorJSON(c, http.StatusInternalServerError, "feedback_failed", "Could not record the feedback")
		}
		return c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Feedback recorded"})
	}
}

// ChatHistoryHandler returns the candidate's conversation thread
func ChatHistoryHandler(bot *chatbot.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		history, err := bot.History(c.Request().Context(), authedUserID(c))
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "history_fetch_failed", "Could not load the conversation")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "history": history})
	}
}

// ClearChatHistoryHandler drops the candidate's conversation thread
func ClearChatHistoryHandler(bot *chatbot.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := bot.ClearHistory(c.Request().Context(), authedUserID(c)); err != nil {
			return errorJSON(c, http.StatusInternalServerError, "history_clear_failed", "Could not clear the conversation")
		}
		return c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Conversation cleared"})
	}
}
