package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/REHANAMD/InternGenie/internal/config"
	"github.com/REHANAMD/InternGenie/internal/logging"
	"github.com/REHANAMD/InternGenie/internal/recommender"
	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/models"
	"github.com/REHANAMD/InternGenie/pkg/utils"
)

// ErrDisabled is returned when the chatbot is switched off in config
var ErrDisabled = errors.New("chatbot: disabled")

const consentResponse = "I'd love to answer that, but you have data processing switched off " +
	"in your privacy settings. Enable it in your profile and ask me again."

// Service answers internship questions by classifying the intent of a
// question and filling an answer template with posting and profile data.
// Conversation history is kept in Redis when a client is configured.
type Service struct {
	store      *storage.Store
	engine     *recommender.Engine
	classifier *Classifier
	responder  *responder
	redis      *utils.RedisClient
	logger     logging.Logger
	enabled    bool

	retrainThreshold int
	lastRetrain      time.Time
}

// NewService wires the chatbot against storage, the recommendation engine
// and an optional Redis client (nil disables history).
func NewService(store *storage.Store, engine *recommender.Engine, redis *utils.RedisClient, cfg *config.Config) *Service {
	return &Service{
		store:            store,
		engine:           engine,
		classifier:       NewClassifier(),
		responder:        newResponder(),
		redis:            redis,
		logger:           logging.GetGlobalLogger().WithField("component", "chatbot"),
		enabled:          cfg.Chatbot.Enabled,
		retrainThreshold: cfg.Chatbot.RetrainThreshold,
	}
}

// Answer produces a reply for one question about an internship. The user is
// already authenticated; internshipID may be zero for general questions.
func (s *Service) Answer(ctx context.Context, user *models.User, internshipID int, question string) (*models.ChatReply, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}

	reply := s.buildReply(ctx, user, internshipID, question)

	s.appendHistory(ctx, user.ID, question, reply)
	return reply, nil
}

func (s *Service) buildReply(ctx context.Context, user *models.User, internshipID int, question string) *models.ChatReply {
	if isSecuritySensitive(question) {
		return &models.ChatReply{Response: securityResponse, Intent: IntentDefault, Confidence: 1.0}
	}

	intent, confidence := s.classifier.Classify(question)

	// Profile and match answers read personal data, which needs consent.
	if (intent == IntentProfile || intent == IntentMatch) && !user.DataConsent {
		return &models.ChatReply{Response: consentResponse, Intent: intent, Confidence: confidence}
	}

	data := map[string]string{
		"candidate_skills":     emptyFallback(user.Skills, "no skills listed"),
		"candidate_experience": strconv.Itoa(user.ExperienceYears),
	}

	var posting *models.Internship
	if internshipID > 0 {
		in, err := s.store.GetInternship(ctx, internshipID)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				s.logger.Error("failed to load internship for chat", map[string]interface{}{
					"internship_id": internshipID,
					"error":         err.Error(),
				})
			}
			return &models.ChatReply{
				Response:   "I couldn't find that internship. It may have been taken down.",
				Intent:     intent,
				Confidence: confidence,
			}
		}
		posting = in
		data["title"] = in.Title
		data["company"] = in.Company
		data["location"] = emptyFallback(in.Location, "a location the posting doesn't mention")
		data["description"] = in.Description
		data["required_skills"] = emptyFallback(in.RequiredSkills, "none listed")
		data["preferred_skills"] = emptyFallback(in.PreferredSkills, "none listed")
		data["stipend"] = emptyFallback(in.Stipend, "not disclosed")
		data["duration"] = emptyFallback(in.Duration, "an unspecified period")
	}

	if intent == IntentMatch {
		if posting == nil {
			return &models.ChatReply{
				Response:   "Tell me which internship you're curious about and I'll score your match.",
				Intent:     intent,
				Confidence: confidence,
			}
		}
		match, err := s.engine.Explain(ctx, user.ID, internshipID)
		if err != nil {
			s.logger.Error("match explanation failed", map[string]interface{}{
				"user_id":       user.ID,
				"internship_id": internshipID,
				"error":         err.Error(),
			})
			return &models.ChatReply{
				Response:   "I couldn't compute your match for that posting right now.",
				Intent:     intent,
				Confidence: confidence,
			}
		}
		data["explanation"] = match.Explanation
		if len(match.SkillGaps) > 0 {
			data["explanation"] = fmt.Sprintf("%s Consider picking up: %s.",
				match.Explanation, strings.Join(match.SkillGaps, ", "))
		}
	}

	if posting == nil && needsPosting(intent) {
		intent = IntentDefault
	}

	response := fill(s.responder.next(intent), data)
	return &models.ChatReply{Response: response, Intent: intent, Confidence: confidence}
}

// RecordFeedback persists a helpful/unhelpful rating and triggers a
// retraining pass once enough new feedback has accumulated.
func (s *Service) RecordFeedback(ctx context.Context, fb *models.ChatFeedback) error {
	if err := s.store.InsertChatFeedback(ctx, fb); err != nil {
		return fmt.Errorf("chatbot: record feedback: %w", err)
	}

	count, err := s.store.CountChatFeedback(ctx)
	if err != nil {
		s.logger.Warn("feedback count failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	if s.retrainThreshold > 0 && count%s.retrainThreshold == 0 {
		if _, err := s.Retrain(ctx); err != nil {
			s.logger.Warn("retraining failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

// Retrain promotes keywords from positively-rated questions into the
// classifier vocabulary. Returns the number of keywords added.
func (s *Service) Retrain(ctx context.Context) (int, error) {
	rows, err := s.store.ListChatFeedback(ctx, s.lastRetrain)
	if err != nil {
		return 0, fmt.Errorf("chatbot: retrain: %w", err)
	}

	added := 0
	for _, fb := range rows {
		if !fb.Helpful || fb.Intent == IntentDefault {
			continue
		}
		added += s.classifier.Promote(fb.Intent, fb.Question)
	}
	s.lastRetrain = time.Now()

	if added > 0 {
		s.logger.Info("classifier vocabulary expanded", map[string]interface{}{
			"keywords_added": added,
			"feedback_rows":  len(rows),
		})
	}
	return added, nil
}

// History returns the stored conversation for a user, or an empty history
// when Redis is not configured.
func (s *Service) History(ctx context.Context, userID int) (*utils.ChatHistory, error) {
	if s.redis == nil {
		return &utils.ChatHistory{UserID: userID}, nil
	}
	return s.redis.GetChatHistory(ctx, userID)
}

// ClearHistory drops a user's conversation thread
func (s *Service) ClearHistory(ctx context.Context, userID int) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.DeleteChatHistory(ctx, userID)
}

func (s *Service) appendHistory(ctx context.Context, userID int, question string, reply *models.ChatReply) {
	if s.redis == nil {
		return
	}
	now := time.Now().UTC()
	entries := []utils.ChatEntry{
		{ID: utils.GenerateRequestID(), Role: "user", Content: question, Timestamp: now},
		{ID: utils.GenerateRequestID(), Role: "assistant", Content: reply.Response, Intent: reply.Intent, Timestamp: now},
	}
	for _, entry := range entries {
		if err := s.redis.AppendChatEntry(ctx, userID, entry); err != nil {
			s.logger.Warn("failed to append chat history", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
			return
		}
	}
}

// needsPosting reports whether an intent only makes sense with a posting
func needsPosting(intent string) bool {
	switch intent {
	case IntentLocation, IntentSkills, IntentStipend, IntentDuration, IntentCompany:
		return true
	}
	return false
}

func emptyFallback(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
