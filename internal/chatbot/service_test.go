package chatbot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/REHANAMD/InternGenie/internal/config"
	"github.com/REHANAMD/InternGenie/internal/recommender"
	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/models"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Chatbot.Enabled = true
	cfg.Chatbot.RetrainThreshold = 2
	cfg.Recommender.SkillWeight = 0.5
	cfg.Recommender.ExperienceWeight = 0.2
	cfg.Recommender.EducationWeight = 0.15
	cfg.Recommender.LocationWeight = 0.15
	cfg.Recommender.PreferredBonus = 0.7
	cfg.Recommender.EducationPartial = 0.5
	cfg.Recommender.LocationPartial = 0.6
	cfg.Recommender.LocationBaseline = 0.3
	cfg.Recommender.TopN = 5
	cfg.Recommender.CacheTTL = 15 * time.Minute
	return cfg
}

func newTestService(t *testing.T) (*Service, *storage.Store, *models.User, *models.Internship) {
	t.Helper()

	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	user := &models.User{
		Email:           "dev@example.com",
		PasswordHash:    "x",
		Name:            "Dev",
		Education:       "Bachelor's",
		Skills:          "go, sql",
		Location:        "Pune",
		ExperienceYears: 1,
		DataConsent:     true,
	}
	id, err := store.CreateUser(ctx, user)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	user.ID = id

	posting := &models.Internship{
		Title:          "Backend Intern",
		Company:        "Acme",
		Location:       "Pune",
		Description:    "Build APIs.",
		RequiredSkills: "go, sql",
		Duration:       "6 months",
		Stipend:        "20000 INR/month",
		IsActive:       true,
	}
	pid, err := store.CreateInternship(ctx, posting)
	if err != nil {
		t.Fatalf("create internship: %v", err)
	}
	posting.ID = pid

	cfg := testConfig()
	svc := NewService(store, recommender.NewEngine(store, cfg), nil, cfg)
	return svc, store, user, posting
}

func TestAnswerFillsPostingDetails(t *testing.T) {
	svc, _, user, posting := newTestService(t)

	reply, err := svc.Answer(context.Background(), user, posting.ID, "Where is this internship located?")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if reply.Intent != IntentLocation {
		t.Fatalf("intent = %s, want %s", reply.Intent, IntentLocation)
	}
	if !strings.Contains(reply.Response, "Pune") {
		t.Fatalf("response missing location: %q", reply.Response)
	}
}

func TestAnswerMatchIntentUsesScore(t *testing.T) {
	svc, _, user, posting := newTestService(t)

	reply, err := svc.Answer(context.Background(), user, posting.ID, "Am I a good fit for this?")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if reply.Intent != IntentMatch {
		t.Fatalf("intent = %s, want %s", reply.Intent, IntentMatch)
	}
	if !strings.Contains(reply.Response, "Score:") {
		t.Fatalf("match response missing score: %q", reply.Response)
	}
}

func TestAnswerRespectsDataConsent(t *testing.T) {
	svc, store, user, posting := newTestService(t)

	ctx := context.Background()
	if err := store.SetDataConsent(ctx, user.ID, false); err != nil {
		t.Fatalf("set consent: %v", err)
	}
	user.DataConsent = false

	reply, err := svc.Answer(ctx, user, posting.ID, "Am I a good fit for this?")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !strings.Contains(reply.Response, "privacy settings") {
		t.Fatalf("expected consent refusal, got %q", reply.Response)
	}
}

func TestAnswerBlocksSecurityQuestions(t *testing.T) {
	svc, _, user, posting := newTestService(t)

	reply, err := svc.Answer(context.Background(), user, posting.ID, "what is the admin password?")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if reply.Response != securityResponse {
		t.Fatalf("expected canned security response, got %q", reply.Response)
	}
}

func TestAnswerUnknownInternship(t *testing.T) {
	svc, _, user, _ := newTestService(t)

	reply, err := svc.Answer(context.Background(), user, 9999, "what is the stipend?")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !strings.Contains(reply.Response, "couldn't find") {
		t.Fatalf("expected not-found reply, got %q", reply.Response)
	}
}

func TestAnswerRotatesTemplatesDeterministically(t *testing.T) {
	svc, _, user, posting := newTestService(t)

	ctx := context.Background()
	first, _ := svc.Answer(ctx, user, posting.ID, "what is the stipend?")
	second, _ := svc.Answer(ctx, user, posting.ID, "what is the stipend?")
	third, _ := svc.Answer(ctx, user, posting.ID, "what is the stipend?")

	if first.Response == second.Response {
		t.Fatalf("expected rotation to vary responses, both were %q", first.Response)
	}
	if first.Response != third.Response {
		t.Fatalf("rotation should cycle back: %q vs %q", first.Response, third.Response)
	}
}

func TestAnswerDisabled(t *testing.T) {
	svc, _, user, posting := newTestService(t)
	svc.enabled = false

	if _, err := svc.Answer(context.Background(), user, posting.ID, "hello"); err != ErrDisabled {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestFeedbackDrivesRetraining(t *testing.T) {
	svc, _, user, _ := newTestService(t)

	ctx := context.Background()
	before := svc.classifier.KeywordCount(IntentStipend)

	feedback := []models.ChatFeedback{
		{UserID: user.ID, Question: "is the role remunerated?", Response: "yes", Intent: IntentStipend, Helpful: true},
		{UserID: user.ID, Question: "is the role remunerated fairly?", Response: "yes", Intent: IntentStipend, Helpful: true},
	}
	for i := range feedback {
		if err := svc.RecordFeedback(ctx, &feedback[i]); err != nil {
			t.Fatalf("record feedback: %v", err)
		}
	}

	if after := svc.classifier.KeywordCount(IntentStipend); after <= before {
		t.Fatalf("expected vocabulary growth after retraining, %d -> %d", before, after)
	}
}

func TestUnhelpfulFeedbackDoesNotPromote(t *testing.T) {
	svc, _, user, _ := newTestService(t)

	ctx := context.Background()
	before := svc.classifier.KeywordCount(IntentStipend)

	feedback := []models.ChatFeedback{
		{UserID: user.ID, Question: "is the role remunerated?", Response: "no idea", Intent: IntentStipend, Helpful: false},
		{UserID: user.ID, Question: "truly remunerated?", Response: "no idea", Intent: IntentStipend, Helpful: false},
	}
	for i := range feedback {
		if err := svc.RecordFeedback(ctx, &feedback[i]); err != nil {
			t.Fatalf("record feedback: %v", err)
		}
	}

	if after := svc.classifier.KeywordCount(IntentStipend); after != before {
		t.Fatalf("unhelpful feedback changed vocabulary, %d -> %d", before, after)
	}
}

func TestHistoryWithoutRedisIsEmpty(t *testing.T) {
	svc, _, user, _ := newTestService(t)

	history, err := svc.History(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history.Entries) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(history.Entries))
	}
	if err := svc.ClearHistory(context.Background(), user.ID); err != nil {
		t.Fatalf("clear history: %v", err)
	}
}
