package insights

import (
	"context"
	"testing"
	"time"

	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/models"
)

func seedStore(t *testing.T) (*storage.Store, int, []int) {
	t.Helper()

	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	userID, err := store.CreateUser(ctx, &models.User{
		Email:        "cand@example.com",
		PasswordHash: "x",
		Name:         "Cand",
		Skills:       "python",
		DataConsent:  true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	postings := []models.Internship{
		{Title: "Data Intern", Company: "Acme", Location: "Pune",
			RequiredSkills: "python, sql", Stipend: "25000 INR/month", IsActive: true},
		{Title: "Backend Intern", Company: "Acme", Location: "Mumbai",
			RequiredSkills: "go, sql", Stipend: "15,000 INR", IsActive: true},
		{Title: "Design Intern", Company: "Studio", Location: "Pune",
			RequiredSkills: "figma", Stipend: "Unpaid", IsActive: true},
	}
	ids := make([]int, len(postings))
	for i := range postings {
		id, err := store.CreateInternship(ctx, &postings[i])
		if err != nil {
			t.Fatalf("create internship: %v", err)
		}
		ids[i] = id
	}
	return store, userID, ids
}

func TestTrendingSkillsWeighsInteractions(t *testing.T) {
	store, userID, ids := seedStore(t)
	ctx := context.Background()

	// Two recent events on the posting requiring go+sql.
	for i := 0; i < 2; i++ {
		if err := store.RecordBehavior(ctx, userID, "view", ids[1]); err != nil {
			t.Fatalf("record behavior: %v", err)
		}
	}

	trends, err := NewService(store).TrendingSkills(ctx, 0)
	if err != nil {
		t.Fatalf("trending skills: %v", err)
	}
	if len(trends) == 0 {
		t.Fatal("expected trends")
	}
	if trends[0].Skill != "sql" {
		t.Fatalf("top trend = %s, want sql", trends[0].Skill)
	}
	// sql: 2 postings + 2 interactions; go: 1 posting + 2 interactions.
	if trends[0].TrendScore <= trends[1].TrendScore {
		t.Fatalf("scores not descending: %v", trends[:2])
	}
}

func TestTrendingSkillsHonorsLimit(t *testing.T) {
	store, _, _ := seedStore(t)

	trends, err := NewService(store).TrendingSkills(context.Background(), 2)
	if err != nil {
		t.Fatalf("trending skills: %v", err)
	}
	if len(trends) != 2 {
		t.Fatalf("len = %d, want 2", len(trends))
	}
}

func TestMarketInsights(t *testing.T) {
	store, userID, ids := seedStore(t)
	ctx := context.Background()

	for _, id := range ids[:2] {
		if _, err := store.CreateApplication(ctx, userID, id); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	apps, err := store.ListApplications(ctx, userID)
	if err != nil {
		t.Fatalf("list applications: %v", err)
	}
	if err := store.UpdateApplicationStatus(ctx, apps[0].ID, models.ApplicationStatusAccepted); err != nil {
		t.Fatalf("update status: %v", err)
	}

	market, err := NewService(store).Market(ctx)
	if err != nil {
		t.Fatalf("market: %v", err)
	}
	if market.TotalApplications != 2 {
		t.Fatalf("total = %d, want 2", market.TotalApplications)
	}
	if market.SuccessRate != 0.5 {
		t.Fatalf("success rate = %f, want 0.5", market.SuccessRate)
	}
	if len(market.PopularCompanies) == 0 || market.PopularCompanies[0].Name != "Acme" {
		t.Fatalf("popular companies = %v", market.PopularCompanies)
	}
	// Stipends 25000 and 15,000 average to 20000; the unpaid posting has
	// no application and would not count anyway.
	if market.AverageStipend != 20000 {
		t.Fatalf("average stipend = %f, want 20000", market.AverageStipend)
	}
	if len(market.SkillDemand) == 0 {
		t.Fatal("expected skill demand entries")
	}
}

func TestMarketInsightsEmptyCatalog(t *testing.T) {
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	market, err := NewService(store).Market(context.Background())
	if err != nil {
		t.Fatalf("market: %v", err)
	}
	if market.TotalApplications != 0 || market.SuccessRate != 0 {
		t.Fatalf("unexpected stats for empty catalog: %+v", market)
	}
}

func TestUserInsightsLearningPriority(t *testing.T) {
	store, userID, ids := seedStore(t)
	ctx := context.Background()

	if err := store.RecordBehavior(ctx, userID, "view", ids[0]); err != nil {
		t.Fatalf("record behavior: %v", err)
	}
	if err := store.RecordBehavior(ctx, userID, "save", ids[1]); err != nil {
		t.Fatalf("record behavior: %v", err)
	}

	me, err := NewService(store).ForUser(ctx, userID)
	if err != nil {
		t.Fatalf("user insights: %v", err)
	}
	if me.TotalEvents != 2 || me.EngagedPostings != 2 {
		t.Fatalf("events=%d engaged=%d, want 2/2", me.TotalEvents, me.EngagedPostings)
	}
	if me.ActionBreakdown["view"] != 1 || me.ActionBreakdown["save"] != 1 {
		t.Fatalf("action breakdown = %v", me.ActionBreakdown)
	}
	// Candidate knows python; engaged postings require sql (twice) and go.
	if len(me.LearningPriority) == 0 || me.LearningPriority[0].Name != "sql" {
		t.Fatalf("learning priority = %v", me.LearningPriority)
	}
}

func TestParseStipend(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"25000 INR/month", 25000, true},
		{"15,000 INR", 15000, true},
		{"Unpaid", 0, false},
		{"", 0, false},
		{"Competitive", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseStipend(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("parseStipend(%q) = %f,%v want %f,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTrendingWindowExcludesNothingRecent(t *testing.T) {
	store, _, _ := seedStore(t)

	svc := NewService(store)
	svc.now = func() time.Time { return time.Now().Add(30 * 24 * time.Hour) }

	trends, err := svc.TrendingSkills(context.Background(), 0)
	if err != nil {
		t.Fatalf("trending skills: %v", err)
	}
	// No events inside the shifted window; scores fall back to posting counts.
	for _, tr := range trends {
		if tr.Interactions != 0 {
			t.Fatalf("expected zero interactions, got %+v", tr)
		}
	}
}
