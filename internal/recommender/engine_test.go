package recommender

import (
	"context"
	"testing"
	"time"

	"github.com/REHANAMD/InternGenie/internal/config"
	"github.com/REHANAMD/InternGenie/pkg/models"
)

type stubCatalog struct {
	user     *models.User
	postings []models.Internship
	saved    map[int]bool
	applied  map[int]bool

	listCalls int
}

func (s *stubCatalog) GetUserByID(_ context.Context, id int) (*models.User, error) {
	return s.user, nil
}

func (s *stubCatalog) ListActiveInternships(_ context.Context) ([]models.Internship, error) {
	s.listCalls++
	out := make([]models.Internship, len(s.postings))
	copy(out, s.postings)
	return out, nil
}

func (s *stubCatalog) SavedInternshipIDs(_ context.Context, _ int) (map[int]bool, error) {
	if s.saved == nil {
		return map[int]bool{}, nil
	}
	return s.saved, nil
}

func (s *stubCatalog) AppliedInternshipIDs(_ context.Context, _ int) (map[int]bool, error) {
	if s.applied == nil {
		return map[int]bool{}, nil
	}
	return s.applied, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Recommender.SkillWeight = 0.5
	cfg.Recommender.ExperienceWeight = 0.2
	cfg.Recommender.EducationWeight = 0.15
	cfg.Recommender.LocationWeight = 0.15
	cfg.Recommender.PreferredBonus = 0.7
	cfg.Recommender.EducationPartial = 0.5
	cfg.Recommender.LocationPartial = 0.6
	cfg.Recommender.LocationBaseline = 0.3
	cfg.Recommender.TopN = 5
	cfg.Recommender.CacheTTL = time.Minute
	return cfg
}

func newTestEngine(catalog *stubCatalog) *Engine {
	return NewEngine(catalog, testConfig())
}

func TestRecommendRanksDescendingWithIDTiebreak(t *testing.T) {
	catalog := &stubCatalog{
		user: &models.User{ID: 1, Skills: "python", Location: "Remote"},
		postings: []models.Internship{
			{ID: 3, Title: "Twin B", RequiredSkills: "python", Location: "Remote"},
			{ID: 1, Title: "Twin A", RequiredSkills: "python", Location: "Remote"},
			{ID: 2, Title: "Mismatch", RequiredSkills: "cobol", Location: "Pune"},
		},
	}
	engine := newTestEngine(catalog)

	recs, cached, err := engine.Recommend(context.Background(), 1, 5, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached {
		t.Fatal("expected fresh computation")
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}

	for i := 1; i < len(recs); i++ {
		if recs[i].Score > recs[i-1].Score {
			t.Fatalf("scores not descending at %d: %v after %v", i, recs[i].Score, recs[i-1].Score)
		}
	}
	// The two identical postings tie; lower id must come first
	if recs[0].InternshipID != 1 || recs[1].InternshipID != 3 {
		t.Fatalf("tie not broken by ascending id: %d then %d", recs[0].InternshipID, recs[1].InternshipID)
	}
	if recs[2].InternshipID != 2 {
		t.Fatalf("expected mismatched posting last, got %d", recs[2].InternshipID)
	}
}

func TestMalformedPostingSkippedNotFatal(t *testing.T) {
	catalog := &stubCatalog{
		user: &models.User{ID: 1, Skills: "python"},
		postings: []models.Internship{
			{ID: 1, Title: "Good", RequiredSkills: "python"},
			{ID: 2, Title: ""}, // malformed: no title
			{ID: 0, Title: "No ID"},
			{ID: 3, Title: "Also Good"},
		},
	}
	engine := newTestEngine(catalog)

	recs, _, err := engine.Recommend(context.Background(), 1, 5, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected malformed postings skipped, got %d results", len(recs))
	}
	for _, r := range recs {
		if r.InternshipID != 1 && r.InternshipID != 3 {
			t.Fatalf("unexpected posting %d in results", r.InternshipID)
		}
	}
}

func TestEmptyCatalogReturnsEmptyList(t *testing.T) {
	catalog := &stubCatalog{user: &models.User{ID: 1}}
	engine := newTestEngine(catalog)

	recs, _, err := engine.Recommend(context.Background(), 1, 5, false)
	if err != nil {
		t.Fatalf("expected success on empty catalog, got %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected empty list, got %d", len(recs))
	}
}

func TestRecommendUsesCacheUntilBypassed(t *testing.T) {
	catalog := &stubCatalog{
		user: &models.User{ID: 1, Skills: "python"},
		postings: []models.Internship{
			{ID: 1, Title: "Only", RequiredSkills: "python"},
		},
	}
	engine := newTestEngine(catalog)

	first, cached, err := engine.Recommend(context.Background(), 1, 5, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached {
		t.Fatal("first request cannot be cached")
	}

	// Catalog changes underneath, but the cached list is still served
	catalog.postings = append(catalog.postings, models.Internship{ID: 2, Title: "New", RequiredSkills: "python"})

	second, cached, err := engine.Recommend(context.Background(), 1, 5, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cached {
		t.Fatal("expected cache hit")
	}
	if len(second) != len(first) {
		t.Fatalf("cached result diverged: %d vs %d", len(second), len(first))
	}

	// Bypass recomputes against the new catalog
	third, cached, err := engine.Recommend(context.Background(), 1, 5, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached {
		t.Fatal("bypass must not serve from cache")
	}
	if len(third) != 2 {
		t.Fatalf("expected recompute to see new posting, got %d results", len(third))
	}
}

func TestInvalidationForcesRecompute(t *testing.T) {
	catalog := &stubCatalog{
		user:     &models.User{ID: 1, Skills: "python"},
		postings: []models.Internship{{ID: 1, Title: "Only", RequiredSkills: "python"}},
	}
	engine := newTestEngine(catalog)

	if _, _, err := engine.Recommend(context.Background(), 1, 5, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := catalog.listCalls

	engine.InvalidateCandidate(1)

	if _, cached, err := engine.Recommend(context.Background(), 1, 5, true); err != nil || cached {
		t.Fatalf("expected recompute after invalidation (err=%v cached=%v)", err, cached)
	}
	if catalog.listCalls != calls+1 {
		t.Fatalf("expected one more catalog load, got %d then %d", calls, catalog.listCalls)
	}

	engine.InvalidateCatalog()

	if _, cached, err := engine.Recommend(context.Background(), 1, 5, true); err != nil || cached {
		t.Fatalf("expected recompute after catalog invalidation (err=%v cached=%v)", err, cached)
	}
}

func TestSavedFlagResolvedAfterCache(t *testing.T) {
	catalog := &stubCatalog{
		user:     &models.User{ID: 1, Skills: "python"},
		postings: []models.Internship{{ID: 1, Title: "Only", RequiredSkills: "python"}},
		saved:    map[int]bool{},
	}
	engine := newTestEngine(catalog)

	recs, _, err := engine.Recommend(context.Background(), 1, 5, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs[0].IsSaved {
		t.Fatal("posting not saved yet")
	}

	// Saving happens after the list was cached; the flag must still update
	catalog.saved[1] = true

	recs, cached, err := engine.Recommend(context.Background(), 1, 5, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cached {
		t.Fatal("expected cache hit")
	}
	if !recs[0].IsSaved {
		t.Fatal("expected saved flag to be resolved per request")
	}
}

func TestAppliedPostingsExcludedUntilWithdrawn(t *testing.T) {
	catalog := &stubCatalog{
		user: &models.User{ID: 1, Skills: "python"},
		postings: []models.Internship{
			{ID: 1, Title: "A", RequiredSkills: "python"},
			{ID: 2, Title: "B", RequiredSkills: "python"},
		},
		applied: map[int]bool{2: true},
	}
	engine := newTestEngine(catalog)

	recs, _, err := engine.Recommend(context.Background(), 1, 5, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].InternshipID != 1 {
		t.Fatalf("expected applied posting 2 excluded, got %v", recs)
	}

	// Withdrawal removes the application and invalidates the cached list;
	// the posting must flow back into the results
	delete(catalog.applied, 2)
	engine.InvalidateCandidate(1)

	recs, _, err = engine.Recommend(context.Background(), 1, 5, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected withdrawn posting restored, got %v", recs)
	}
}

func TestRecommendHonorsLimit(t *testing.T) {
	catalog := &stubCatalog{
		user: &models.User{ID: 1, Skills: "python"},
		postings: []models.Internship{
			{ID: 1, Title: "A", RequiredSkills: "python"},
			{ID: 2, Title: "B", RequiredSkills: "python"},
			{ID: 3, Title: "C", RequiredSkills: "python"},
		},
	}
	engine := newTestEngine(catalog)

	recs, _, err := engine.Recommend(context.Background(), 1, 2, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(recs))
	}
}

func TestExplicitLimitMayExceedTopN(t *testing.T) {
	catalog := &stubCatalog{
		user: &models.User{ID: 1, Skills: "python"},
		postings: []models.Internship{
			{ID: 1, Title: "A", RequiredSkills: "python"},
			{ID: 2, Title: "B", RequiredSkills: "python"},
			{ID: 3, Title: "C", RequiredSkills: "python"},
		},
	}
	cfg := testConfig()
	cfg.Recommender.TopN = 2
	engine := NewEngine(catalog, cfg)

	// No explicit limit falls back to the configured top-N
	recs, _, err := engine.Recommend(context.Background(), 1, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected top-N default of 2, got %d", len(recs))
	}

	// A caller asking for more than top-N gets what it asked for
	recs, _, err = engine.Recommend(context.Background(), 1, 3, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected explicit limit of 3 honored, got %d", len(recs))
	}
}
