package recommender

import (
	"context"
	"fmt"
	"sort"

	"github.com/REHANAMD/InternGenie/internal/config"
	"github.com/REHANAMD/InternGenie/internal/logging"
	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/models"
)

// Catalog is the slice of the persistence layer the engine needs
type Catalog interface {
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	ListActiveInternships(ctx context.Context) ([]models.Internship, error)
	SavedInternshipIDs(ctx context.Context, candidateID int) (map[int]bool, error)
	AppliedInternshipIDs(ctx context.Context, candidateID int) (map[int]bool, error)
}

// Engine scores the active catalog against one candidate, ranks the results
// and memoizes them. The cache is owned by the engine, not a module-level
// singleton, so tests can construct isolated engines.
type Engine struct {
	store  Catalog
	scorer *Scorer
	cache  *Cache
	topN   int
	logger logging.Logger
}

// NewEngine builds an engine from configuration
func NewEngine(store Catalog, cfg *config.Config) *Engine {
	return &Engine{
		store:  store,
		scorer: NewScorer(WeightsFromConfig(cfg)),
		cache:  NewCache(cfg.Recommender.CacheTTL),
		topN:   cfg.Recommender.TopN,
		logger: logging.GetGlobalLogger(),
	}
}

// Recommend returns the ranked recommendations for a candidate, defaulting
// to the configured top-N when no limit is given. The second return value
// reports whether the list came from cache. Saved flags are resolved per
// request, after the cache, so staleness there is impossible.
func (e *Engine) Recommend(ctx context.Context, candidateID, limit int, useCache bool) ([]models.Recommendation, bool, error) {
	if limit <= 0 {
		limit = e.topN
	}

	if useCache {
		if cached, ok := e.cache.Get(candidateID); ok {
			return e.markSaved(ctx, candidateID, trim(cached, limit)), true, nil
		}
	}

	user, err := e.store.GetUserByID(ctx, candidateID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load candidate %d: %w", candidateID, err)
	}

	postings, err := e.store.ListActiveInternships(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load catalog: %w", err)
	}

	applied, err := e.store.AppliedInternshipIDs(ctx, candidateID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load applications: %w", err)
	}

	ranked := e.rank(user, postings, applied)
	e.cache.Put(candidateID, ranked)

	return e.markSaved(ctx, candidateID, trim(ranked, limit)), false, nil
}

// rank scores every posting, skipping malformed records and postings the
// candidate already has a live application on, and sorts the result
// descending by score with posting id as the deterministic tiebreak.
func (e *Engine) rank(user *models.User, postings []models.Internship, applied map[int]bool) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(postings))

	for i := range postings {
		posting := &postings[i]
		if applied[posting.ID] {
			continue
		}
		if !validPosting(posting) {
			e.logger.Warn("Skipping malformed posting", map[string]interface{}{
				"internship_id": posting.ID,
				"title":         posting.Title,
			})
			continue
		}

		match := e.scorer.Score(user, posting)
		out = append(out, models.Recommendation{
			InternshipID:    posting.ID,
			Title:           posting.Title,
			Company:         posting.Company,
			Location:        posting.Location,
			Description:     posting.Description,
			RequiredSkills:  posting.RequiredSkills,
			PreferredSkills: posting.PreferredSkills,
			Duration:        posting.Duration,
			Stipend:         posting.Stipend,
			Score:           match.Score,
			Explanation:     match.Explanation,
			MatchedSkills:   match.MatchedSkills,
			SkillGaps:       match.SkillGaps,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].InternshipID < out[j].InternshipID
	})

	return out
}

// Explain scores a single (candidate, posting) pair with full breakdown,
// used by the explanation endpoint and the chatbot's match answers.
func (e *Engine) Explain(ctx context.Context, candidateID, internshipID int) (*MatchResult, error) {
	user, err := e.store.GetUserByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate %d: %w", candidateID, err)
	}

	postings, err := e.store.ListActiveInternships(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	for i := range postings {
		if postings[i].ID == internshipID {
			match := e.scorer.Score(user, &postings[i])
			return &match, nil
		}
	}
	return nil, fmt.Errorf("internship %d not in active catalog: %w", internshipID, storage.ErrNotFound)
}

// InvalidateCandidate drops a candidate's cached list; called on profile
// update and application submit/withdraw.
func (e *Engine) InvalidateCandidate(candidateID int) {
	e.cache.InvalidateCandidate(candidateID)
}

// InvalidateCatalog expires all cached lists; called when postings change
func (e *Engine) InvalidateCatalog() {
	e.cache.InvalidateCatalog()
}

// PurgeCache removes stale entries; wired to the background cleanup task
func (e *Engine) PurgeCache() int {
	return e.cache.Purge()
}

func (e *Engine) markSaved(ctx context.Context, candidateID int, recs []models.Recommendation) []models.Recommendation {
	saved, err := e.store.SavedInternshipIDs(ctx, candidateID)
	if err != nil {
		// Saved flags are cosmetic; never fail the batch over them
		e.logger.Warn("Failed to resolve saved internships", map[string]interface{}{
			"candidate_id": candidateID,
			"error":        err.Error(),
		})
		return recs
	}
	for i := range recs {
		recs[i].IsSaved = saved[recs[i].InternshipID]
	}
	return recs
}

func validPosting(in *models.Internship) bool {
	return in.ID > 0 && in.Title != ""
}

func trim(recs []models.Recommendation, limit int) []models.Recommendation {
	if len(recs) > limit {
		return recs[:limit]
	}
	return recs
}
