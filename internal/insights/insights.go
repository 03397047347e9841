package insights

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/REHANAMD/InternGenie/internal/logging"
	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/models"
	"github.com/REHANAMD/InternGenie/pkg/utils"
)

// trendingWindow bounds how far back behavior events count toward trends
const trendingWindow = 7 * 24 * time.Hour

// SkillTrend is one skill with its demand counts
type SkillTrend struct {
	Skill        string  `json:"skill"`
	Postings     int     `json:"postings"`
	Interactions int     `json:"interactions"`
	TrendScore   float64 `json:"trend_score"`
}

// MarketInsights aggregates catalog-wide application statistics
type MarketInsights struct {
	TotalApplications int            `json:"total_applications"`
	SuccessRate       float64        `json:"success_rate"`
	PopularCompanies  []NamedCount   `json:"popular_companies"`
	PopularLocations  []NamedCount   `json:"popular_locations"`
	AverageStipend    float64        `json:"average_stipend"`
	SkillDemand       []NamedCount   `json:"skill_demand"`
	StatusBreakdown   map[string]int `json:"status_breakdown"`
}

// UserInsights summarizes one candidate's activity
type UserInsights struct {
	CandidateID      int            `json:"candidate_id"`
	ActionBreakdown  map[string]int `json:"action_breakdown"`
	TotalEvents      int            `json:"total_events"`
	EngagedPostings  int            `json:"engaged_postings"`
	LearningPriority []NamedCount   `json:"learning_priority"`
}

// NamedCount pairs a label with how often it occurred
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Service computes analytics over stored applications, postings and
// tracked behavior events.
type Service struct {
	store  *storage.Store
	logger logging.Logger
	now    func() time.Time
}

// NewService builds an insights service over the given store
func NewService(store *storage.Store) *Service {
	return &Service{
		store:  store,
		logger: logging.GetGlobalLogger().WithField("component", "insights"),
		now:    time.Now,
	}
}

// TrendingSkills ranks skills by recent interaction volume weighted by how
// many active postings ask for them.
func (s *Service) TrendingSkills(ctx context.Context, limit int) ([]SkillTrend, error) {
	postings, err := s.store.ListActiveInternships(ctx)
	if err != nil {
		return nil, fmt.Errorf("insights: trending skills: %w", err)
	}

	events, err := s.store.ListBehaviors(ctx, 0, s.now().Add(-trendingWindow))
	if err != nil {
		return nil, fmt.Errorf("insights: trending skills: %w", err)
	}

	// Count how often each skill appears in the active catalog, and how
	// many recent events touched a posting demanding it.
	postingSkills := make(map[int][]string, len(postings))
	skillPostings := map[string]int{}
	for _, in := range postings {
		skills := utils.SplitCSV(in.RequiredSkills)
		skills = append(skills, utils.SplitCSV(in.PreferredSkills)...)
		postingSkills[in.ID] = skills
		for _, skill := range dedupe(skills) {
			skillPostings[skill]++
		}
	}

	skillInteractions := map[string]int{}
	for _, ev := range events {
		for _, skill := range dedupe(postingSkills[ev.InternshipID]) {
			skillInteractions[skill]++
		}
	}

	trends := make([]SkillTrend, 0, len(skillPostings))
	for skill, count := range skillPostings {
		trends = append(trends, SkillTrend{
			Skill:        skill,
			Postings:     count,
			Interactions: skillInteractions[skill],
			TrendScore:   float64(count) + 2*float64(skillInteractions[skill]),
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].TrendScore != trends[j].TrendScore {
			return trends[i].TrendScore > trends[j].TrendScore
		}
		return trends[i].Skill < trends[j].Skill
	})

	if limit > 0 && len(trends) > limit {
		trends = trends[:limit]
	}
	return trends, nil
}

// Market aggregates application outcomes across the whole platform
func (s *Service) Market(ctx context.Context) (*MarketInsights, error) {
	apps, err := s.store.ListAllApplications(ctx)
	if err != nil {
		return nil, fmt.Errorf("insights: market: %w", err)
	}

	out := &MarketInsights{StatusBreakdown: map[string]int{}}
	out.TotalApplications = len(apps)

	companies := map[string]int{}
	locations := map[string]int{}
	accepted := 0
	var stipendSum float64
	stipendCount := 0
	for _, a := range apps {
		out.StatusBreakdown[a.Status]++
		if a.Status == models.ApplicationStatusAccepted {
			accepted++
		}
		if a.Company != "" {
			companies[a.Company]++
		}
		if a.Location != "" {
			locations[a.Location]++
		}
		if v, ok := parseStipend(a.Stipend); ok {
			stipendSum += v
			stipendCount++
		}
	}
	if len(apps) > 0 {
		out.SuccessRate = float64(accepted) / float64(len(apps))
	}
	if stipendCount > 0 {
		out.AverageStipend = stipendSum / float64(stipendCount)
	}
	out.PopularCompanies = topCounts(companies, 5)
	out.PopularLocations = topCounts(locations, 5)

	postings, err := s.store.ListActiveInternships(ctx)
	if err != nil {
		return nil, fmt.Errorf("insights: market: %w", err)
	}
	demand := map[string]int{}
	for _, in := range postings {
		for _, skill := range dedupe(utils.SplitCSV(in.RequiredSkills)) {
			demand[skill]++
		}
	}
	out.SkillDemand = topCounts(demand, 10)
	return out, nil
}

// ForUser summarizes a candidate's tracked activity and suggests the skills
// most often missing from their engaged postings.
func (s *Service) ForUser(ctx context.Context, candidateID int) (*UserInsights, error) {
	user, err := s.store.GetUserByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("insights: user: %w", err)
	}

	events, err := s.store.ListBehaviors(ctx, candidateID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("insights: user: %w", err)
	}

	out := &UserInsights{
		CandidateID:     candidateID,
		ActionBreakdown: map[string]int{},
		TotalEvents:     len(events),
	}

	known := map[string]bool{}
	for _, skill := range utils.SplitCSV(user.Skills) {
		known[skill] = true
	}

	engaged := map[int]bool{}
	missing := map[string]int{}
	for _, ev := range events {
		out.ActionBreakdown[ev.Action]++
		if ev.InternshipID <= 0 || engaged[ev.InternshipID] {
			continue
		}
		engaged[ev.InternshipID] = true

		in, err := s.store.GetInternship(ctx, ev.InternshipID)
		if err != nil {
			continue // posting may have been removed
		}
		for _, skill := range dedupe(utils.SplitCSV(in.RequiredSkills)) {
			if !known[skill] {
				missing[skill]++
			}
		}
	}
	out.EngagedPostings = len(engaged)
	out.LearningPriority = topCounts(missing, 5)
	return out, nil
}

var stipendDigits = regexp.MustCompile(`\d[\d,]*`)

// parseStipend pulls the first number out of a free-text stipend. Unpaid
// and undisclosed postings report false.
func parseStipend(s string) (float64, bool) {
	if strings.Contains(strings.ToLower(s), "unpaid") {
		return 0, false
	}
	raw := stipendDigits.FindString(s)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func topCounts(counts map[string]int, limit int) []NamedCount {
	out := make([]NamedCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, NamedCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func dedupe(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := skills[:0:0]
	for _, s := range skills {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
