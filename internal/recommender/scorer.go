package recommender

import (
	"fmt"
	"sort"
	"strings"

	"github.com/REHANAMD/InternGenie/internal/config"
	"github.com/REHANAMD/InternGenie/pkg/models"
	"github.com/REHANAMD/InternGenie/pkg/utils"
)

// Weights holds the scoring policy. The four component weights must sum to 1;
// config validation enforces this before an Engine is built.
type Weights struct {
	Skill      float64
	Experience float64
	Education  float64
	Location   float64

	PreferredBonus   float64 // preferred-skill overlap weight relative to required
	EducationPartial float64 // credit when candidate is below the education bar
	LocationPartial  float64 // credit for containment / same-region match
	LocationBaseline float64 // floor so remote-tolerant postings stay visible
}

// WeightsFromConfig extracts the scoring policy from configuration
func WeightsFromConfig(cfg *config.Config) Weights {
	return Weights{
		Skill:            cfg.Recommender.SkillWeight,
		Experience:       cfg.Recommender.ExperienceWeight,
		Education:        cfg.Recommender.EducationWeight,
		Location:         cfg.Recommender.LocationWeight,
		PreferredBonus:   cfg.Recommender.PreferredBonus,
		EducationPartial: cfg.Recommender.EducationPartial,
		LocationPartial:  cfg.Recommender.LocationPartial,
		LocationBaseline: cfg.Recommender.LocationBaseline,
	}
}

// MatchResult is the outcome of scoring one (profile, posting) pair
type MatchResult struct {
	Score         float64
	Breakdown     models.ScoreBreakdown
	MatchedSkills []string
	SkillGaps     []string
	Explanation   string
}

// Scorer computes a [0,1] compatibility score between a candidate and a
// posting. Scoring is a pure function of its inputs and the configured
// weights; there is no hidden state or randomness.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with the given policy
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Score evaluates one candidate against one posting
func (s *Scorer) Score(user *models.User, posting *models.Internship) MatchResult {
	candSkills := toSet(utils.SplitCSV(user.Skills))
	required := toSet(utils.SplitCSV(posting.RequiredSkills))
	preferred := toSet(utils.SplitCSV(posting.PreferredSkills))

	matchedRequired := intersect(candSkills, required)
	matchedPreferred := intersect(candSkills, preferred)

	skill := s.skillSubscore(len(matchedRequired), len(required), len(matchedPreferred), len(preferred))
	experience := experienceSubscore(user.ExperienceYears, posting.ExperienceRequired)
	education := s.educationSubscore(user.Education, posting.MinEducation)
	location := s.locationSubscore(user.Location, posting.Location)

	score := s.weights.Skill*skill +
		s.weights.Experience*experience +
		s.weights.Education*education +
		s.weights.Location*location
	score = clamp01(score)

	matched := sortedUnion(matchedRequired, matchedPreferred)
	gaps := sortedKeys(subtract(required, candSkills))

	result := MatchResult{
		Score: score,
		Breakdown: models.ScoreBreakdown{
			Skill:      skill,
			Experience: experience,
			Education:  education,
			Location:   location,
		},
		MatchedSkills: matched,
		SkillGaps:     gaps,
	}
	result.Explanation = s.explain(user, posting, result)
	return result
}

// skillSubscore is Jaccard-like over required skills with a secondary bonus
// for preferred overlap, capped at 1. An empty required set means the posting
// has no skill requirement and yields the maximum subscore.
func (s *Scorer) skillSubscore(matchedReq, totalReq, matchedPref, totalPref int) float64 {
	base := 1.0
	if totalReq > 0 {
		base = float64(matchedReq) / float64(totalReq)
	}

	bonus := 0.0
	if totalPref > 0 {
		bonus = s.weights.PreferredBonus * float64(matchedPref) / float64(totalPref)
	}

	return clamp01(base + bonus)
}

func experienceSubscore(candidateYears, requiredYears int) float64 {
	if requiredYears <= 0 || candidateYears >= requiredYears {
		return 1.0
	}
	if candidateYears <= 0 {
		return 0.0
	}
	return float64(candidateYears) / float64(requiredYears)
}

// Education levels form an ordinal scale; unknown strings rank lowest so a
// posting requirement is never satisfied by garbage input.
var educationLevels = []struct {
	keyword string
	rank    int
}{
	{"phd", 5},
	{"doctor", 5},
	{"master", 4},
	{"bachelor", 3},
	{"b.tech", 3},
	{"b.e", 3},
	{"diploma", 2},
	{"high school", 1},
	{"secondary", 1},
}

func educationRank(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	for _, level := range educationLevels {
		if strings.Contains(s, level.keyword) {
			return level.rank
		}
	}
	return 0
}

func (s *Scorer) educationSubscore(candidate, minRequired string) float64 {
	required := educationRank(minRequired)
	if required == 0 {
		// No requirement, or one we cannot interpret
		return 1.0
	}
	if educationRank(candidate) >= required {
		return 1.0
	}
	// Partial credit rather than a hard exclusion
	return s.weights.EducationPartial
}

func (s *Scorer) locationSubscore(candidate, posting string) float64 {
	c := strings.ToLower(strings.TrimSpace(candidate))
	p := strings.ToLower(strings.TrimSpace(posting))

	if strings.Contains(c, "remote") || strings.Contains(p, "remote") {
		return 1.0
	}
	if c == "" || p == "" {
		return s.weights.LocationBaseline
	}
	if c == p {
		return 1.0
	}
	if strings.Contains(c, p) || strings.Contains(p, c) {
		return s.weights.LocationPartial
	}
	return s.weights.LocationBaseline
}

func (s *Scorer) explain(user *models.User, posting *models.Internship, r MatchResult) string {
	var reasons []string

	if len(r.MatchedSkills) > 0 {
		reasons = append(reasons, "Skills match: "+strings.Join(r.MatchedSkills, ", "))
	}
	if r.Breakdown.Experience >= 1.0 {
		if posting.ExperienceRequired > 0 {
			reasons = append(reasons, fmt.Sprintf("Experience requirement met: %d years", user.ExperienceYears))
		}
	}
	if r.Breakdown.Location >= 1.0 {
		loc := strings.ToLower(posting.Location)
		if strings.Contains(loc, "remote") || strings.Contains(strings.ToLower(user.Location), "remote") {
			reasons = append(reasons, "Remote friendly")
		} else if posting.Location != "" {
			reasons = append(reasons, "Location match: "+posting.Location)
		}
	}
	if len(r.SkillGaps) > 0 {
		reasons = append(reasons, "Skills to develop: "+strings.Join(r.SkillGaps, ", "))
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "Based on your profile and preferences")
	}

	return fmt.Sprintf("Score: %.1f%% - %s", r.Score*100, strings.Join(reasons, "; "))
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

func intersect(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func subtract(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for k := range a {
		if !b[k] {
			out[k] = true
		}
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedUnion(a, b map[string]bool) []string {
	union := make(map[string]bool, len(a)+len(b))
	for k := range a {
		union[k] = true
	}
	for k := range b {
		union[k] = true
	}
	return sortedKeys(union)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
