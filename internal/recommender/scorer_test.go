package recommender

import (
	"reflect"
	"strings"
	"testing"

	"github.com/REHANAMD/InternGenie/pkg/models"
)

func testWeights() Weights {
	return Weights{
		Skill:            0.5,
		Experience:       0.2,
		Education:        0.15,
		Location:         0.15,
		PreferredBonus:   0.7,
		EducationPartial: 0.5,
		LocationPartial:  0.6,
		LocationBaseline: 0.3,
	}
}

func TestScoreStaysWithinBounds(t *testing.T) {
	scorer := NewScorer(testWeights())

	users := []*models.User{
		{},
		{Skills: "python, sql", ExperienceYears: 1, Education: "Bachelor's", Location: "Mumbai"},
		{Skills: "go,rust,kubernetes,docker,terraform", ExperienceYears: 50, Education: "PhD", Location: "Remote"},
	}
	postings := []*models.Internship{
		{ID: 1, Title: "A"},
		{ID: 2, Title: "B", RequiredSkills: "python,react", PreferredSkills: "sql", ExperienceRequired: 3, MinEducation: "Master's", Location: "Delhi"},
		{ID: 3, Title: "C", RequiredSkills: "cobol", Location: "Pune", ExperienceRequired: 10},
	}

	for _, u := range users {
		for _, p := range postings {
			r := scorer.Score(u, p)
			if r.Score < 0 || r.Score > 1 {
				t.Fatalf("score out of bounds: %v for user %+v posting %d", r.Score, u, p.ID)
			}
			for _, sub := range []float64{r.Breakdown.Skill, r.Breakdown.Experience, r.Breakdown.Education, r.Breakdown.Location} {
				if sub < 0 || sub > 1 {
					t.Fatalf("subscore out of bounds: %+v", r.Breakdown)
				}
			}
		}
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	scorer := NewScorer(testWeights())
	user := &models.User{Skills: "Python, SQL ", ExperienceYears: 2, Education: "Bachelor's", Location: "Mumbai"}
	posting := &models.Internship{ID: 7, Title: "Data Intern", RequiredSkills: "python,pandas", PreferredSkills: "sql", Location: "Remote"}

	first := scorer.Score(user, posting)
	second := scorer.Score(user, posting)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("scoring is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestEmptyRequiredSkillsGivesMaxSkillSubscore(t *testing.T) {
	scorer := NewScorer(testWeights())
	user := &models.User{Skills: "python"}
	posting := &models.Internship{ID: 1, Title: "Open Role"}

	r := scorer.Score(user, posting)
	if r.Breakdown.Skill != 1.0 {
		t.Fatalf("expected skill subscore 1.0 for unconstrained posting, got %v", r.Breakdown.Skill)
	}
	if len(r.SkillGaps) != 0 {
		t.Fatalf("expected no skill gaps, got %v", r.SkillGaps)
	}
}

func TestEmptyCandidateSkillsDegradesGracefully(t *testing.T) {
	scorer := NewScorer(testWeights())
	user := &models.User{ExperienceYears: 1}
	posting := &models.Internship{ID: 1, Title: "Backend Intern", RequiredSkills: "go,sql"}

	r := scorer.Score(user, posting)
	if r.Breakdown.Skill != 0 {
		t.Fatalf("expected skill subscore 0, got %v", r.Breakdown.Skill)
	}
	if len(r.MatchedSkills) != 0 {
		t.Fatalf("expected no matched skills, got %v", r.MatchedSkills)
	}
	want := []string{"go", "sql"}
	if !reflect.DeepEqual(r.SkillGaps, want) {
		t.Fatalf("expected gaps %v, got %v", want, r.SkillGaps)
	}
}

func TestMatchedSkillsAndGapsAreSetDerived(t *testing.T) {
	scorer := NewScorer(testWeights())
	user := &models.User{Skills: " Python , SQL , excel"}
	posting := &models.Internship{
		ID:              1,
		Title:           "Analyst Intern",
		RequiredSkills:  "python, react",
		PreferredSkills: "sql, tableau",
	}

	r := scorer.Score(user, posting)

	wantMatched := []string{"python", "sql"}
	if !reflect.DeepEqual(r.MatchedSkills, wantMatched) {
		t.Fatalf("expected matched %v, got %v", wantMatched, r.MatchedSkills)
	}
	wantGaps := []string{"react"}
	if !reflect.DeepEqual(r.SkillGaps, wantGaps) {
		t.Fatalf("expected gaps %v, got %v", wantGaps, r.SkillGaps)
	}
}

func TestExperienceSubscore(t *testing.T) {
	cases := []struct {
		name     string
		years    int
		required int
		want     float64
	}{
		{"meets requirement", 3, 2, 1.0},
		{"no requirement", 0, 0, 1.0},
		{"linear falloff", 1, 4, 0.25},
		{"zero years short", 0, 2, 0.0},
	}
	for _, tc := range cases {
		if got := experienceSubscore(tc.years, tc.required); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestEducationSubscore(t *testing.T) {
	scorer := NewScorer(testWeights())

	cases := []struct {
		name      string
		candidate string
		minimum   string
		want      float64
	}{
		{"no requirement", "High School", "", 1.0},
		{"meets bar", "Master's", "Bachelor's", 1.0},
		{"exceeds bar", "PhD", "Diploma", 1.0},
		{"below bar gets partial credit", "Diploma", "Master's", 0.5},
		{"unknown requirement treated as none", "High School", "Bootcamp", 1.0},
	}
	for _, tc := range cases {
		if got := scorer.educationSubscore(tc.candidate, tc.minimum); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestLocationSubscore(t *testing.T) {
	scorer := NewScorer(testWeights())

	cases := []struct {
		name      string
		candidate string
		posting   string
		want      float64
	}{
		{"exact match", "Mumbai", "Mumbai", 1.0},
		{"remote posting", "Mumbai", "Remote", 1.0},
		{"remote candidate", "Remote", "Bangalore", 1.0},
		{"containment", "Navi Mumbai", "Mumbai", 0.6},
		{"no overlap keeps baseline", "Delhi", "Chennai", 0.3},
		{"missing candidate location", "", "Chennai", 0.3},
	}
	for _, tc := range cases {
		if got := scorer.locationSubscore(tc.candidate, tc.posting); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestStrongerSkillMatchRanksHigher(t *testing.T) {
	scorer := NewScorer(testWeights())
	user := &models.User{Skills: "python,sql", ExperienceYears: 1, Location: "Mumbai"}

	matching := &models.Internship{
		ID: 1, Title: "Data Intern",
		RequiredSkills: "python,react", PreferredSkills: "sql",
		Location: "Remote",
	}
	mismatched := &models.Internship{
		ID: 2, Title: "Systems Intern",
		RequiredSkills: "java,c++", PreferredSkills: "sql",
		Location: "Remote",
	}

	a := scorer.Score(user, matching)
	b := scorer.Score(user, mismatched)

	if a.Breakdown.Experience != 1.0 {
		t.Fatalf("expected experience subscore 1.0, got %v", a.Breakdown.Experience)
	}
	if a.Breakdown.Location != 1.0 {
		t.Fatalf("expected remote location subscore 1.0, got %v", a.Breakdown.Location)
	}
	if a.Score <= b.Score {
		t.Fatalf("expected matching posting to outrank mismatched: %v vs %v", a.Score, b.Score)
	}
}

func TestExplanationMentionsMatchedSkills(t *testing.T) {
	scorer := NewScorer(testWeights())
	user := &models.User{Skills: "python", Location: "Remote"}
	posting := &models.Internship{ID: 1, Title: "ML Intern", RequiredSkills: "python,numpy"}

	r := scorer.Score(user, posting)
	if r.Explanation == "" {
		t.Fatal("expected non-empty explanation")
	}
	for _, want := range []string{"python", "numpy"} {
		if !strings.Contains(r.Explanation, want) {
			t.Fatalf("expected explanation to mention %q: %s", want, r.Explanation)
		}
	}
}
