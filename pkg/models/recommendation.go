package models

// Recommendation is one ranked entry returned to the HTTP layer. Score is
// always in [0,1] and deterministic for a fixed (profile, posting) pair.
type Recommendation struct {
	InternshipID    int      `json:"internship_id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Description     string   `json:"description,omitempty"`
	RequiredSkills  string   `json:"required_skills"`
	PreferredSkills string   `json:"preferred_skills,omitempty"`
	Duration        string   `json:"duration,omitempty"`
	Stipend         string   `json:"stipend,omitempty"`
	Score           float64  `json:"score"`
	Explanation     string   `json:"explanation"`
	MatchedSkills   []string `json:"matched_skills"`
	SkillGaps       []string `json:"skill_gaps"`
	IsSaved         bool     `json:"is_saved"`
}

// ScoreBreakdown carries the per-component subscores behind a recommendation,
// used for the explanation endpoint and the chatbot's "your match" answers.
type ScoreBreakdown struct {
	Skill      float64 `json:"skill"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Location   float64 `json:"location"`
}
