package models

import "time"

// Internship represents a posted internship listing. Postings are immutable
// once published; only IsActive toggles lifecycle.
type Internship struct {
	ID                  int       `json:"id"`
	Title               string    `json:"title"`
	Company             string    `json:"company"`
	Location            string    `json:"location"`
	Description         string    `json:"description,omitempty"`
	RequiredSkills      string    `json:"required_skills"`  // comma separated
	PreferredSkills     string    `json:"preferred_skills"` // comma separated
	Duration            string    `json:"duration,omitempty"`
	Stipend             string    `json:"stipend,omitempty"` // free text, possibly "Unpaid"
	MinEducation        string    `json:"min_education,omitempty"`
	ExperienceRequired  int       `json:"experience_required"`
	ApplicationDeadline string    `json:"application_deadline,omitempty"`
	PostedDate          time.Time `json:"posted_date"`
	IsActive            bool      `json:"is_active"`
}
