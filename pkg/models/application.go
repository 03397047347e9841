package models

import "time"

// Application statuses follow the original tracker lifecycle.
const (
	ApplicationStatusPending   = "pending"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusWithdrawn = "withdrawn"
)

// Application represents a candidate's application to an internship
type Application struct {
	ID           int       `json:"id"`
	CandidateID  int       `json:"candidate_id"`
	InternshipID int       `json:"internship_id"`
	Status       string    `json:"status"`
	AppliedAt    time.Time `json:"applied_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Denormalized posting fields for list views
	Title    string `json:"title,omitempty"`
	Company  string `json:"company,omitempty"`
	Location string `json:"location,omitempty"`
	Stipend  string `json:"stipend,omitempty"`
}

// BehaviorEvent is a tracked user interaction feeding the insights module
type BehaviorEvent struct {
	ID           int       `json:"id"`
	CandidateID  int       `json:"candidate_id"`
	Action       string    `json:"action"` // view, save, unsave, apply, withdraw
	InternshipID int       `json:"internship_id"`
	CreatedAt    time.Time `json:"created_at"`
}
