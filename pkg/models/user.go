package models

import "time"

// User represents a registered candidate account
type User struct {
	ID              int       `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Name            string    `json:"name"`
	Education       string    `json:"education,omitempty"`
	Skills          string    `json:"skills,omitempty"` // comma separated, normalized at scoring time
	Location        string    `json:"location,omitempty"`
	ExperienceYears int       `json:"experience_years"`
	Phone           string    `json:"phone,omitempty"`
	LinkedIn        string    `json:"linkedin,omitempty"`
	GitHub          string    `json:"github,omitempty"`
	DataConsent     bool      `json:"data_consent"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PasswordReset holds a pending OTP-based password reset
type PasswordReset struct {
	ID        int
	Email     string
	OTP       string
	ExpiresAt time.Time
	Used      bool
}
