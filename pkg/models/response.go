package models

import "time"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// AuthResponse is returned by register, login and refresh
type AuthResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// RecommendationsResponse wraps a ranked recommendation list
type RecommendationsResponse struct {
	Success         bool             `json:"success"`
	Count           int              `json:"count"`
	Cached          bool             `json:"cached"`
	Recommendations []Recommendation `json:"recommendations"`
}

// InternshipsResponse wraps a catalog listing
type InternshipsResponse struct {
	Success     bool         `json:"success"`
	Count       int          `json:"count"`
	Internships []Internship `json:"internships"`
}

// ApplicationsResponse wraps a candidate's application list
type ApplicationsResponse struct {
	Success      bool          `json:"success"`
	Count        int           `json:"count"`
	Applications []Application `json:"applications"`
}

// ChatResponse wraps a chatbot reply
type ChatResponse struct {
	Success bool       `json:"success"`
	Reply   *ChatReply `json:"reply"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// MessageResponse is a generic success envelope
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
