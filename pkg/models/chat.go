package models

import "time"

// ChatReply is the chatbot's answer to a single question
type ChatReply struct {
	Response   string  `json:"response"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// ChatFeedback records whether a generated response was helpful. Feedback
// rows drive the keyword-promotion retraining pass.
type ChatFeedback struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Question  string    `json:"question"`
	Response  string    `json:"response"`
	Intent    string    `json:"intent"`
	Helpful   bool      `json:"helpful"`
	CreatedAt time.Time `json:"created_at"`
}
