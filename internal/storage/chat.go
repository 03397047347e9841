package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/REHANAMD/InternGenie/pkg/models"
)

// InsertChatFeedback records whether a chatbot response was helpful
func (s *Store) InsertChatFeedback(ctx context.Context, fb *models.ChatFeedback) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_feedback (user_id, question, response, intent, helpful)
		VALUES (?, ?, ?, ?, ?)
	`, fb.UserID, fb.Question, fb.Response, fb.Intent, boolToInt(fb.Helpful))
	if err != nil {
		return fmt.Errorf("failed to insert chat feedback: %w", err)
	}
	return nil
}

// ListChatFeedback returns feedback rows since a cutoff, oldest first so
// retraining applies promotions in arrival order.
func (s *Store) ListChatFeedback(ctx context.Context, since time.Time) ([]models.ChatFeedback, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, question, response, intent, helpful, created_at
		FROM chat_feedback WHERE created_at >= ? ORDER BY id
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list chat feedback: %w", err)
	}
	defer rows.Close()

	var out []models.ChatFeedback
	for rows.Next() {
		var fb models.ChatFeedback
		var helpful int
		if err := rows.Scan(&fb.ID, &fb.UserID, &fb.Question, &fb.Response,
			&fb.Intent, &helpful, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat feedback: %w", err)
		}
		fb.Helpful = helpful != 0
		out = append(out, fb)
	}
	return out, rows.Err()
}

// CountChatFeedback reports total feedback rows
func (s *Store) CountChatFeedback(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM chat_feedback`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count chat feedback: %w", err)
	}
	return n, nil
}
