package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/REHANAMD/InternGenie/pkg/models"
)

// RecordBehavior stores one tracked interaction
func (s *Store) RecordBehavior(ctx context.Context, candidateID int, action string, internshipID int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_behavior (candidate_id, action, internship_id) VALUES (?, ?, ?)`,
		candidateID, action, internshipID)
	if err != nil {
		return fmt.Errorf("failed to record behavior: %w", err)
	}
	return nil
}

// ListBehaviors returns events since a cutoff; candidateID 0 means all users
func (s *Store) ListBehaviors(ctx context.Context, candidateID int, since time.Time) ([]models.BehaviorEvent, error) {
	query := `SELECT id, candidate_id, action, internship_id, created_at
		FROM user_behavior WHERE created_at >= ?`
	args := []interface{}{since.UTC()}
	if candidateID != 0 {
		query += ` AND candidate_id = ?`
		args = append(args, candidateID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list behaviors: %w", err)
	}
	defer rows.Close()

	var out []models.BehaviorEvent
	for rows.Next() {
		var b models.BehaviorEvent
		if err := rows.Scan(&b.ID, &b.CandidateID, &b.Action, &b.InternshipID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan behavior: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListAllApplications returns every application joined with its posting,
// used by the market insights aggregation.
func (s *Store) ListAllApplications(ctx context.Context) ([]models.Application, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.candidate_id, a.internship_id, a.status, a.applied_at,
			a.updated_at, i.title, i.company, i.location, i.stipend
		FROM applications a
		JOIN internships i ON i.id = a.internship_id
		ORDER BY a.applied_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list all applications: %w", err)
	}
	defer rows.Close()

	var out []models.Application
	for rows.Next() {
		var a models.Application
		if err := rows.Scan(&a.ID, &a.CandidateID, &a.InternshipID, &a.Status,
			&a.AppliedAt, &a.UpdatedAt, &a.Title, &a.Company, &a.Location,
			&a.Stipend); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
