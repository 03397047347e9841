package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/REHANAMD/InternGenie/pkg/models"
)

// ErrAlreadyApplied is returned when a candidate applies twice to one posting
var ErrAlreadyApplied = errors.New("already applied")

// CreateApplication records an application, enforcing one per posting
func (s *Store) CreateApplication(ctx context.Context, candidateID, internshipID int) (int, error) {
	var existing string
	err := s.db.QueryRowContext(ctx,
		`SELECT status FROM applications WHERE candidate_id = ? AND internship_id = ?`,
		candidateID, internshipID).Scan(&existing)
	switch {
	case err == nil:
		if existing != models.ApplicationStatusWithdrawn {
			return 0, ErrAlreadyApplied
		}
		// Re-applying after withdrawal reactivates the row
		_, err := s.db.ExecContext(ctx, `
			UPDATE applications SET status = ?, applied_at = CURRENT_TIMESTAMP,
				updated_at = CURRENT_TIMESTAMP
			WHERE candidate_id = ? AND internship_id = ?
		`, models.ApplicationStatusPending, candidateID, internshipID)
		if err != nil {
			return 0, fmt.Errorf("failed to reactivate application: %w", err)
		}
		var id int
		err = s.db.QueryRowContext(ctx,
			`SELECT id FROM applications WHERE candidate_id = ? AND internship_id = ?`,
			candidateID, internshipID).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to read application id: %w", err)
		}
		return id, nil
	case errors.Is(err, sql.ErrNoRows):
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO applications (candidate_id, internship_id, status) VALUES (?, ?, ?)`,
			candidateID, internshipID, models.ApplicationStatusPending)
		if err != nil {
			return 0, fmt.Errorf("failed to create application: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read application id: %w", err)
		}
		return int(id), nil
	default:
		return 0, fmt.Errorf("failed to check application: %w", err)
	}
}

// ListApplications returns a candidate's applications newest first, with
// posting fields denormalized for list views. Withdrawn rows are included.
func (s *Store) ListApplications(ctx context.Context, candidateID int) ([]models.Application, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.candidate_id, a.internship_id, a.status, a.applied_at,
			a.updated_at, i.title, i.company, i.location, i.stipend
		FROM applications a
		JOIN internships i ON i.id = a.internship_id
		WHERE a.candidate_id = ?
		ORDER BY a.applied_at DESC, a.id DESC
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
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

// GetApplication fetches one application owned by a candidate
func (s *Store) GetApplication(ctx context.Context, id, candidateID int) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.candidate_id, a.internship_id, a.status, a.applied_at,
			a.updated_at, i.title, i.company, i.location, i.stipend
		FROM applications a
		JOIN internships i ON i.id = a.internship_id
		WHERE a.id = ? AND a.candidate_id = ?
	`, id, candidateID)

	var a models.Application
	err := row.Scan(&a.ID, &a.CandidateID, &a.InternshipID, &a.Status,
		&a.AppliedAt, &a.UpdatedAt, &a.Title, &a.Company, &a.Location, &a.Stipend)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan application: %w", err)
	}
	return &a, nil
}

// UpdateApplicationStatus moves an application through the tracker lifecycle
func (s *Store) UpdateApplicationStatus(ctx context.Context, id int, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE applications SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// HasApplied reports whether a candidate has a live application for a posting
func (s *Store) HasApplied(ctx context.Context, candidateID, internshipID int) (bool, error) {
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT status FROM applications WHERE candidate_id = ? AND internship_id = ?`,
		candidateID, internshipID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}
	return status != models.ApplicationStatusWithdrawn, nil
}

// AppliedInternshipIDs returns the set of posting ids the candidate has a
// live application on. Withdrawn applications do not count, so those
// postings flow back into recommendations.
func (s *Store) AppliedInternshipIDs(ctx context.Context, candidateID int) (map[int]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT internship_id FROM applications WHERE candidate_id = ? AND status != ?`,
		candidateID, models.ApplicationStatusWithdrawn)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied ids: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan applied id: %w", err)
		}
		applied[id] = true
	}
	return applied, rows.Err()
}

// SaveInternship adds a posting to the candidate's saved list (idempotent)
func (s *Store) SaveInternship(ctx context.Context, candidateID, internshipID int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO saved_internships (candidate_id, internship_id) VALUES (?, ?)`,
		candidateID, internshipID)
	if err != nil {
		return fmt.Errorf("failed to save internship: %w", err)
	}
	return nil
}

// UnsaveInternship removes a posting from the saved list
func (s *Store) UnsaveInternship(ctx context.Context, candidateID, internshipID int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_internships WHERE candidate_id = ? AND internship_id = ?`,
		candidateID, internshipID)
	if err != nil {
		return fmt.Errorf("failed to unsave internship: %w", err)
	}
	return nil
}

// SavedInternshipIDs returns the set of posting ids the candidate saved
func (s *Store) SavedInternshipIDs(ctx context.Context, candidateID int) (map[int]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT internship_id FROM saved_internships WHERE candidate_id = ?`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved ids: %w", err)
	}
	defer rows.Close()

	saved := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan saved id: %w", err)
		}
		saved[id] = true
	}
	return saved, rows.Err()
}

// ListSavedInternships returns full postings from the candidate's saved list
func (s *Store) ListSavedInternships(ctx context.Context, candidateID int) ([]models.Internship, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.title, i.company, i.location, i.description,
			i.required_skills, i.preferred_skills, i.duration, i.stipend,
			i.min_education, i.experience_required, i.application_deadline,
			i.posted_date, i.is_active
		FROM saved_internships s
		JOIN internships i ON i.id = s.internship_id
		WHERE s.candidate_id = ?
		ORDER BY s.saved_at DESC
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved internships: %w", err)
	}
	defer rows.Close()

	return scanInternships(rows)
}
