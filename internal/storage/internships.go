package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/REHANAMD/InternGenie/pkg/models"
)

const internshipSelect = `
	SELECT id, title, company, location, description, required_skills,
		preferred_skills, duration, stipend, min_education, experience_required,
		application_deadline, posted_date, is_active
	FROM internships`

// ListActiveInternships returns the current catalog, ordered by id for
// deterministic downstream ranking.
func (s *Store) ListActiveInternships(ctx context.Context) ([]models.Internship, error) {
	rows, err := s.db.QueryContext(ctx, internshipSelect+` WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list internships: %w", err)
	}
	defer rows.Close()

	return scanInternships(rows)
}

// ListInternships returns all postings regardless of lifecycle state
func (s *Store) ListInternships(ctx context.Context, limit, offset int) ([]models.Internship, error) {
	rows, err := s.db.QueryContext(ctx,
		internshipSelect+` ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list internships: %w", err)
	}
	defer rows.Close()

	return scanInternships(rows)
}

func scanInternships(rows *sql.Rows) ([]models.Internship, error) {
	var out []models.Internship
	for rows.Next() {
		var in models.Internship
		var active int
		if err := rows.Scan(&in.ID, &in.Title, &in.Company, &in.Location,
			&in.Description, &in.RequiredSkills, &in.PreferredSkills, &in.Duration,
			&in.Stipend, &in.MinEducation, &in.ExperienceRequired,
			&in.ApplicationDeadline, &in.PostedDate, &active); err != nil {
			return nil, fmt.Errorf("failed to scan internship: %w", err)
		}
		in.IsActive = active != 0
		out = append(out, in)
	}
	return out, rows.Err()
}

// GetInternship fetches a single posting by id
func (s *Store) GetInternship(ctx context.Context, id int) (*models.Internship, error) {
	row := s.db.QueryRowContext(ctx, internshipSelect+` WHERE id = ?`, id)

	var in models.Internship
	var active int
	err := row.Scan(&in.ID, &in.Title, &in.Company, &in.Location, &in.Description,
		&in.RequiredSkills, &in.PreferredSkills, &in.Duration, &in.Stipend,
		&in.MinEducation, &in.ExperienceRequired, &in.ApplicationDeadline,
		&in.PostedDate, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan internship: %w", err)
	}
	in.IsActive = active != 0
	return &in, nil
}

// CreateInternship inserts a posting and returns its id
func (s *Store) CreateInternship(ctx context.Context, in *models.Internship) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO internships (title, company, location, description,
			required_skills, preferred_skills, duration, stipend, min_education,
			experience_required, application_deadline, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`, in.Title, in.Company, in.Location, in.Description, in.RequiredSkills,
		in.PreferredSkills, in.Duration, in.Stipend, in.MinEducation,
		in.ExperienceRequired, in.ApplicationDeadline)
	if err != nil {
		return 0, fmt.Errorf("failed to create internship: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read internship id: %w", err)
	}
	return int(id), nil
}

// SetInternshipActive toggles the soft-delete flag; postings are otherwise
// immutable once published.
func (s *Store) SetInternshipActive(ctx context.Context, id int, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE internships SET is_active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("failed to toggle internship: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountInternships reports catalog size, used by seeding and health checks
func (s *Store) CountInternships(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM internships`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count internships: %w", err)
	}
	return n, nil
}
