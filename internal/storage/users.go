package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/REHANAMD/InternGenie/pkg/models"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// CreateUser inserts a new user and returns its id
func (s *Store) CreateUser(ctx context.Context, u *models.User) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, name, education, skills, location,
			experience_years, phone, linkedin, github, data_consent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.Email, u.PasswordHash, u.Name, u.Education, u.Skills, u.Location,
		u.ExperienceYears, u.Phone, u.LinkedIn, u.GitHub, boolToInt(u.DataConsent))
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}
	return int(id), nil
}

// GetUserByEmail fetches a user by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, userSelect+` WHERE email = ?`, email))
}

// GetUserByID fetches a user by id
func (s *Store) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, userSelect+` WHERE id = ?`, id))
}

const userSelect = `
	SELECT id, email, password_hash, name, education, skills, location,
		experience_years, phone, linkedin, github, data_consent, created_at, updated_at
	FROM users`

func (s *Store) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var consent int
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Education,
		&u.Skills, &u.Location, &u.ExperienceYears, &u.Phone, &u.LinkedIn,
		&u.GitHub, &consent, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	u.DataConsent = consent != 0
	return &u, nil
}

// UpdateUserProfile updates mutable profile fields
func (s *Store) UpdateUserProfile(ctx context.Context, id int, req *models.ProfileUpdateRequest) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = ?, education = ?, skills = ?, location = ?,
			experience_years = ?, phone = ?, linkedin = ?, github = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, req.Name, req.Education, req.Skills, req.Location, req.ExperienceYears,
		req.Phone, req.LinkedIn, req.GitHub, id)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// UpdateUserPassword replaces the stored password hash
func (s *Store) UpdateUserPassword(ctx context.Context, email, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE email = ?`,
		passwordHash, email)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetDataConsent toggles the chatbot privacy preference
func (s *Store) SetDataConsent(ctx context.Context, id int, consent bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET data_consent = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		boolToInt(consent), id)
	if err != nil {
		return fmt.Errorf("failed to update consent: %w", err)
	}
	return nil
}

// DeleteUser removes an account and its dependent rows
func (s *Store) DeleteUser(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM applications WHERE candidate_id = ?`,
		`DELETE FROM saved_internships WHERE candidate_id = ?`,
		`DELETE FROM user_behavior WHERE candidate_id = ?`,
		`DELETE FROM users WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete user data: %w", err)
		}
	}
	return tx.Commit()
}

// CreatePasswordReset stores a pending OTP for an email
func (s *Store) CreatePasswordReset(ctx context.Context, email, otp string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO password_resets (email, otp, expires_at) VALUES (?, ?, ?)`,
		email, otp, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create password reset: %w", err)
	}
	return nil
}

// GetActivePasswordReset returns an unused, unexpired reset matching the OTP
func (s *Store) GetActivePasswordReset(ctx context.Context, email, otp string) (*models.PasswordReset, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, otp, expires_at, used FROM password_resets
		WHERE email = ? AND otp = ? AND used = 0 AND expires_at > ?
		ORDER BY id DESC LIMIT 1
	`, email, otp, time.Now().UTC())

	var pr models.PasswordReset
	var used int
	if err := row.Scan(&pr.ID, &pr.Email, &pr.OTP, &pr.ExpiresAt, &used); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan password reset: %w", err)
	}
	pr.Used = used != 0
	return &pr, nil
}

// MarkPasswordResetUsed consumes an OTP
func (s *Store) MarkPasswordResetUsed(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE password_resets SET used = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark reset used: %w", err)
	}
	return nil
}

// DeleteExpiredPasswordResets prunes stale OTP rows, returning rows removed
func (s *Store) DeleteExpiredPasswordResets(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM password_resets WHERE used = 1 OR expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune password resets: %w", err)
	}
	return res.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
