package postgres

import (
	"context"
	"fmt"

	"asperro-contact-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createSubmissionsTable = `
	CREATE TABLE IF NOT EXISTS contact_submissions (
		id          UUID PRIMARY KEY,
		name        TEXT NOT NULL,
		email       TEXT NOT NULL,
		phone       TEXT NOT NULL DEFAULT '',
		message     TEXT NOT NULL,
		outcome     TEXT NOT NULL,
		request_id  TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

type SubmissionRepository struct {
	db *pgxpool.Pool
}

func NewSubmissionRepository(db *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// EnsureSchema creates the archive table when it does not exist yet
func (r *SubmissionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createSubmissionsTable); err != nil {
		return fmt.Errorf("create contact_submissions: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) Save(ctx context.Context, s *domain.ArchivedSubmission) error {
	query := `
		INSERT INTO contact_submissions (id, name, email, phone, message, outcome, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.Name, s.Email, s.Phone, s.Message, string(s.Outcome), s.RequestID, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact submission: %w", err)
	}
	return nil
}

// ListRecent returns the newest archived submissions, newest first
func (r *SubmissionRepository) ListRecent(ctx context.Context, limit int) ([]domain.ArchivedSubmission, error) {
	query := `
		SELECT id, name, email, phone, message, outcome, request_id, created_at
		FROM contact_submissions
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ArchivedSubmission
	for rows.Next() {
		var s domain.ArchivedSubmission
		var outcome string
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Message, &outcome, &s.RequestID, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Outcome = domain.SubmissionOutcome(outcome)
		out = append(out, s)
	}
	return out, rows.Err()
}
