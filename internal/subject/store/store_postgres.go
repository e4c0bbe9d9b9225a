package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"moodlog/internal/platform/postgres"
	"moodlog/internal/subject/models"
	id "moodlog/pkg/domain"
	"moodlog/pkg/platform/sentinel"
	txcontext "moodlog/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, sub *models.Subject) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO subjects (id, supervisor_id, email, invitation_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.UUID(sub.ID), uuid.UUID(sub.SupervisorID), sub.Email, uuid.UUID(sub.InvitationID), sub.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert subject: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, subjectID id.SubjectID) (*models.Subject, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT id, supervisor_id, email, invitation_id, created_at FROM subjects WHERE id = $1
	`, uuid.UUID(subjectID))
	return scanSubject(row)
}

func (s *PostgresStore) ListBySupervisor(ctx context.Context, supervisor id.SupervisorID) ([]*models.Subject, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT id, supervisor_id, email, invitation_id, created_at FROM subjects
		WHERE supervisor_id = $1
		ORDER BY created_at
	`, uuid.UUID(supervisor))
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Subject, 0)
	for rows.Next() {
		sub, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountOnRoster(ctx context.Context, supervisor id.SupervisorID, subjectIDs []id.SubjectID) (int, error) {
	ids := make([]string, len(subjectIDs))
	for i, subjectID := range subjectIDs {
		ids[i] = subjectID.String()
	}
	var n int
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT count(*) FROM subjects WHERE supervisor_id = $1 AND id = ANY($2::uuid[])
	`, uuid.UUID(supervisor), pq.Array(ids)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count roster: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubject(row rowScanner) (*models.Subject, error) {
	var (
		sub                          models.Subject
		subjectID, supervisor, invID uuid.UUID
	)
	if err := row.Scan(&subjectID, &supervisor, &sub.Email, &invID, &sub.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan subject: %w", err)
	}
	sub.ID = id.SubjectID(subjectID)
	sub.SupervisorID = id.SupervisorID(supervisor)
	sub.InvitationID = id.InvitationID(invID)
	return &sub, nil
}
