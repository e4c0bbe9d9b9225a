package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"moodlog/internal/clinicalnote/models"
	"moodlog/internal/platform/postgres"
	id "moodlog/pkg/domain"
	"moodlog/pkg/platform/sentinel"
	txcontext "moodlog/pkg/platform/tx"
)

const selectNotes = `
	SELECT id, entry_id, subject_id, supervisor_id, text, created_at, updated_at
	FROM clinical_notes`

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

func (s *PostgresStore) Create(ctx context.Context, n *models.Note) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO clinical_notes (id, entry_id, subject_id, supervisor_id, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.UUID(n.ID), uuid.UUID(n.EntryID), uuid.UUID(n.SubjectID), uuid.UUID(n.SupervisorID), n.Text, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert clinical note: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, noteID id.NoteID) (*models.Note, error) {
	row := s.execer(ctx).QueryRowContext(ctx, selectNotes+` WHERE id = $1`, uuid.UUID(noteID))
	return scanNote(row)
}

func (s *PostgresStore) Update(ctx context.Context, n *models.Note) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE clinical_notes SET text = $2, updated_at = $3 WHERE id = $1
	`, uuid.UUID(n.ID), n.Text, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update clinical note: %w", err)
	}
	return requireOneRow(res, "update clinical note")
}

func (s *PostgresStore) Delete(ctx context.Context, noteID id.NoteID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM clinical_notes WHERE id = $1`, uuid.UUID(noteID))
	if err != nil {
		return fmt.Errorf("delete clinical note: %w", err)
	}
	return requireOneRow(res, "delete clinical note")
}

func (s *PostgresStore) ListByEntry(ctx context.Context, entryID id.EntryID) ([]*models.Note, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, selectNotes+`
		WHERE entry_id = $1
		ORDER BY created_at DESC
	`, uuid.UUID(entryID))
	if err != nil {
		return nil, fmt.Errorf("list clinical notes: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clinical notes: %w", err)
	}
	return out, nil
}

func requireOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var (
		n                                   models.Note
		noteID, entryID, subjectID, superID uuid.UUID
	)
	err := row.Scan(&noteID, &entryID, &subjectID, &superID, &n.Text, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan clinical note: %w", err)
	}
	n.ID = id.NoteID(noteID)
	n.EntryID = id.EntryID(entryID)
	n.SubjectID = id.SubjectID(subjectID)
	n.SupervisorID = id.SupervisorID(superID)
	return &n, nil
}
