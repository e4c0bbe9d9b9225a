package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moodlog/internal/assignment/models"
	"moodlog/internal/platform/postgres"
	"moodlog/internal/register/schema"
	id "moodlog/pkg/domain"
	"moodlog/pkg/platform/sentinel"
	txcontext "moodlog/pkg/platform/tx"
)

const activeUniqueIndex = "assignments_one_active_per_subject_definition"

// PostgresStore persists assignments. The partial unique index on active
// (subject_id, definition_id) backs the one-active-per-pair rule.
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

const assignmentColumns = `id, definition_id, subject_id, supervisor_id, schema, schema_version, cadence,
	start_date, end_date, active, notes, created_at, updated_at, deactivated_at`

// CreateMany inserts every row. Callers run it inside a transaction so a
// conflict on any row rolls back the rest.
func (s *PostgresStore) CreateMany(ctx context.Context, rows []*models.Assignment) error {
	for _, a := range rows {
		fields, err := json.Marshal(a.Schema.Fields)
		if err != nil {
			return fmt.Errorf("marshal schema: %w", err)
		}
		_, err = s.execer(ctx).ExecContext(ctx, `
			INSERT INTO assignments (`+assignmentColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`,
			uuid.UUID(a.ID), uuid.UUID(a.DefinitionID), uuid.UUID(a.SubjectID), uuid.UUID(a.SupervisorID),
			fields, a.Schema.Version, string(a.Cadence), a.StartDate, a.EndDate, a.Active, a.Notes,
			a.CreatedAt, a.UpdatedAt, a.DeactivatedAt,
		)
		if err != nil {
			if postgres.IsUniqueViolation(err, activeUniqueIndex) {
				return sentinel.ErrConflict
			}
			return fmt.Errorf("insert assignment: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, assignmentID id.AssignmentID) (*models.Assignment, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, uuid.UUID(assignmentID))
	return scanAssignment(row)
}

func (s *PostgresStore) Update(ctx context.Context, a *models.Assignment) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE assignments
		SET active = $2, notes = $3, end_date = $4, updated_at = $5, deactivated_at = $6
		WHERE id = $1
	`, uuid.UUID(a.ID), a.Active, a.Notes, a.EndDate, a.UpdatedAt, a.DeactivatedAt)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListBySupervisor(ctx context.Context, supervisor id.SupervisorID, activeOnly bool) ([]*models.Assignment, error) {
	return s.list(ctx, `supervisor_id = $1 AND (NOT $2 OR active)`, uuid.UUID(supervisor), activeOnly)
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subjectID id.SubjectID, activeOnly bool) ([]*models.Assignment, error) {
	return s.list(ctx, `subject_id = $1 AND (NOT $2 OR active)`, uuid.UUID(subjectID), activeOnly)
}

func (s *PostgresStore) HasActive(ctx context.Context, subjectID id.SubjectID, defID id.DefinitionID) (bool, error) {
	var exists bool
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM assignments WHERE subject_id = $1 AND definition_id = $2 AND active)
	`, uuid.UUID(subjectID), uuid.UUID(defID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active assignment: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) CountActiveByDefinition(ctx context.Context, defID id.DefinitionID) (int, error) {
	var n int
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT count(*) FROM assignments WHERE definition_id = $1 AND active`, uuid.UUID(defID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active assignments: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) list(ctx context.Context, where string, args ...any) ([]*models.Assignment, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (*models.Assignment, error) {
	var (
		a                                   models.Assignment
		assignmentID, defID, subjectID, sup uuid.UUID
		fieldsJSON                          []byte
		version                             int
		cadence                             string
		deactivatedAt                       sql.NullTime
	)
	err := row.Scan(&assignmentID, &defID, &subjectID, &sup, &fieldsJSON, &version, &cadence,
		&a.StartDate, &a.EndDate, &a.Active, &a.Notes, &a.CreatedAt, &a.UpdatedAt, &deactivatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan assignment: %w", err)
	}

	var fields []schema.FieldSpec
	if err := json.Unmarshal(fieldsJSON, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	a.ID = id.AssignmentID(assignmentID)
	a.DefinitionID = id.DefinitionID(defID)
	a.SubjectID = id.SubjectID(subjectID)
	a.SupervisorID = id.SupervisorID(sup)
	a.Schema = schema.Schema{Version: version, Fields: fields}
	a.Cadence = models.Cadence(cadence)
	if deactivatedAt.Valid {
		t := deactivatedAt.Time.In(time.UTC)
		a.DeactivatedAt = &t
	}
	return &a, nil
}
