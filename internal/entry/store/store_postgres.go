package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"moodlog/internal/entry/models"
	"moodlog/internal/register/schema"
	id "moodlog/pkg/domain"
	"moodlog/pkg/platform/sentinel"
	txcontext "moodlog/pkg/platform/tx"
)

// PostgresStore persists entries as flat JSON. Reads join the owning
// assignment so the answers are decoded against the schema they were written for.
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

const selectEntries = `
	SELECT e.id, e.assignment_id, e.subject_id, e.supervisor_id, e.definition_id, e.schema_version,
		e.data, e.entry_date, e.notes, e.created_at, e.updated_at, a.schema
	FROM entries e
	JOIN assignments a ON a.id = e.assignment_id`

func (s *PostgresStore) Create(ctx context.Context, e *models.Entry) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	_, err = s.execer(ctx).ExecContext(ctx, `
		INSERT INTO entries (id, assignment_id, subject_id, supervisor_id, definition_id, schema_version,
			data, entry_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		uuid.UUID(e.ID), uuid.UUID(e.AssignmentID), uuid.UUID(e.SubjectID), uuid.UUID(e.SupervisorID),
		uuid.UUID(e.DefinitionID), e.SchemaVersion, data, e.EntryDate, e.Notes, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, entryID id.EntryID) (*models.Entry, error) {
	row := s.execer(ctx).QueryRowContext(ctx, selectEntries+` WHERE e.id = $1`, uuid.UUID(entryID))
	return scanEntry(row)
}

func (s *PostgresStore) Update(ctx context.Context, e *models.Entry) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE entries SET data = $2, entry_date = $3, notes = $4, updated_at = $5
		WHERE id = $1
	`, uuid.UUID(e.ID), data, e.EntryDate, e.Notes, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return requireOneRow(res, "update entry")
}

func (s *PostgresStore) Delete(ctx context.Context, entryID id.EntryID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, uuid.UUID(entryID))
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return requireOneRow(res, "delete entry")
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subjectID id.SubjectID, filter models.Filter) ([]*models.Entry, error) {
	return s.list(ctx, "e.subject_id", uuid.UUID(subjectID), filter)
}

func (s *PostgresStore) ListBySupervisor(ctx context.Context, supervisor id.SupervisorID, filter models.Filter) ([]*models.Entry, error) {
	return s.list(ctx, "e.supervisor_id", uuid.UUID(supervisor), filter)
}

func (s *PostgresStore) list(ctx context.Context, ownerColumn string, owner uuid.UUID, filter models.Filter) ([]*models.Entry, error) {
	var assignmentID any
	if !filter.AssignmentID.IsNil() {
		assignmentID = uuid.UUID(filter.AssignmentID)
	}
	rows, err := s.execer(ctx).QueryContext(ctx, selectEntries+`
		WHERE `+ownerColumn+` = $1
			AND ($2::uuid IS NULL OR e.assignment_id = $2)
			AND ($3::date IS NULL OR e.entry_date >= $3)
			AND ($4::date IS NULL OR e.entry_date <= $4)
		ORDER BY e.entry_date DESC, e.created_at DESC
	`, owner, assignmentID, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DatesByAssignment(ctx context.Context, assignmentIDs []id.AssignmentID) (map[id.AssignmentID][]id.Date, error) {
	ids := make([]string, len(assignmentIDs))
	for i, aid := range assignmentIDs {
		ids[i] = aid.String()
	}
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT assignment_id, entry_date FROM entries
		WHERE assignment_id = ANY($1::uuid[])
		ORDER BY entry_date
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list entry dates: %w", err)
	}
	defer rows.Close()

	out := make(map[id.AssignmentID][]id.Date)
	for rows.Next() {
		var (
			aid uuid.UUID
			day id.Date
		)
		if err := rows.Scan(&aid, &day); err != nil {
			return nil, fmt.Errorf("scan entry date: %w", err)
		}
		out[id.AssignmentID(aid)] = append(out[id.AssignmentID(aid)], day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entry dates: %w", err)
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

func scanEntry(row rowScanner) (*models.Entry, error) {
	var (
		e                                     models.Entry
		entryID, assignmentID, subjectID, sup uuid.UUID
		defID                                 uuid.UUID
		dataJSON, fieldsJSON                  []byte
	)
	err := row.Scan(&entryID, &assignmentID, &subjectID, &sup, &defID, &e.SchemaVersion,
		&dataJSON, &e.EntryDate, &e.Notes, &e.CreatedAt, &e.UpdatedAt, &fieldsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan entry: %w", err)
	}

	var fields []schema.FieldSpec
	if err := json.Unmarshal(fieldsJSON, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(dataJSON, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	answers, err := schema.DecodeAnswers(schema.Schema{Version: e.SchemaVersion, Fields: fields}, raw)
	if err != nil {
		return nil, fmt.Errorf("decode stored answers: %w", err)
	}

	e.ID = id.EntryID(entryID)
	e.AssignmentID = id.AssignmentID(assignmentID)
	e.SubjectID = id.SubjectID(subjectID)
	e.SupervisorID = id.SupervisorID(sup)
	e.DefinitionID = id.DefinitionID(defID)
	e.Data = answers
	return &e, nil
}
