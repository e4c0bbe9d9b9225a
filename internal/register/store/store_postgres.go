package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moodlog/internal/platform/postgres"
	"moodlog/internal/register/models"
	"moodlog/internal/register/schema"
	id "moodlog/pkg/domain"
	"moodlog/pkg/platform/sentinel"
	txcontext "moodlog/pkg/platform/tx"
)

// PostgresStore persists definitions in PostgreSQL. It joins the transaction
// carried in the context when there is one.
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

const definitionColumns = `id, owner_id, name, description, schema, schema_version, provenance,
	template_id, active, created_at, updated_at, retired_at`

func (s *PostgresStore) Create(ctx context.Context, d *models.Definition) error {
	fields, err := json.Marshal(d.Schema.Fields)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	_, err = s.execer(ctx).ExecContext(ctx, `
		INSERT INTO register_definitions (`+definitionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		uuid.UUID(d.ID), uuid.UUID(d.OwnerID), d.Name, d.Description, fields, d.Schema.Version,
		string(d.Provenance), nullString(d.TemplateID), d.Active, d.CreatedAt, d.UpdatedAt, d.RetiredAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert definition: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, defID id.DefinitionID) (*models.Definition, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+definitionColumns+` FROM register_definitions WHERE id = $1`, uuid.UUID(defID))
	return scanDefinition(row)
}

// FindForUpdate locks the row until the surrounding transaction ends.
func (s *PostgresStore) FindForUpdate(ctx context.Context, defID id.DefinitionID) (*models.Definition, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+definitionColumns+` FROM register_definitions WHERE id = $1 FOR UPDATE`, uuid.UUID(defID))
	return scanDefinition(row)
}

func (s *PostgresStore) ListByOwner(ctx context.Context, owner id.SupervisorID, includeRetired bool) ([]*models.Definition, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT `+definitionColumns+` FROM register_definitions
		WHERE owner_id = $1 AND ($2 OR active)
		ORDER BY created_at DESC
	`, uuid.UUID(owner), includeRetired)
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Definition, 0)
	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate definitions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, d *models.Definition) error {
	fields, err := json.Marshal(d.Schema.Fields)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE register_definitions
		SET name = $2, description = $3, schema = $4, schema_version = $5,
			active = $6, updated_at = $7, retired_at = $8
		WHERE id = $1
	`, uuid.UUID(d.ID), d.Name, d.Description, fields, d.Schema.Version, d.Active, d.UpdatedAt, d.RetiredAt)
	if err != nil {
		return fmt.Errorf("update definition: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update definition: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDefinition(row rowScanner) (*models.Definition, error) {
	var (
		d          models.Definition
		defID      uuid.UUID
		owner      uuid.UUID
		fieldsJSON []byte
		version    int
		provenance string
		templateID sql.NullString
		retiredAt  sql.NullTime
	)
	err := row.Scan(&defID, &owner, &d.Name, &d.Description, &fieldsJSON, &version, &provenance,
		&templateID, &d.Active, &d.CreatedAt, &d.UpdatedAt, &retiredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan definition: %w", err)
	}

	var fields []schema.FieldSpec
	if err := json.Unmarshal(fieldsJSON, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	d.ID = id.DefinitionID(defID)
	d.OwnerID = id.SupervisorID(owner)
	d.Schema = schema.Schema{Version: version, Fields: fields}
	d.Provenance = models.Provenance(provenance)
	d.TemplateID = templateID.String
	if retiredAt.Valid {
		t := retiredAt.Time.In(time.UTC)
		d.RetiredAt = &t
	}
	return &d, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
