package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moodlog/internal/invitation/models"
	id "moodlog/pkg/domain"
	"moodlog/pkg/platform/sentinel"
	txcontext "moodlog/pkg/platform/tx"
)

// PostgresStore persists invitation codes. The partial unique index
// invitation_codes_unused_code keeps codes unique among unused rows.
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

const invitationColumns = `id, supervisor_id, code, email, expires_at, used_at, subject_id, created_at`

// Create inserts the row, reporting a code collision as ErrConflict. ON CONFLICT
// keeps the surrounding transaction usable so the caller can retry with a new code.
func (s *PostgresStore) Create(ctx context.Context, inv *models.Invitation) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO invitation_codes (`+invitationColumns+`)
		VALUES ($1, $2, $3, $4, $5, NULL, NULL, $6)
		ON CONFLICT (code) WHERE used_at IS NULL DO NOTHING
	`, uuid.UUID(inv.ID), uuid.UUID(inv.SupervisorID), inv.Code, inv.Email, inv.ExpiresAt, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert invitation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert invitation: %w", err)
	}
	if n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

// LockIssuance takes a transaction-scoped advisory lock on (supervisor, email).
// It only serializes issuers when called inside a transaction.
func (s *PostgresStore) LockIssuance(ctx context.Context, supervisor id.SupervisorID, email string) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`, supervisor.String()+":"+email)
	if err != nil {
		return fmt.Errorf("lock issuance: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindActiveByEmail(ctx context.Context, supervisor id.SupervisorID, email string, now time.Time) (*models.Invitation, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT `+invitationColumns+` FROM invitation_codes
		WHERE supervisor_id = $1 AND email = $2 AND used_at IS NULL AND expires_at >= $3
		ORDER BY created_at DESC
		LIMIT 1
	`, uuid.UUID(supervisor), email, now)
	return scanInvitation(row)
}

// FindUnusedByCode locks the matching row for the rest of the transaction.
func (s *PostgresStore) FindUnusedByCode(ctx context.Context, code string) (*models.Invitation, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT `+invitationColumns+` FROM invitation_codes
		WHERE code = $1 AND used_at IS NULL
		FOR UPDATE
	`, code)
	return scanInvitation(row)
}

// MarkUsed is a compare-and-swap on used_at. Losing the race yields ErrConflict.
func (s *PostgresStore) MarkUsed(ctx context.Context, invID id.InvitationID, subjectID id.SubjectID, usedAt time.Time) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE invitation_codes SET used_at = $2, subject_id = $3
		WHERE id = $1 AND used_at IS NULL
	`, uuid.UUID(invID), usedAt, uuid.UUID(subjectID))
	if err != nil {
		return fmt.Errorf("mark invitation used: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark invitation used: %w", err)
	}
	if n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) ListBySupervisor(ctx context.Context, supervisor id.SupervisorID) ([]*models.Invitation, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT `+invitationColumns+` FROM invitation_codes
		WHERE supervisor_id = $1
		ORDER BY created_at DESC
	`, uuid.UUID(supervisor))
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invitations: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (*models.Invitation, error) {
	var (
		inv        models.Invitation
		invID, sup uuid.UUID
		subjectID  uuid.NullUUID
		usedAt     sql.NullTime
	)
	err := row.Scan(&invID, &sup, &inv.Code, &inv.Email, &inv.ExpiresAt, &usedAt, &subjectID, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan invitation: %w", err)
	}
	inv.ID = id.InvitationID(invID)
	inv.SupervisorID = id.SupervisorID(sup)
	if subjectID.Valid {
		inv.SubjectID = id.SubjectID(subjectID.UUID)
	}
	if usedAt.Valid {
		t := usedAt.Time.In(time.UTC)
		inv.UsedAt = &t
	}
	inv.ExpiresAt = inv.ExpiresAt.In(time.UTC)
	inv.CreatedAt = inv.CreatedAt.In(time.UTC)
	return &inv, nil
}
