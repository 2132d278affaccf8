package auth

import (
	"context"
	"database/sql"
	"errors"
)

// Credential is the slice of an account a login check needs.
type Credential struct {
	ID           int64
	PasswordHash string
}

type CredentialStore interface {
	GetAdminByEmail(ctx context.Context, email string) (*Credential, error)
	GetActiveStudentByEmail(ctx context.Context, email string) (*Credential, error)
}

// PrincipalChecker re-checks that a session's row still exists. Resolution
// never trusts the token alone, so a deleted account is de-authenticated on
// its next request.
type PrincipalChecker interface {
	Exists(ctx context.Context, p Principal) (bool, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*Credential, error) {
	const q = `SELECT id, password_hash FROM admins WHERE email = ? LIMIT 1`
	return s.scanCredential(s.db.QueryRowContext(ctx, q, email))
}

// GetActiveStudentByEmail ignores rows that have not been activated yet, so
// a provisioned-but-unactivated student cannot log in.
func (s *Store) GetActiveStudentByEmail(ctx context.Context, email string) (*Credential, error) {
	const q = `SELECT id, password_hash FROM students WHERE email = ? AND is_active = 1 LIMIT 1`
	return s.scanCredential(s.db.QueryRowContext(ctx, q, email))
}

func (s *Store) scanCredential(row *sql.Row) (*Credential, error) {
	var c Credential
	err := row.Scan(&c.ID, &c.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) Exists(ctx context.Context, p Principal) (bool, error) {
	var q string
	switch p.Kind {
	case KindAdmin:
		q = `SELECT id FROM admins WHERE id = ? LIMIT 1`
	case KindStudent:
		q = `SELECT id FROM students WHERE id = ? LIMIT 1`
	default:
		return false, nil
	}

	var id int64
	err := s.db.QueryRowContext(ctx, q, p.ID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
