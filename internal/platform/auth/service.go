package auth

import (
	"context"
	"database/sql"
	"time"

	"lms-backend/internal/platform/apierr"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Service struct {
	store  CredentialStore
	secret []byte
	clock  Clock
}

func NewService(db *sql.DB, secret []byte) *Service {
	return &Service{store: NewStore(db), secret: secret, clock: realClock{}}
}

// LoginAdmin verifies admin credentials and issues a session token.
// "No such account" and "wrong password" are indistinguishable to the caller.
func (s *Service) LoginAdmin(ctx context.Context, email, password string) (string, Principal, error) {
	cred, err := s.store.GetAdminByEmail(ctx, email)
	return s.finishLogin(cred, err, password, KindAdmin)
}

// LoginStudent behaves like LoginAdmin but only considers activated students,
// so an inactive account fails with the same generic message.
func (s *Service) LoginStudent(ctx context.Context, email, password string) (string, Principal, error) {
	cred, err := s.store.GetActiveStudentByEmail(ctx, email)
	return s.finishLogin(cred, err, password, KindStudent)
}

func (s *Service) finishLogin(cred *Credential, err error, password string, kind Kind) (string, Principal, error) {
	if err != nil {
		return "", Principal{}, err
	}
	if cred == nil || !VerifyPassword(password, cred.PasswordHash) {
		return "", Principal{}, apierr.Unauthorized("invalid email or password")
	}

	p := Principal{Kind: kind, ID: cred.ID}
	token, err := SignPrincipal(p, s.secret, s.clock.Now())
	if err != nil {
		return "", Principal{}, err
	}
	return token, p, nil
}
