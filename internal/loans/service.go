package loans

import (
	"context"
	"crypto/rand"
	"database/sql"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	"lms-backend/internal/platform/apierr"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type Service struct {
	store LoanStore
	clock Clock
	idGen IDGen
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db), clock: realClock{}, idGen: ulidGen{}}
}

// Issue opens a loan: due in loanPeriodDays, one copy taken from stock.
// Stock check and decrement are a single transaction in the store.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*LoanResponse, error) {
	if req.StudentID <= 0 || req.BookID <= 0 {
		return nil, apierr.Invalid("student_id and book_id must be positive numbers")
	}

	idStr, err := s.idGen.New()
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.clock.Now())
	l := &Loan{
		ULID:      idStr,
		StudentID: req.StudentID,
		BookID:    req.BookID,
		IssueDate: today,
		DueDate:   today.AddDate(0, 0, loanPeriodDays),
	}
	if err := s.store.ExecIssue(ctx, l); err != nil {
		return nil, err
	}

	resp := toResponse(l)
	return &resp, nil
}

// Return closes the loan named by key (numeric id or ULID) and reports the
// fine fixed at that moment. An already-closed loan is indistinguishable from
// an absent one.
func (s *Service) Return(ctx context.Context, key string) (*LoanResponse, error) {
	l, err := s.getByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, apierr.NotFound("invalid issue id")
	}

	closed, err := s.store.ExecReturn(ctx, l.ID, dateOnly(s.clock.Now()))
	if err != nil {
		return nil, err
	}
	resp := toResponse(closed)
	return &resp, nil
}

// Renew grants the single allowed due-date extension on the caller's own
// open loan. A loan belonging to someone else looks absent rather than
// forbidden.
func (s *Service) Renew(ctx context.Context, key string, studentID int64) (*LoanResponse, error) {
	l, err := s.getByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if l == nil || l.StudentID != studentID {
		return nil, apierr.NotFound("invalid issue record")
	}
	if !l.Open() {
		return nil, apierr.Conflict("cannot renew a returned book")
	}
	if l.Renewed() {
		return nil, apierr.Conflict("already renewed")
	}

	newDue := l.DueDate.AddDate(0, 0, loanPeriodDays)
	n, err := s.store.ExtendDue(ctx, l.ID, l.DueDate, newDue)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Lost a race against a concurrent renew or return.
		return nil, apierr.Conflict("already renewed")
	}

	l.DueDate = newDue
	resp := toResponse(l)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]LoanResponse, error) {
	rows, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	res := make([]LoanResponse, 0, len(rows))
	for i := range rows {
		res = append(res, toResponse(&rows[i]))
	}
	return res, nil
}

// ListByStudent is the student "my books" view.
func (s *Service) ListByStudent(ctx context.Context, studentID int64) ([]LoanResponse, error) {
	return s.List(ctx, ListFilter{StudentID: &studentID})
}

func (s *Service) getByKey(ctx context.Context, key string) (*Loan, error) {
	if key == "" {
		return nil, apierr.Invalid("id or ulid is required")
	}
	if id, err := strconv.ParseInt(key, 10, 64); err == nil && id > 0 {
		return s.store.GetByID(ctx, id)
	}
	return s.store.GetByULID(ctx, key)
}
