package loans

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms-backend/internal/platform/apierr"
)

// fakeLoanStore keeps loans and book stock in memory, mirroring the
// transactional guarantees of the SQL store method by method.
type fakeLoanStore struct {
	loans    map[int64]*Loan
	books    map[int64]int
	students map[int64]bool
	nextID   int64
}

func newFakeLoanStore() *fakeLoanStore {
	return &fakeLoanStore{
		loans:    make(map[int64]*Loan),
		books:    make(map[int64]int),
		students: make(map[int64]bool),
	}
}

func (f *fakeLoanStore) ExecIssue(_ context.Context, l *Loan) error {
	if !f.students[l.StudentID] {
		return apierr.NotFound("student not found")
	}
	qty, ok := f.books[l.BookID]
	if !ok {
		return apierr.NotFound("book unavailable")
	}
	if qty <= 0 {
		return apierr.Conflict("book unavailable")
	}
	f.nextID++
	l.ID = f.nextID
	cp := *l
	f.loans[l.ID] = &cp
	f.books[l.BookID] = qty - 1
	return nil
}

func (f *fakeLoanStore) ExecReturn(_ context.Context, loanID int64, today time.Time) (*Loan, error) {
	l, ok := f.loans[loanID]
	if !ok || !l.Open() {
		return nil, apierr.NotFound("invalid issue id")
	}
	l.Fine = ComputeFine(l.DueDate, today)
	l.ReturnDate = sql.NullTime{Time: today, Valid: true}
	f.books[l.BookID]++
	cp := *l
	return &cp, nil
}

func (f *fakeLoanStore) GetByID(_ context.Context, id int64) (*Loan, error) {
	l, ok := f.loans[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLoanStore) GetByULID(_ context.Context, ulid string) (*Loan, error) {
	for _, l := range f.loans {
		if l.ULID == ulid {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeLoanStore) ExtendDue(_ context.Context, loanID int64, oldDue, newDue time.Time) (int64, error) {
	l, ok := f.loans[loanID]
	if !ok || !l.Open() || !l.DueDate.Equal(oldDue) {
		return 0, nil
	}
	l.DueDate = newDue
	return 1, nil
}

func (f *fakeLoanStore) List(_ context.Context, filter ListFilter) ([]Loan, error) {
	var res []Loan
	for _, l := range f.loans {
		if filter.StudentID != nil && l.StudentID != *filter.StudentID {
			continue
		}
		if filter.OpenOnly && !l.Open() {
			continue
		}
		res = append(res, *l)
	}
	return res, nil
}

type movableClock struct{ t time.Time }

func (c *movableClock) Now() time.Time { return c.t }

type seqIDGen struct{ n int }

func (g *seqIDGen) New() (string, error) {
	g.n++
	return fmt.Sprintf("LOAN%022d", g.n), nil
}

func newTestService(store *fakeLoanStore, clock *movableClock) *Service {
	return &Service{store: store, clock: clock, idGen: &seqIDGen{}}
}

func TestIssueReturnScenario(t *testing.T) {
	store := newFakeLoanStore()
	store.students[5] = true
	store.books[1] = 1
	clock := &movableClock{t: date(2026, time.March, 3)}
	svc := newTestService(store, clock)
	ctx := context.Background()

	loan, err := svc.Issue(ctx, IssueRequest{StudentID: 5, BookID: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, store.books[1], "issue takes the copy")
	assert.Equal(t, "2026-03-03", loan.IssueDate)
	assert.Equal(t, "2026-03-10", loan.DueDate)
	assert.Equal(t, 0, loan.Fine)
	assert.True(t, loan.Open)
	assert.False(t, loan.Renewed)

	// Three days past due.
	clock.t = date(2026, time.March, 13)
	closed, err := svc.Return(ctx, fmt.Sprintf("%d", loan.ID))
	require.NoError(t, err)
	assert.Equal(t, 1, store.books[1], "return restores the copy")
	assert.Equal(t, 15, closed.Fine)
	assert.False(t, closed.Open)
	require.NotNil(t, closed.ReturnDate)
	assert.Equal(t, "2026-03-13", *closed.ReturnDate)

	// A second return of the same loan must not touch stock again.
	_, err = svc.Return(ctx, fmt.Sprintf("%d", loan.ID))
	require.Error(t, err)
	assert.Equal(t, 404, apierr.ToHTTPStatus(err))
	assert.Equal(t, 1, store.books[1])
}

func TestReturnOnTimeHasZeroFine(t *testing.T) {
	store := newFakeLoanStore()
	store.students[5] = true
	store.books[1] = 2
	clock := &movableClock{t: date(2026, time.March, 3)}
	svc := newTestService(store, clock)
	ctx := context.Background()

	loan, err := svc.Issue(ctx, IssueRequest{StudentID: 5, BookID: 1})
	require.NoError(t, err)

	// On the due date itself.
	clock.t = date(2026, time.March, 10)
	closed, err := svc.Return(ctx, loan.ULID)
	require.NoError(t, err)
	assert.Equal(t, 0, closed.Fine)
}

func TestIssueUnavailable(t *testing.T) {
	store := newFakeLoanStore()
	store.students[5] = true
	store.books[1] = 0
	svc := newTestService(store, &movableClock{t: date(2026, time.March, 3)})
	ctx := context.Background()

	_, err := svc.Issue(ctx, IssueRequest{StudentID: 5, BookID: 1})
	require.Error(t, err)
	assert.Equal(t, 409, apierr.ToHTTPStatus(err))
	assert.Contains(t, err.Error(), "book unavailable")

	_, err = svc.Issue(ctx, IssueRequest{StudentID: 5, BookID: 99})
	require.Error(t, err)
	assert.Equal(t, 404, apierr.ToHTTPStatus(err))

	_, err = svc.Issue(ctx, IssueRequest{StudentID: 0, BookID: 1})
	require.Error(t, err)
	assert.Equal(t, 400, apierr.ToHTTPStatus(err))
}

func TestRenewOnlyOnce(t *testing.T) {
	store := newFakeLoanStore()
	store.students[5] = true
	store.books[1] = 1
	clock := &movableClock{t: date(2026, time.March, 3)}
	svc := newTestService(store, clock)
	ctx := context.Background()

	loan, err := svc.Issue(ctx, IssueRequest{StudentID: 5, BookID: 1})
	require.NoError(t, err)

	renewed, err := svc.Renew(ctx, loan.ULID, 5)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-17", renewed.DueDate)
	assert.True(t, renewed.Renewed)

	_, err = svc.Renew(ctx, loan.ULID, 5)
	require.Error(t, err)
	assert.Equal(t, 409, apierr.ToHTTPStatus(err))
	assert.Contains(t, err.Error(), "already renewed")
}

func TestRenewGuards(t *testing.T) {
	store := newFakeLoanStore()
	store.students[5] = true
	store.students[6] = true
	store.books[1] = 2
	clock := &movableClock{t: date(2026, time.March, 3)}
	svc := newTestService(store, clock)
	ctx := context.Background()

	loan, err := svc.Issue(ctx, IssueRequest{StudentID: 5, BookID: 1})
	require.NoError(t, err)

	// Someone else's loan looks like it does not exist.
	_, err = svc.Renew(ctx, loan.ULID, 6)
	require.Error(t, err)
	assert.Equal(t, 404, apierr.ToHTTPStatus(err))

	// A closed loan cannot be renewed.
	_, err = svc.Return(ctx, loan.ULID)
	require.NoError(t, err)
	_, err = svc.Renew(ctx, loan.ULID, 5)
	require.Error(t, err)
	assert.Equal(t, 409, apierr.ToHTTPStatus(err))
	assert.Contains(t, err.Error(), "returned")
}

func TestRenewDoesNotTouchFine(t *testing.T) {
	store := newFakeLoanStore()
	store.students[5] = true
	store.books[1] = 1
	clock := &movableClock{t: date(2026, time.March, 3)}
	svc := newTestService(store, clock)
	ctx := context.Background()

	loan, err := svc.Issue(ctx, IssueRequest{StudentID: 5, BookID: 1})
	require.NoError(t, err)

	_, err = svc.Renew(ctx, loan.ULID, 5)
	require.NoError(t, err)

	// Returned two days past the extended due date: fined against the new
	// date only.
	clock.t = date(2026, time.March, 19)
	closed, err := svc.Return(ctx, loan.ULID)
	require.NoError(t, err)
	assert.Equal(t, 10, closed.Fine)
}

func TestListFilters(t *testing.T) {
	store := newFakeLoanStore()
	store.students[5] = true
	store.students[6] = true
	store.books[1] = 3
	clock := &movableClock{t: date(2026, time.March, 3)}
	svc := newTestService(store, clock)
	ctx := context.Background()

	first, err := svc.Issue(ctx, IssueRequest{StudentID: 5, BookID: 1})
	require.NoError(t, err)
	_, err = svc.Issue(ctx, IssueRequest{StudentID: 5, BookID: 1})
	require.NoError(t, err)
	_, err = svc.Issue(ctx, IssueRequest{StudentID: 6, BookID: 1})
	require.NoError(t, err)

	_, err = svc.Return(ctx, first.ULID)
	require.NoError(t, err)

	all, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	sid := int64(5)
	mine, err := svc.ListByStudent(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	open, err := svc.List(ctx, ListFilter{StudentID: &sid, OpenOnly: true})
	require.NoError(t, err)
	assert.Len(t, open, 1)
}
