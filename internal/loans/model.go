package loans

import (
	"database/sql"
	"time"
)

const (
	// loanPeriodDays is both the initial loan window and the length of the
	// single renewal extension.
	loanPeriodDays = 7
	finePerDay     = 5

	dateLayout = "2006-01-02"
)

// Loan is one row of the issued_books table. A loan is open iff ReturnDate
// is NULL; the only transition is open -> closed.
type Loan struct {
	ID         int64
	ULID       string
	StudentID  int64
	BookID     int64
	IssueDate  time.Time
	DueDate    time.Time
	ReturnDate sql.NullTime
	Fine       int
}

func (l *Loan) Open() bool { return !l.ReturnDate.Valid }

// Renewed holds once the due date has been pushed past the initial window.
// The schema stores no separate flag; the invariant due-issue > 7 days is the
// flag.
func (l *Loan) Renewed() bool {
	return daysBetween(l.IssueDate, l.DueDate) > loanPeriodDays
}

// dateOnly truncates to calendar-day granularity in UTC. All loan date
// arithmetic runs on these values, so time of day never influences fines.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)) / (24 * time.Hour))
}

// ComputeFine prices a return: finePerDay per day past due, clamped at zero
// for early and on-time returns. Computed exactly once, when the loan closes.
func ComputeFine(due, returned time.Time) int {
	late := daysBetween(due, returned)
	if late <= 0 {
		return 0
	}
	return late * finePerDay
}
