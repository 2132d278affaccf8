package loans

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lms-backend/internal/platform/apierr"
	platformdb "lms-backend/internal/platform/db"
)

type ListFilter struct {
	StudentID *int64
	OpenOnly  bool
}

type LoanStore interface {
	ExecIssue(ctx context.Context, l *Loan) error
	ExecReturn(ctx context.Context, loanID int64, today time.Time) (*Loan, error)
	GetByID(ctx context.Context, id int64) (*Loan, error)
	GetByULID(ctx context.Context, ulid string) (*Loan, error)
	ExtendDue(ctx context.Context, loanID int64, oldDue, newDue time.Time) (int64, error)
	List(ctx context.Context, f ListFilter) ([]Loan, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const selectCols = `id, loan_ulid, student_id, book_id, issue_date, due_date, return_date, fine`

// ExecIssue runs the whole issue flow in one transaction: lock the book row,
// check stock, insert the loan, decrement the quantity. The FOR UPDATE lock
// keeps two concurrent issues of the last copy from both succeeding, so the
// quantity never goes negative.
func (s *Store) ExecIssue(ctx context.Context, l *Loan) error {
	return platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		var sid int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM students WHERE id = ? LIMIT 1`, l.StudentID).Scan(&sid)
		if errors.Is(err, sql.ErrNoRows) {
			return apierr.NotFound("student not found")
		}
		if err != nil {
			return err
		}

		var qty int
		err = tx.QueryRowContext(ctx, `SELECT quantity FROM books WHERE id = ? FOR UPDATE`, l.BookID).Scan(&qty)
		if errors.Is(err, sql.ErrNoRows) {
			return apierr.NotFound("book unavailable")
		}
		if err != nil {
			return err
		}
		if qty <= 0 {
			return apierr.Conflict("book unavailable")
		}

		const insertQ = `
INSERT INTO issued_books (loan_ulid, student_id, book_id, issue_date, due_date, fine)
VALUES (?, ?, ?, ?, ?, 0)`
		res, err := tx.ExecContext(ctx, insertQ,
			l.ULID, l.StudentID, l.BookID,
			l.IssueDate.Format(dateLayout), l.DueDate.Format(dateLayout),
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		l.ID = id

		_, err = tx.ExecContext(ctx, `UPDATE books SET quantity = quantity - 1 WHERE id = ?`, l.BookID)
		return err
	})
}

// ExecReturn closes an open loan in one transaction: lock it, fix the fine,
// set the return date, restore the book quantity. A loan that is absent or
// already closed reports the same "invalid issue id", so a double return can
// never increment the stock twice.
func (s *Store) ExecReturn(ctx context.Context, loanID int64, today time.Time) (*Loan, error) {
	var closed *Loan
	err := platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		const q = `
SELECT ` + selectCols + `
FROM issued_books
WHERE id = ? AND return_date IS NULL
FOR UPDATE`
		l, err := scanLoan(tx.QueryRowContext(ctx, q, loanID))
		if err != nil {
			return err
		}
		if l == nil {
			return apierr.NotFound("invalid issue id")
		}

		fine := ComputeFine(l.DueDate, today)
		const updateQ = `UPDATE issued_books SET return_date = ?, fine = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, updateQ, today.Format(dateLayout), fine, l.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE books SET quantity = quantity + 1 WHERE id = ?`, l.BookID); err != nil {
			return err
		}

		l.ReturnDate = sql.NullTime{Time: today, Valid: true}
		l.Fine = fine
		closed = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Loan, error) {
	const q = `SELECT ` + selectCols + ` FROM issued_books WHERE id = ? LIMIT 1`
	return scanLoan(s.db.QueryRowContext(ctx, q, id))
}

func (s *Store) GetByULID(ctx context.Context, ulid string) (*Loan, error) {
	const q = `SELECT ` + selectCols + ` FROM issued_books WHERE loan_ulid = ? LIMIT 1`
	return scanLoan(s.db.QueryRowContext(ctx, q, ulid))
}

// ExtendDue pushes the due date by one renewal window. The predicate repeats
// the still-open and still-unrenewed checks, so a racing renew or return makes
// this a no-op instead of granting a second extension.
func (s *Store) ExtendDue(ctx context.Context, loanID int64, oldDue, newDue time.Time) (int64, error) {
	const q = `
UPDATE issued_books
SET due_date = ?
WHERE id = ? AND return_date IS NULL AND due_date = ?`
	res, err := s.db.ExecContext(ctx, q, newDue.Format(dateLayout), loanID, oldDue.Format(dateLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]Loan, error) {
	q := `SELECT ` + selectCols + ` FROM issued_books`
	var (
		conds []string
		args  []any
	)
	if f.StudentID != nil {
		conds = append(conds, `student_id = ?`)
		args = append(args, *f.StudentID)
	}
	if f.OpenOnly {
		conds = append(conds, `return_date IS NULL`)
	}
	for i, c := range conds {
		if i == 0 {
			q += ` WHERE ` + c
		} else {
			q += ` AND ` + c
		}
	}
	q += ` ORDER BY id`

	res := make([]Loan, 0, 16)
	err := platformdb.ReadOnly(ctx, s.db, func(ctx context.Context, tx platformdb.DBTX) error {
		rows, err := tx.QueryContext(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var l Loan
			if err := rows.Scan(&l.ID, &l.ULID, &l.StudentID, &l.BookID, &l.IssueDate, &l.DueDate, &l.ReturnDate, &l.Fine); err != nil {
				return err
			}
			res = append(res, l)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func scanLoan(row *sql.Row) (*Loan, error) {
	var l Loan
	err := row.Scan(&l.ID, &l.ULID, &l.StudentID, &l.BookID, &l.IssueDate, &l.DueDate, &l.ReturnDate, &l.Fine)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}
