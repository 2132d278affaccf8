package students

import (
	"context"
	"database/sql"
	"errors"

	"lms-backend/internal/platform/apierr"
	platformdb "lms-backend/internal/platform/db"
)

type StudentStore interface {
	Insert(ctx context.Context, s *Student) error
	GetByID(ctx context.Context, id int64) (*Student, error)
	ListAll(ctx context.Context) ([]Student, error)
	Search(ctx context.Context, q string) ([]Student, error)
	Update(ctx context.Context, id int64, name, email string) (int64, error)
	Delete(ctx context.Context, id int64) error
	Activate(ctx context.Context, email, code, passwordHash string) (bool, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const selectCols = `id, name, email, password_hash, reg_code, is_active`

func (s *Store) Insert(ctx context.Context, st *Student) error {
	const q = `
INSERT INTO students (id, name, email, reg_code, is_active)
VALUES (?, ?, ?, ?, 0)`
	_, err := s.db.ExecContext(ctx, q, st.ID, st.Name, st.Email, st.RegCode)
	return err
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Student, error) {
	const q = `SELECT ` + selectCols + ` FROM students WHERE id = ? LIMIT 1`
	return scanStudent(s.db.QueryRowContext(ctx, q, id))
}

func (s *Store) ListAll(ctx context.Context) ([]Student, error) {
	const q = `SELECT ` + selectCols + ` FROM students ORDER BY id`
	return s.queryStudents(ctx, q)
}

func (s *Store) Search(ctx context.Context, q string) ([]Student, error) {
	const query = `
SELECT ` + selectCols + `
FROM students
WHERE name LIKE ? OR email LIKE ?
ORDER BY id`
	like := "%" + q + "%"
	return s.queryStudents(ctx, query, like, like)
}

func (s *Store) queryStudents(ctx context.Context, q string, args ...any) ([]Student, error) {
	res := make([]Student, 0, 16)
	err := platformdb.ReadOnly(ctx, s.db, func(ctx context.Context, tx platformdb.DBTX) error {
		rows, err := tx.QueryContext(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var st Student
			var active int
			if err := rows.Scan(&st.ID, &st.Name, &st.Email, &st.PasswordHash, &st.RegCode, &active); err != nil {
				return err
			}
			st.Active = active != 0
			res = append(res, st)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) Update(ctx context.Context, id int64, name, email string) (int64, error) {
	const q = `UPDATE students SET name = ?, email = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, name, email, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete refuses to remove a student who still holds open loans; closed loan
// history does not block.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		var open int
		const countQ = `SELECT COUNT(*) FROM issued_books WHERE student_id = ? AND return_date IS NULL`
		if err := tx.QueryRowContext(ctx, countQ, id).Scan(&open); err != nil {
			return err
		}
		if open > 0 {
			return apierr.Conflict("student has books on loan")
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return apierr.NotFound("student not found")
		}
		return nil
	})
}

// Activate is the one-shot self-registration step: a single guarded UPDATE
// sets the password, flips the account active and consumes the code. Zero
// rows affected means no inactive row matched email+code.
func (s *Store) Activate(ctx context.Context, email, code, passwordHash string) (bool, error) {
	const q = `
UPDATE students
SET password_hash = ?, is_active = 1, reg_code = NULL
WHERE email = ? AND reg_code = ? AND is_active = 0`
	res, err := s.db.ExecContext(ctx, q, passwordHash, email, code)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanStudent(row *sql.Row) (*Student, error) {
	var st Student
	var active int
	err := row.Scan(&st.ID, &st.Name, &st.Email, &st.PasswordHash, &st.RegCode, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	st.Active = active != 0
	return &st, nil
}
