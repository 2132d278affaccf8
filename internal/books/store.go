package books

import (
	"context"
	"database/sql"
	"errors"

	"lms-backend/internal/platform/apierr"
	platformdb "lms-backend/internal/platform/db"
)

type BookStore interface {
	Insert(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id int64) (*Book, error)
	ListAll(ctx context.Context) ([]Book, error)
	Search(ctx context.Context, q string) ([]Book, error)
	Update(ctx context.Context, b *Book) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Insert(ctx context.Context, b *Book) error {
	const q = `INSERT INTO books (title, author, quantity) VALUES (?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, b.Title, b.Author, b.Quantity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Book, error) {
	const q = `SELECT id, title, author, quantity FROM books WHERE id = ? LIMIT 1`
	var b Book
	err := s.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.Title, &b.Author, &b.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) ListAll(ctx context.Context) ([]Book, error) {
	const q = `SELECT id, title, author, quantity FROM books ORDER BY id`
	return s.queryBooks(ctx, q)
}

func (s *Store) Search(ctx context.Context, q string) ([]Book, error) {
	const query = `
SELECT id, title, author, quantity
FROM books
WHERE title LIKE ? OR author LIKE ?
ORDER BY id`
	like := "%" + q + "%"
	return s.queryBooks(ctx, query, like, like)
}

func (s *Store) queryBooks(ctx context.Context, q string, args ...any) ([]Book, error) {
	res := make([]Book, 0, 16)
	err := platformdb.ReadOnly(ctx, s.db, func(ctx context.Context, tx platformdb.DBTX) error {
		rows, err := tx.QueryContext(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var b Book
			if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Quantity); err != nil {
				return err
			}
			res = append(res, b)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) Update(ctx context.Context, b *Book) (int64, error) {
	const q = `UPDATE books SET title = ?, author = ?, quantity = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, b.Title, b.Author, b.Quantity, b.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete refuses to remove a book that still has copies out on loan; closed
// loan history does not block.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		var open int
		const countQ = `SELECT COUNT(*) FROM issued_books WHERE book_id = ? AND return_date IS NULL`
		if err := tx.QueryRowContext(ctx, countQ, id).Scan(&open); err != nil {
			return err
		}
		if open > 0 {
			return apierr.Conflict("book has copies on loan")
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return apierr.NotFound("book not found")
		}
		return nil
	})
}
