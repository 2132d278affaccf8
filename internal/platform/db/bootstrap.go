package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id            INT AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(100) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id            INT PRIMARY KEY,
		name          VARCHAR(100) NOT NULL,
		email         VARCHAR(100) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NULL,
		reg_code      VARCHAR(10) NULL,
		is_active     TINYINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id       INT AUTO_INCREMENT PRIMARY KEY,
		title    VARCHAR(100) NOT NULL,
		author   VARCHAR(100) NOT NULL,
		quantity INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS issued_books (
		id          INT AUTO_INCREMENT PRIMARY KEY,
		loan_ulid   CHAR(26) NOT NULL UNIQUE,
		student_id  INT NOT NULL,
		book_id     INT NOT NULL,
		issue_date  DATE NOT NULL,
		due_date    DATE NOT NULL,
		return_date DATE NULL,
		fine        INT NOT NULL DEFAULT 0,
		KEY idx_issued_books_student (student_id),
		KEY idx_issued_books_book (book_id)
	)`,
}

// Bootstrap creates the four tables if missing and seeds the well-known
// admin account when no row with that email exists yet. The seeded default
// password must be rotated before production exposure.
func Bootstrap(ctx context.Context, conn *sql.DB, adminEmail, adminPasswordHash string) error {
	for _, q := range schema {
		if _, err := conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	var id int64
	err := conn.QueryRowContext(ctx, `SELECT id FROM admins WHERE email = ?`, adminEmail).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO admins (email, password_hash) VALUES (?, ?)`,
			adminEmail, adminPasswordHash,
		); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		log.Printf("[INFO] seeded bootstrap admin %s", adminEmail)
	case err != nil:
		return fmt.Errorf("check bootstrap admin: %w", err)
	}
	return nil
}
