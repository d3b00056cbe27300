// Package repository holds the SQL for every entity. Repositories keep no
// connection of their own: each call receives the handle to run on, either
// the *sqlx.DB or the *sqlx.Tx of the surrounding operation.
package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a row addressed by id or key does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint
	ErrDuplicate = errors.New("duplicate record")
)

// Handle is satisfied by both *sqlx.DB and *sqlx.Tx
type Handle interface {
	sqlx.ExtContext
}

// notFound maps sql.ErrNoRows to ErrNotFound
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// uniqueViolation maps driver unique-constraint failures to ErrDuplicate
func uniqueViolation(err error) error {
	if err == nil {
		return nil
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicate
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

// affected turns a zero-row write into ErrNotFound
func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
