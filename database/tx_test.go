package database_test

import (
	"context"
	"errors"
	"testing"

	"starwars-api/database"
	"starwars-api/internal/testdb"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countPlanets(t *testing.T, db *sqlx.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM planets"))
	return n
}

func TestWithTx_Commits(t *testing.T) {
	db := testdb.New(t)

	err := database.WithTx(context.Background(), db, func(tx *sqlx.Tx) error {
		_, err := tx.Exec("INSERT INTO planets (name) VALUES (?)", "Naboo")
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 1, countPlanets(t, db))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := testdb.New(t)
	boom := errors.New("boom")

	err := database.WithTx(context.Background(), db, func(tx *sqlx.Tx) error {
		if _, err := tx.Exec("INSERT INTO planets (name) VALUES (?)", "Naboo"); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countPlanets(t, db))
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := testdb.New(t)

	assert.Panics(t, func() {
		_ = database.WithTx(context.Background(), db, func(tx *sqlx.Tx) error {
			_, _ = tx.Exec("INSERT INTO planets (name) VALUES (?)", "Naboo")
			panic("unexpected")
		})
	})
	assert.Equal(t, 0, countPlanets(t, db))
}
