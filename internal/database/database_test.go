package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_RunsMigrations(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"players", "courts", "home_courts", "games", "applications"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_UniqueApplicationPerGameAndApplicant(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	_, err = db.Exec(`INSERT INTO courts (id, name, created_at) VALUES ('c1', 'Center Court', 0)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO games (id, creator_id, court_id, match_date, start_time, capacity, match_type, created_at)
		VALUES ('g1', 'u1', 'c1', '2026-09-10', '18:00', 4, 'doubles', 0)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO applications (id, game_id, applicant_id, created_at) VALUES ('a1', 'g1', 'u2', 0)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO applications (id, game_id, applicant_id, created_at) VALUES ('a2', 'g1', 'u2', 0)`)
	assert.Error(t, err, "a second application row for the same game and applicant must be rejected")
}
