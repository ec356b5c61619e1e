package court

import (
	"database/sql"
	"testing"

	"github.com/mkrogh/courtside/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCatalog(t *testing.T) (Catalog, *sql.DB) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return New(db), db
}

func TestAddAndGet(t *testing.T) {
	catalog, _ := setupTestCatalog(t)

	c, err := catalog.Add("Center Court", "1 Main St")
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)

	got, err := catalog.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Center Court", got.Name)
	assert.Equal(t, "1 Main St", got.Address)

	_, err = catalog.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExists(t *testing.T) {
	catalog, _ := setupTestCatalog(t)

	c, err := catalog.Add("Center Court", "")
	require.NoError(t, err)

	ok, err := catalog.Exists(c.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = catalog.Exists("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListOrdersByName(t *testing.T) {
	catalog, _ := setupTestCatalog(t)

	_, err := catalog.Add("Riverside", "")
	require.NoError(t, err)
	_, err = catalog.Add("Center Court", "")
	require.NoError(t, err)

	courts, err := catalog.List()
	require.NoError(t, err)
	require.Len(t, courts, 2)
	assert.Equal(t, "Center Court", courts[0].Name)
	assert.Equal(t, "Riverside", courts[1].Name)
}

func TestHomeCourts(t *testing.T) {
	catalog, db := setupTestCatalog(t)

	_, err := db.Exec("INSERT INTO players (id, name, created_at) VALUES ('alice', 'Alice', 0)")
	require.NoError(t, err)
	c1, err := catalog.Add("Center Court", "")
	require.NoError(t, err)
	c2, err := catalog.Add("Riverside", "")
	require.NoError(t, err)

	require.NoError(t, catalog.SetHomeCourt("alice", c1.ID))
	require.NoError(t, catalog.SetHomeCourt("alice", c2.ID))
	// Setting the same membership twice is a no-op, not an error.
	require.NoError(t, catalog.SetHomeCourt("alice", c1.ID))

	ids, err := catalog.HomeCourts("alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{c1.ID, c2.ID}, ids)

	ids, err = catalog.HomeCourts("bob")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
