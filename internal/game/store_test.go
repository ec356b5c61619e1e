package game

import (
	"database/sql"
	"testing"
	"time"

	"github.com/mkrogh/courtside/internal/clock"
	"github.com/mkrogh/courtside/internal/court"
	"github.com/mkrogh/courtside/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCatalog(t *testing.T) (Catalog, *sql.DB, court.Catalog, *clock.Mock) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	clk := clock.NewMock(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))
	courts := court.New(db)
	return New(db, courts, clk, 90), db, courts, clk
}

func validParams(t *testing.T, courts court.Catalog) CreateParams {
	t.Helper()
	c, err := courts.Add("Center Court", "1 Main St")
	require.NoError(t, err)
	return CreateParams{
		CourtID:      c.ID,
		Date:         "2026-09-12",
		StartTime:    "18:00",
		Capacity:     4,
		CreatorPlays: true,
		MatchType:    MatchTypeDoubles,
	}
}

func TestCreateAndGet(t *testing.T) {
	catalog, _, courts, _ := setupTestCatalog(t)
	params := validParams(t, courts)
	duration := 90
	params.DurationMinutes = &duration
	params.Rating = &RatingRange{Min: 3.5, Max: 5.0}
	params.Comment = "Friendly but competitive"

	created, err := catalog.Create("creator", params)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, created.Status)
	assert.Equal(t, PaymentShared, created.PaymentSplit)
	assert.Equal(t, VisibilityPublic, created.Visibility)

	got, err := catalog.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "creator", got.CreatorID)
	require.NotNil(t, got.DurationMinutes)
	assert.Equal(t, 90, *got.DurationMinutes)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 3.5, got.Rating.Min, 0.001)
	assert.Equal(t, "Friendly but competitive", got.Comment)
	assert.True(t, got.CreatorPlays)
}

func TestGetUnknownGame(t *testing.T) {
	catalog, _, _, _ := setupTestCatalog(t)
	_, err := catalog.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateValidation(t *testing.T) {
	catalog, _, courts, _ := setupTestCatalog(t)
	base := validParams(t, courts)

	tests := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{"unknown court", func(p *CreateParams) { p.CourtID = "ghost-court" }},
		{"past schedule", func(p *CreateParams) { p.Date = "2026-08-31" }},
		{"beyond horizon", func(p *CreateParams) { p.Date = "2027-01-15" }},
		{"bad date format", func(p *CreateParams) { p.Date = "12/09/2026" }},
		{"bad time format", func(p *CreateParams) { p.StartTime = "6pm" }},
		{"capacity below two", func(p *CreateParams) { p.Capacity = 1 }},
		{"unknown match type", func(p *CreateParams) { p.MatchType = "triples" }},
		{"rating below floor", func(p *CreateParams) { p.Rating = &RatingRange{Min: 0.5, Max: 5.0} }},
		{"rating inverted", func(p *CreateParams) { p.Rating = &RatingRange{Min: 5.0, Max: 3.0} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params := base
			tc.mutate(&params)
			_, err := catalog.Create("creator", params)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCancelCascadesPendingApplications(t *testing.T) {
	catalog, db, courts, _ := setupTestCatalog(t)
	g, err := catalog.Create("creator", validParams(t, courts))
	require.NoError(t, err)

	// One pending and one accepted application.
	_, err = db.Exec(
		"INSERT INTO applications (id, game_id, applicant_id, status, created_at) VALUES (?, ?, ?, ?, ?), (?, ?, ?, ?, ?)",
		"app-1", g.ID, "alice", "pending", 1,
		"app-2", g.ID, "bob", "accepted", 2,
	)
	require.NoError(t, err)

	affected, err := catalog.Cancel(g.ID, "creator")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, affected)

	got, err := catalog.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	var status string
	require.NoError(t, db.QueryRow("SELECT status FROM applications WHERE id = 'app-1'").Scan(&status))
	assert.Equal(t, "cancelled", status)
	// Accepted applications keep their status; the game status carries the news.
	require.NoError(t, db.QueryRow("SELECT status FROM applications WHERE id = 'app-2'").Scan(&status))
	assert.Equal(t, "accepted", status)
}

func TestCancelAuthorization(t *testing.T) {
	catalog, _, courts, _ := setupTestCatalog(t)
	g, err := catalog.Create("creator", validParams(t, courts))
	require.NoError(t, err)

	_, err = catalog.Cancel(g.ID, "mallory")
	assert.ErrorIs(t, err, ErrNotCreator)

	_, err = catalog.Cancel(g.ID, "creator")
	require.NoError(t, err)

	_, err = catalog.Cancel(g.ID, "creator")
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestListFilters(t *testing.T) {
	catalog, db, courts, _ := setupTestCatalog(t)

	c1, err := courts.Add("Center Court", "")
	require.NoError(t, err)
	c2, err := courts.Add("Riverside", "")
	require.NoError(t, err)

	mk := func(courtID, date, start string, rating *RatingRange) *Game {
		g, err := catalog.Create("creator", CreateParams{
			CourtID:   courtID,
			Date:      date,
			StartTime: start,
			Capacity:  4,
			MatchType: MatchTypeDoubles,
			Rating:    rating,
		})
		require.NoError(t, err)
		return g
	}

	morning := mk(c1.ID, "2026-09-10", "09:00", nil)
	evening := mk(c1.ID, "2026-09-10", "19:30", &RatingRange{Min: 4.0, Max: 6.0})
	otherDay := mk(c2.ID, "2026-09-11", "13:00", nil)

	// Cancelled and private games never show up.
	cancelled := mk(c1.ID, "2026-09-10", "11:00", nil)
	_, err = catalog.Cancel(cancelled.ID, "creator")
	require.NoError(t, err)
	_, err = db.Exec("UPDATE games SET visibility = 'private' WHERE id = ?", otherDay.ID)
	require.NoError(t, err)

	page, err := catalog.List(Filters{Date: "2026-09-10"}, Pagination{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Games, 2)

	page, err = catalog.List(Filters{TimeOfDay: TimeMorning}, Pagination{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Games, 1)
	assert.Equal(t, morning.ID, page.Games[0].ID)

	page, err = catalog.List(Filters{TimeOfDay: TimeEvening}, Pagination{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Games, 1)
	assert.Equal(t, evening.ID, page.Games[0].ID)

	// Rating overlap: a 3.0-4.5 seeker matches the 4.0-6.0 game and any
	// unrestricted game.
	page, err = catalog.List(Filters{Rating: &RatingRange{Min: 3.0, Max: 4.5}}, Pagination{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Games, 2)

	// Disjoint rating range only matches unrestricted games.
	page, err = catalog.List(Filters{Rating: &RatingRange{Min: 1.0, Max: 2.0}}, Pagination{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Games, 1)
	assert.Equal(t, morning.ID, page.Games[0].ID)

	// Home court filter.
	_, err = db.Exec("INSERT INTO players (id, name, created_at) VALUES ('alice', 'Alice', 0)")
	require.NoError(t, err)
	require.NoError(t, courts.SetHomeCourt("alice", c1.ID))
	page, err = catalog.List(Filters{HomeCourtOf: "alice"}, Pagination{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Games, 2)
	for _, sum := range page.Games {
		assert.Equal(t, c1.ID, sum.CourtID)
	}
}

func TestListOccupancyReading(t *testing.T) {
	catalog, db, courts, _ := setupTestCatalog(t)
	params := validParams(t, courts)
	g, err := catalog.Create("creator", params)
	require.NoError(t, err)

	_, err = db.Exec(
		"INSERT INTO applications (id, game_id, applicant_id, status, created_at) VALUES (?, ?, ?, ?, ?)",
		"app-1", g.ID, "alice", "accepted", 1,
	)
	require.NoError(t, err)

	page, err := catalog.List(Filters{}, Pagination{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Games, 1)
	// Creator occupies a slot plus one accepted applicant.
	assert.Equal(t, 2, page.Games[0].Occupied)
	assert.Equal(t, 4, page.Games[0].Capacity)
}

func TestListPagination(t *testing.T) {
	catalog, _, courts, _ := setupTestCatalog(t)
	c, err := courts.Add("Center Court", "")
	require.NoError(t, err)

	for _, date := range []string{"2026-09-10", "2026-09-11", "2026-09-12"} {
		_, err := catalog.Create("creator", CreateParams{
			CourtID:   c.ID,
			Date:      date,
			StartTime: "18:00",
			Capacity:  4,
			MatchType: MatchTypeDoubles,
		})
		require.NoError(t, err)
	}

	page, err := catalog.List(Filters{}, Pagination{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Games, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, 2, page.NextOffset)
	assert.Equal(t, "2026-09-10", page.Games[0].Date)

	page, err = catalog.List(Filters{}, Pagination{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Games, 1)
	assert.False(t, page.HasMore)
}
