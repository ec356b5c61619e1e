package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mkrogh/courtside/internal/admission"
	"github.com/mkrogh/courtside/internal/application"
	"github.com/mkrogh/courtside/internal/clock"
	"github.com/mkrogh/courtside/internal/config"
	"github.com/mkrogh/courtside/internal/court"
	"github.com/mkrogh/courtside/internal/database"
	"github.com/mkrogh/courtside/internal/dispatcher"
	"github.com/mkrogh/courtside/internal/game"
	"github.com/mkrogh/courtside/internal/metrics"
	"github.com/mkrogh/courtside/internal/notifier"
	"github.com/mkrogh/courtside/internal/profile"
	"github.com/mkrogh/courtside/internal/pubsub"
	"github.com/mkrogh/courtside/internal/wizard"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type testEnv struct {
	server   *Server
	courts   court.Catalog
	profiles profile.Store
	notifier *notifier.MockNotifier
	pubsub   *pubsub.MockClient
	clock    *clock.Mock
	teardown func()
}

// setupTestServer wires a server against an in-memory database with mock
// notification and pubsub clients.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	clk := clock.NewMock(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))
	courts := court.New(db)
	profiles := profile.New(db)
	games := game.New(db, courts, clk, 90)
	apps := application.New(db, clk)

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	mockNotifier := notifier.NewMock()
	mockPubsub := pubsub.NewMock()
	disp := dispatcher.New(games, apps, profiles, mockNotifier, metricsSvc, mockPubsub)
	controller := admission.New(games, apps, clk, metricsSvc, disp)
	wiz := wizard.New(courts, games)

	server := NewServer(games, apps, profiles, courts, controller, disp, wiz, metricsSvc, metricsHandler, config.Config{}, mockPubsub)

	teardown := func() {
		dbTeardown()
	}
	return &testEnv{
		server:   server,
		courts:   courts,
		profiles: profiles,
		notifier: mockNotifier,
		pubsub:   mockPubsub,
		clock:    clk,
		teardown: teardown,
	}
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(b)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createGame(t *testing.T, creatorID string) *game.Game {
	t.Helper()
	c, err := e.courts.Add("Center Court", "1 Main St")
	require.NoError(t, err)

	rec := e.do(t, "POST", "/games", map[string]any{
		"creator_id":    creatorID,
		"court_id":      c.ID,
		"date":          "2026-09-12",
		"start_time":    "18:00",
		"capacity":      4,
		"creator_plays": true,
		"match_type":    "doubles",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var g game.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	return &g
}

func TestHealthCheck(t *testing.T) {
	env := setupTestServer(t)
	defer env.teardown()

	rec := env.do(t, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK!", rec.Body.String())
}

func TestCreateGame(t *testing.T) {
	env := setupTestServer(t)
	defer env.teardown()

	g := env.createGame(t, "creator")
	assert.Equal(t, "creator", g.CreatorID)
	assert.Equal(t, game.StatusScheduled, g.Status)
	assert.Equal(t, 4, g.Capacity)
}

func TestCreateGameRejectsPastDate(t *testing.T) {
	env := setupTestServer(t)
	defer env.teardown()
	c, err := env.courts.Add("Center Court", "")
	require.NoError(t, err)

	rec := env.do(t, "POST", "/games", map[string]any{
		"creator_id": "creator",
		"court_id":   c.ID,
		"date":       "2020-01-01",
		"start_time": "18:00",
		"capacity":   4,
		"match_type": "doubles",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetGameIncludesOccupancy(t *testing.T) {
	env := setupTestServer(t)
	defer env.teardown()
	g := env.createGame(t, "creator")

	rec := env.do(t, "GET", "/games/"+g.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Game      game.Game `json:"game"`
		Occupancy struct {
			Occupied int `json:"occupied"`
			Capacity int `json:"capacity"`
		} `json:"occupancy"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, g.ID, resp.Game.ID)
	assert.Equal(t, 1, resp.Occupancy.Occupied) // creator plays
	assert.Equal(t, 4, resp.Occupancy.Capacity)
}

func TestGetGameNotFound(t *testing.T) {
	env := setupTestServer(t)
	defer env.teardown()

	rec := env.do(t, "GET", "/games/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitAndDecideFlow(t *testing.T) {
	env := setupTestServer(t)
	defer env.teardown()
	g := env.createGame(t, "creator")

	rec := env.do(t, "POST", "/games/"+g.ID+"/applications", map[string]any{"applicant_id": "alice"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var app application.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))
	assert.Equal(t, application.StatusPending, app.Status)

	// Pending listing shows it.
	rec = env.do(t, "GET", "/games/"+g.ID+"/applications?status=pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []application.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	require.Len(t, pending, 1)

	// Creator accepts.
	rec = env.do(t, "POST", "/applications/"+app.ID+"/decide", map[string]any{
		"decider_id": "creator",
		"decision":   "accept",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var decided struct {
		Occupancy struct {
			Occupied int `json:"occupied"`
		} `json:"occupancy"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decided))
	assert.Equal(t, 2, decided.Occupancy.Occupied)

	// A second decision on the same application conflicts.
	rec = env.do(t, "POST", "/applications/"+app.ID+"/decide", map[string]any{
		"decider_id": "creator",
		"decision":   "accept",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDecideRequiresCreator(t *testing.T) {
	env := setupTestServer(t)
	defer env.teardown()
	g := env.createGame(t, "creator")

	rec := env.do(t, "POST", "/games/"+g.ID+"/applications", map[string]any{"applicant_id": "alice"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var app application.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))

	rec = env.do(t, "POST", "/applications/"+app.ID+"/decide", map[string]any{
		"decider_id": "mallory",
		"decision":   "accept",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSubmitToOwnGameForbidden(t *testing.T) {
	env := setupTestServer(t)
	defer env.teardown()
	g := env.createGame(t, "creator")

	rec := env.do(t, "POST", "/games/"+g.ID+"/applications", map[string]any{"applicant_id": "creator"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCancelGameCascades(t *testing.T) {
	env := setupTestServer(t)
	defer env.teardown()
	g := env.createGame(t, "creator")

	rec := env.do(t, "POST", "/games/"+g.ID+"/applications", map[string]any{"applicant_id": "alice"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, "POST", "/games/"+g.ID+"/cancel", map[string]any{"requester_id": "creator"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Game no longer accepts applications.
	rec = env.do(t, "POST", "/games/"+g.ID+"/applications", map[string]any{"applicant_id": "bob"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Pending applications were swept up.
	rec = env.do(t, "GET", "/games/"+g.ID+"/applications?status=pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []application.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	assert.Empty(t, pending)
}

func TestCancelGameRequiresCreator(t *testing.T) {
	env := setupTestServer(t)
	defer env.teardown()
	g := env.createGame(t, "creator")

	rec := env.do(t, "POST", "/games/"+g.ID+"/cancel", map[string]any{"requester_id": "mallory"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListGamesPagination(t *testing.T) {
	env := setupTestServer(t)
	defer env.teardown()
	c, err := env.courts.Add("Center Court", "")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		rec := env.do(t, "POST", "/games", map[string]any{
			"creator_id": "creator",
			"court_id":   c.ID,
			"date":       fmt.Sprintf("2026-09-1%d", i+1),
			"start_time": "18:00",
			"capacity":   4,
			"match_type": "doubles",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := env.do(t, "GET", "/games?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page game.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Games, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, 2, page.NextOffset)

	rec = env.do(t, "GET", "/games?limit=2&offset=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Games, 1)
	assert.False(t, page.HasMore)
}

func TestWizardEndToEnd(t *testing.T) {
	env := setupTestServer(t)
	defer env.teardown()
	_, err := env.courts.Add("Center Court", "")
	require.NoError(t, err)

	rec := env.do(t, "POST", "/wizard/start", map[string]any{"initiator_id": "creator"})
	require.Equal(t, http.StatusOK, rec.Code)

	answers := []string{"play", "Center Court", "2026-09-12", "18:00", "90", "shared", "doubles", "skip", "keep", "yes", "public", "skip"}
	var prompt wizard.Prompt
	for _, a := range answers {
		rec = env.do(t, "POST", "/wizard/message", map[string]any{"initiator_id": "creator", "text": a})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prompt))
	}
	assert.True(t, prompt.Done)
	require.NotNil(t, prompt.Game)
	assert.Equal(t, "creator", prompt.Game.CreatorID)

	// The game is live and joinable.
	rec = env.do(t, "POST", "/games/"+prompt.Game.ID+"/applications", map[string]any{"applicant_id": "alice"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestPlayersAndHomeCourts(t *testing.T) {
	env := setupTestServer(t)
	defer env.teardown()

	rec := env.do(t, "POST", "/players", map[string]any{"id": "alice", "name": "Alice", "contact": "U123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, "POST", "/courts", map[string]any{"name": "Center Court", "address": "1 Main St"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var c court.Court
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))

	rec = env.do(t, "POST", "/players/alice/home-court", map[string]any{"court_id": c.ID})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, "POST", "/players/alice/home-court", map[string]any{"court_id": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func pushRequest(t *testing.T, payload any) map[string]any {
	t.Helper()
	raw, err := msgpack.Marshal(payload)
	require.NoError(t, err)
	return map[string]any{
		"subscription": "test-sub",
		"message": map[string]any{
			"data": base64.StdEncoding.EncodeToString(raw),
		},
	}
}

func TestApplicationSubmittedEventHandler(t *testing.T) {
	env := setupTestServer(t)
	defer env.teardown()
	g := env.createGame(t, "creator")

	require.NoError(t, env.profiles.Upsert(profile.Player{ID: "creator", Name: "Creator", Contact: "U1"}))
	require.NoError(t, env.profiles.Upsert(profile.Player{ID: "alice", Name: "Alice", Contact: "U2"}))

	rec := env.do(t, "POST", "/games/"+g.ID+"/applications", map[string]any{"applicant_id": "alice"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var app application.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))

	body := pushRequest(t, dispatcher.SubmissionEvent{GameID: g.ID, ApplicationID: app.ID, ApplicantID: "alice"})
	rec = env.do(t, "POST", "/events/application-submitted", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, env.notifier.ApplicationReceivedCalls, 1)
	assert.Equal(t, "alice", env.notifier.ApplicationReceivedCalls[0].ID)
}

func TestApplicationDecidedEventHandlerRejectsBadEnvelope(t *testing.T) {
	env := setupTestServer(t)
	defer env.teardown()

	req := httptest.NewRequest("POST", "/events/application-decided", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
