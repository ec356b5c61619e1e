package dispatcher

import (
	"testing"
	"time"

	"github.com/mkrogh/courtside/internal/admission"
	"github.com/mkrogh/courtside/internal/application"
	"github.com/mkrogh/courtside/internal/game"
	"github.com/mkrogh/courtside/internal/metrics"
	"github.com/mkrogh/courtside/internal/notifier"
	"github.com/mkrogh/courtside/internal/occupancy"
	"github.com/mkrogh/courtside/internal/profile"
	"github.com/mkrogh/courtside/internal/pubsub"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	games    *game.MockCatalog
	apps     *application.MockLedger
	profiles *profile.MockStore
	notifier *notifier.MockNotifier
	pubsub   *pubsub.MockClient
	d        *Dispatcher
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		games:    game.NewMock(),
		apps:     application.NewMock(),
		profiles: profile.NewMock(),
		notifier: notifier.NewMock(),
		pubsub:   pubsub.NewMock(),
	}
	f.d = New(f.games, f.apps, f.profiles, f.notifier, metrics.NewMock(), f.pubsub)
	return f
}

func scheduledGame() *game.Game {
	return &game.Game{
		ID:           "game-1",
		CreatorID:    "creator",
		CourtID:      "court-1",
		Date:         "2026-09-12",
		StartTime:    "18:00",
		Capacity:     4,
		CreatorPlays: true,
		MatchType:    game.MatchTypeDoubles,
		Status:       game.StatusScheduled,
	}
}

func TestHandleSubmission(t *testing.T) {
	f := setup(t)
	g := scheduledGame()
	f.games.GetFunc = func(string) (*game.Game, error) { return g, nil }
	f.apps.CountAcceptedFunc = func(string) (int, error) { return 1, nil }

	err := f.d.HandleSubmission(SubmissionEvent{GameID: g.ID, ApplicationID: "app-1", ApplicantID: "alice"}, false)
	require.NoError(t, err)

	require.Len(t, f.notifier.ApplicationReceivedCalls, 1)
	assert.Equal(t, "alice", f.notifier.ApplicationReceivedCalls[0].ID)
}

func TestHandleSubmissionSkipsCancelledGame(t *testing.T) {
	f := setup(t)
	g := scheduledGame()
	g.Status = game.StatusCancelled
	f.games.GetFunc = func(string) (*game.Game, error) { return g, nil }

	err := f.d.HandleSubmission(SubmissionEvent{GameID: g.ID, ApplicantID: "alice"}, false)
	require.NoError(t, err)
	assert.Empty(t, f.notifier.ApplicationReceivedCalls)
}

func TestHandleDecisionReject(t *testing.T) {
	f := setup(t)
	g := scheduledGame()
	f.games.GetFunc = func(string) (*game.Game, error) { return g, nil }

	ev := DecisionEvent{GameID: g.ID, ApplicationID: "app-1", ApplicantID: "alice", Decision: string(admission.DecisionReject)}
	require.NoError(t, f.d.HandleDecision(ev, false))

	require.Len(t, f.notifier.ApplicationRejectedCalls, 1)
	assert.Equal(t, "alice", f.notifier.ApplicationRejectedCalls[0].ID)
	assert.Empty(t, f.notifier.CreatorAcceptedCalls)
	assert.Empty(t, f.notifier.ParticipantJoinedCalls)
}

func TestHandleDecisionAcceptFansOut(t *testing.T) {
	f := setup(t)
	g := scheduledGame()
	f.games.GetFunc = func(string) (*game.Game, error) { return g, nil }
	f.apps.GetAcceptedFunc = func(string) ([]application.Application, error) {
		return []application.Application{
			{ID: "app-0", GameID: g.ID, ApplicantID: "bob", Status: application.StatusAccepted},
			{ID: "app-1", GameID: g.ID, ApplicantID: "alice", Status: application.StatusAccepted},
		}, nil
	}

	ev := DecisionEvent{GameID: g.ID, ApplicationID: "app-1", ApplicantID: "alice", Decision: string(admission.DecisionAccept)}
	require.NoError(t, f.d.HandleDecision(ev, false))

	// Creator gets the confirmation.
	require.Len(t, f.notifier.CreatorAcceptedCalls, 1)
	assert.Equal(t, "alice", f.notifier.CreatorAcceptedCalls[0].ID)

	// The newcomer gets the roster: creator first, then bob, never themselves.
	require.Len(t, f.notifier.ApplicationAcceptedCalls, 1)
	call := f.notifier.ApplicationAcceptedCalls[0]
	assert.Equal(t, "alice", call.Applicant.ID)
	rosterIDs := lo.Map(call.Roster, func(p profile.Player, _ int) string { return p.ID })
	assert.Equal(t, []string{"creator", "bob"}, rosterIDs)

	// Bob hears who joined; the creator is not messaged twice.
	require.Len(t, f.notifier.ParticipantJoinedCalls, 1)
	assert.Equal(t, "bob", f.notifier.ParticipantJoinedCalls[0].Recipient.ID)
	assert.Equal(t, "alice", f.notifier.ParticipantJoinedCalls[0].Newcomer.ID)
}

func TestHandleCancellationNotifiesPendingAndAccepted(t *testing.T) {
	f := setup(t)
	g := scheduledGame()
	g.Status = game.StatusCancelled
	f.games.GetFunc = func(string) (*game.Game, error) { return g, nil }
	f.apps.GetAcceptedFunc = func(string) ([]application.Application, error) {
		return []application.Application{
			{ID: "app-0", GameID: g.ID, ApplicantID: "bob", Status: application.StatusAccepted},
		}, nil
	}

	ev := CancellationEvent{GameID: g.ID, ApplicantIDs: []string{"alice", "bob", "creator"}}
	require.NoError(t, f.d.HandleCancellation(ev, false))

	ids := lo.Map(f.notifier.GameCancelledCalls, func(p profile.Player, _ int) string { return p.ID })
	assert.ElementsMatch(t, []string{"alice", "bob"}, ids)
}

func TestDecisionCommittedPublishes(t *testing.T) {
	f := setup(t)
	g := scheduledGame()
	app := &application.Application{ID: "app-1", GameID: g.ID, ApplicantID: "alice", Status: application.StatusAccepted}

	f.d.DecisionCommitted(g, app, admission.DecisionAccept, occupancy.Snapshot{Occupied: 2, Capacity: 4})

	assert.Eventually(t, func() bool {
		return f.pubsub.Sent(pubsub.TopicApplicationDecided) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestGameCancelledPublishRetries(t *testing.T) {
	f := setup(t)
	g := scheduledGame()

	attempts := 0
	f.pubsub.SendMessageFunc = func(topic string, data any) error {
		attempts++
		if attempts < 2 {
			return assert.AnError
		}
		return nil
	}

	f.d.GameCancelled(g, []string{"alice"})

	assert.Eventually(t, func() bool {
		return f.pubsub.Sent(pubsub.TopicGameCancelled) == 2
	}, 2*time.Second, 10*time.Millisecond)
}
