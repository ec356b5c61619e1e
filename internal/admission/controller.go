package admission

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mkrogh/courtside/internal/application"
	"github.com/mkrogh/courtside/internal/clock"
	"github.com/mkrogh/courtside/internal/game"
	"github.com/mkrogh/courtside/internal/metrics"
	"github.com/mkrogh/courtside/internal/occupancy"
)

// New creates a new admission Controller.
func New(games game.Catalog, apps application.Ledger, clk clock.Clock, m metrics.Metrics, events Events) *Controller {
	return &Controller{
		games:   games,
		apps:    apps,
		clock:   clk,
		metrics: m,
		events:  events,
	}
}

// lockGame takes the serialization point for one game and returns the
// release function. Locks are cheap and never discarded; the set of games a
// single process decides on is small.
func (c *Controller) lockGame(gameID string) func() {
	v, _ := c.locks.LoadOrStore(gameID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Decide applies the creator's verdict to a pending application and returns
// the post-decision occupancy snapshot.
//
// The occupancy check and the status mutation are indivisible with respect
// to any other Decide or CancelGame call on the same game: occupancy is
// re-derived from persisted rows inside the per-game critical section, never
// taken from a cached value. Rejection always succeeds; acceptance fails
// with ErrCapacityExceeded when the game is already full, leaving the
// application pending.
func (c *Controller) Decide(applicationID, deciderID string, decision Decision) (occupancy.Snapshot, error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveDecisionDuration(time.Since(start).Seconds())
	}()

	if decision != DecisionAccept && decision != DecisionReject {
		return occupancy.Snapshot{}, ErrUnknownDecision
	}

	// First read only locates the owning game for the lock key.
	app, err := c.apps.Get(applicationID)
	if err != nil {
		return occupancy.Snapshot{}, err
	}

	unlock := c.lockGame(app.GameID)
	defer unlock()

	// Re-read everything inside the critical section: a concurrent decide
	// or cancellation may have landed between the lookup and the lock.
	app, err = c.apps.Get(applicationID)
	if err != nil {
		return occupancy.Snapshot{}, err
	}
	g, err := c.games.Get(app.GameID)
	if err != nil {
		return occupancy.Snapshot{}, err
	}
	if g.CreatorID != deciderID {
		return occupancy.Snapshot{}, ErrNotDecider
	}
	if app.Status != application.StatusPending {
		return occupancy.Snapshot{}, application.ErrAlreadyDecided
	}
	if g.Status != game.StatusScheduled {
		return occupancy.Snapshot{}, game.ErrNotOpen
	}

	now := c.clock.Now().Unix()

	if decision == DecisionReject {
		if err := c.apps.MarkRejected(app.ID, now); err != nil {
			return occupancy.Snapshot{}, err
		}
		snap, err := c.snapshot(g)
		if err != nil {
			return occupancy.Snapshot{}, err
		}
		c.metrics.IncApplicationsRejected()
		log.Info("Application rejected", "applicationID", app.ID, "gameID", g.ID)
		c.commit(g, app, DecisionReject, now, snap)
		return snap, nil
	}

	snap, err := c.snapshot(g)
	if err != nil {
		return occupancy.Snapshot{}, err
	}
	if snap.Full() {
		c.metrics.IncCapacityRejections()
		log.Info("Accept refused, game is full",
			"applicationID", app.ID, "gameID", g.ID,
			"occupied", snap.Occupied, "capacity", snap.Capacity)
		return occupancy.Snapshot{}, ErrCapacityExceeded
	}

	if err := c.apps.MarkAccepted(app.ID, now); err != nil {
		return occupancy.Snapshot{}, err
	}
	snap, err = c.snapshot(g)
	if err != nil {
		return occupancy.Snapshot{}, err
	}
	c.metrics.IncApplicationsAccepted()
	log.Info("Application accepted",
		"applicationID", app.ID, "gameID", g.ID,
		"occupied", snap.Occupied, "capacity", snap.Capacity)
	c.commit(g, app, DecisionAccept, now, snap)
	return snap, nil
}

// CancelGame routes cancellation through the same per-game serialization
// point as Decide, so a game cannot be cancelled while an acceptance for it
// is in flight.
func (c *Controller) CancelGame(gameID, requesterID string) error {
	unlock := c.lockGame(gameID)
	defer unlock()

	affected, err := c.games.Cancel(gameID, requesterID)
	if err != nil {
		return err
	}
	c.metrics.IncGamesCancelled()

	g, err := c.games.Get(gameID)
	if err != nil {
		// The cancellation is durable; only the notification is lost.
		log.Error("Failed to reload cancelled game for fan-out", "gameID", gameID, "error", err)
		return nil
	}
	c.events.GameCancelled(g, affected)
	return nil
}

// Occupancy returns a display snapshot for a game. Outside a decision this
// reading may be momentarily stale; Decide never uses it without the lock.
func (c *Controller) Occupancy(gameID string) (occupancy.Snapshot, error) {
	g, err := c.games.Get(gameID)
	if err != nil {
		return occupancy.Snapshot{}, err
	}
	return c.snapshot(g)
}

func (c *Controller) snapshot(g *game.Game) (occupancy.Snapshot, error) {
	count, err := c.apps.CountAccepted(g.ID)
	if err != nil {
		return occupancy.Snapshot{}, err
	}
	return occupancy.Compute(g.CreatorPlays, g.Capacity, count), nil
}

func (c *Controller) commit(g *game.Game, app *application.Application, decision Decision, decidedAt int64, snap occupancy.Snapshot) {
	decided := *app
	decided.DecidedAt = &decidedAt
	if decision == DecisionAccept {
		decided.Status = application.StatusAccepted
	} else {
		decided.Status = application.StatusRejected
	}
	c.events.DecisionCommitted(g, &decided, decision, snap)
}
