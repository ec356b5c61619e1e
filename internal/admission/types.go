package admission

import (
	"errors"
	"sync"

	"github.com/mkrogh/courtside/internal/application"
	"github.com/mkrogh/courtside/internal/clock"
	"github.com/mkrogh/courtside/internal/game"
	"github.com/mkrogh/courtside/internal/metrics"
	"github.com/mkrogh/courtside/internal/occupancy"
)

// Decision is the creator's verdict on a pending application.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

var (
	ErrNotDecider = errors.New("only the game creator may decide applications")
	// ErrCapacityExceeded means the game was already full at decision time.
	// The application stays pending; the creator can reject it or leave it.
	ErrCapacityExceeded = errors.New("game is already at capacity")
	ErrUnknownDecision  = errors.New("unknown decision")
)

// Events receives committed outcomes for asynchronous fan-out. Implementations
// must return quickly and must never fail the triggering operation.
type Events interface {
	DecisionCommitted(g *game.Game, app *application.Application, decision Decision, snap occupancy.Snapshot)
	GameCancelled(g *game.Game, affectedApplicants []string)
}

// Controller serializes accept/reject decisions per game and enforces the
// occupancy invariant. All decide and cancel calls for a given game funnel
// through one mutex; decisions on different games do not contend.
type Controller struct {
	games   game.Catalog
	apps    application.Ledger
	clock   clock.Clock
	metrics metrics.Metrics
	events  Events

	locks sync.Map // game ID -> *sync.Mutex
}
