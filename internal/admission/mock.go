package admission

import (
	"sync"

	"github.com/mkrogh/courtside/internal/application"
	"github.com/mkrogh/courtside/internal/game"
	"github.com/mkrogh/courtside/internal/occupancy"
)

// MockEvents records committed outcomes for assertions. It is safe for
// concurrent use.
type MockEvents struct {
	mu sync.Mutex

	DecisionCommittedCalls []struct {
		Game     *game.Game
		App      *application.Application
		Decision Decision
		Snap     occupancy.Snapshot
	}
	GameCancelledCalls []struct {
		Game               *game.Game
		AffectedApplicants []string
	}
}

var _ Events = (*MockEvents)(nil)

// NewMockEvents creates a new mock instance.
func NewMockEvents() *MockEvents {
	return &MockEvents{}
}

func (m *MockEvents) DecisionCommitted(g *game.Game, app *application.Application, decision Decision, snap occupancy.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DecisionCommittedCalls = append(m.DecisionCommittedCalls, struct {
		Game     *game.Game
		App      *application.Application
		Decision Decision
		Snap     occupancy.Snapshot
	}{g, app, decision, snap})
}

func (m *MockEvents) GameCancelled(g *game.Game, affected []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GameCancelledCalls = append(m.GameCancelledCalls, struct {
		Game               *game.Game
		AffectedApplicants []string
	}{g, affected})
}

// DecisionCount returns how many decisions have been committed.
func (m *MockEvents) DecisionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.DecisionCommittedCalls)
}
