package wizard

import (
	"errors"
	"sync"

	"github.com/mkrogh/courtside/internal/court"
	"github.com/mkrogh/courtside/internal/game"
)

// Step identifies where in the creation flow a session currently is.
type Step string

const (
	StepMode       Step = "mode"
	StepCourt      Step = "court"
	StepDate       Step = "date"
	StepTime       Step = "time"
	StepDuration   Step = "duration"
	StepPayment    Step = "payment"
	StepMatchType  Step = "match_type"
	StepRating     Step = "rating"
	StepCapacity   Step = "capacity"
	StepBooked     Step = "booked"
	StepVisibility Step = "visibility"
	StepComment    Step = "comment"
)

var (
	ErrNoSession        = errors.New("no active session for this player")
	ErrSessionExists    = errors.New("a session is already in progress")
	ErrUnrecognized     = errors.New("unrecognized answer")
	ErrSessionCancelled = errors.New("session cancelled")
)

// Session collects one player's answers step by step. Each initiator has at
// most one live session; nothing about it is shared or global.
type Session struct {
	InitiatorID string
	Step        Step
	Params      game.CreateParams
}

// Prompt is what the wizard asks (or reports) after processing an answer.
type Prompt struct {
	Step Step   `json:"step,omitempty"`
	Text string `json:"text"`
	Done bool   `json:"done"`
	// Game is set on the final prompt once the game has been created.
	Game *game.Game `json:"game,omitempty"`
}

// Manager owns the live sessions and drives them to a single Create call.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	courts court.Catalog
	games  game.Catalog
}
