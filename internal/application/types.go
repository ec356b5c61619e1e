package application

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/mkrogh/courtside/internal/clock"
)

// Status is the state of a join application. A rejected application may
// return to pending on reapply; accepted and cancelled are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

var (
	ErrNotFound        = errors.New("application not found")
	ErrIsOwnGame       = errors.New("creator cannot apply to their own game")
	ErrGameNotOpen     = errors.New("game is not open for applications")
	ErrAlreadyPending  = errors.New("an application for this game is already pending")
	ErrAlreadyAccepted = errors.New("applicant is already accepted for this game")
	ErrAlreadyDecided  = errors.New("application has already been decided")
)

// Application is a join request from an applicant to a specific game.
// There is at most one logical application per (game, applicant) pair;
// the same row is reused across reapplication.
type Application struct {
	ID          string `json:"id"`
	GameID      string `json:"game_id"`
	ApplicantID string `json:"applicant_id"`
	Status      Status `json:"status"`
	CreatedAt   int64  `json:"created_at"`
	DecidedAt   *int64 `json:"decided_at,omitempty"`
}

type store struct {
	db    *sql.DB
	clock clock.Clock
	mu    sync.RWMutex
}
