package profile

import (
	"database/sql"
	"errors"
	"sync"
)

// ErrNotFound is returned when a player does not exist.
var ErrNotFound = errors.New("player not found")

// Player represents a user's display data used in filters and notifications.
type Player struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Rating *float64 `json:"rating,omitempty"`
	// Contact is the messaging handle notifications are delivered to
	// (a Slack user ID for the default gateway).
	Contact string `json:"contact,omitempty"`
}

type store struct {
	db *sql.DB
	mu sync.RWMutex
}
