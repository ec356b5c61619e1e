package court

import (
	"database/sql"
	"errors"
	"sync"
)

// ErrNotFound is returned when a court does not exist.
var ErrNotFound = errors.New("court not found")

// Court represents a playable venue.
type Court struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// store handles database operations for courts and home-court membership.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}
