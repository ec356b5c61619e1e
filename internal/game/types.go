package game

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/mkrogh/courtside/internal/clock"
	"github.com/mkrogh/courtside/internal/court"
)

// Status is the lifecycle state of a game.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
	StatusFinished  Status = "finished"
)

// Visibility controls whether a game shows up in public listings.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// MatchType distinguishes singles and doubles games.
type MatchType string

const (
	MatchTypeSingles MatchType = "singles"
	MatchTypeDoubles MatchType = "doubles"
)

// PaymentSplit is the creator's stated intent for splitting the court fee.
type PaymentSplit string

const (
	PaymentShared      PaymentSplit = "shared"
	PaymentCreatorPays PaymentSplit = "creator_pays"
)

var (
	ErrNotFound         = errors.New("game not found")
	ErrValidation       = errors.New("invalid game parameters")
	ErrNotCreator       = errors.New("only the game creator may do this")
	ErrAlreadyCancelled = errors.New("game is already cancelled")
	ErrNotOpen          = errors.New("game is not open")
)

// RatingRange restricts who a game is intended for. Bounds are inclusive
// and expressed on the club's 1.0-7.0 scale.
type RatingRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Game is a scheduled match looking for participants.
type Game struct {
	ID              string       `json:"id"`
	CreatorID       string       `json:"creator_id"`
	CourtID         string       `json:"court_id"`
	Date            string       `json:"date"`       // YYYY-MM-DD
	StartTime       string       `json:"start_time"` // HH:MM
	DurationMinutes *int         `json:"duration_minutes,omitempty"`
	Capacity        int          `json:"capacity"`
	CreatorPlays    bool         `json:"creator_plays"`
	Rating          *RatingRange `json:"rating,omitempty"`
	MatchType       MatchType    `json:"match_type"`
	PaymentSplit    PaymentSplit `json:"payment_split"`
	CourtBooked     bool         `json:"court_booked"`
	Visibility      Visibility   `json:"visibility"`
	Comment         string       `json:"comment,omitempty"`
	Status          Status       `json:"status"`
	CreatedAt       int64        `json:"created_at"`
}

// CreateParams is the validated input produced by the creation wizard
// (or the direct API) for a new game.
type CreateParams struct {
	CourtID         string       `json:"court_id" validate:"required"`
	Date            string       `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string       `json:"start_time" validate:"required,datetime=15:04"`
	DurationMinutes *int         `json:"duration_minutes,omitempty" validate:"omitempty,gt=0"`
	Capacity        int          `json:"capacity" validate:"gte=2"`
	CreatorPlays    bool         `json:"creator_plays"`
	Rating          *RatingRange `json:"rating,omitempty"`
	MatchType       MatchType    `json:"match_type" validate:"required,oneof=singles doubles"`
	PaymentSplit    PaymentSplit `json:"payment_split" validate:"omitempty,oneof=shared creator_pays"`
	CourtBooked     bool         `json:"court_booked"`
	Visibility      Visibility   `json:"visibility" validate:"omitempty,oneof=public private"`
	Comment         string       `json:"comment,omitempty"`
}

// Summary is a listing row with a display-only occupancy reading.
type Summary struct {
	ID           string    `json:"id"`
	CreatorID    string    `json:"creator_id"`
	CourtID      string    `json:"court_id"`
	CourtName    string    `json:"court_name"`
	Date         string    `json:"date"`
	StartTime    string    `json:"start_time"`
	MatchType    MatchType `json:"match_type"`
	Occupied     int       `json:"occupied"`
	Capacity     int       `json:"capacity"`
	Comment      string    `json:"comment,omitempty"`
	CreatorPlays bool      `json:"creator_plays"`
}

// TimeOfDay buckets a listing filter on start time.
type TimeOfDay string

const (
	TimeAny     TimeOfDay = ""
	TimeMorning TimeOfDay = "morning" // before 12:00
	TimeDay     TimeOfDay = "day"     // 12:00 - 17:59
	TimeEvening TimeOfDay = "evening" // 18:00 onwards
)

// Filters narrows a game listing.
type Filters struct {
	Date        string       `json:"date,omitempty"`
	TimeOfDay   TimeOfDay    `json:"time_of_day,omitempty"`
	Rating      *RatingRange `json:"rating,omitempty"`
	HomeCourtOf string       `json:"home_court_of,omitempty"`
}

// Pagination is a plain offset/limit window.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Page is one window of listing results.
type Page struct {
	Games      []Summary `json:"games"`
	HasMore    bool      `json:"has_more"`
	NextOffset int       `json:"next_offset"`
}

type store struct {
	db      *sql.DB
	courts  court.Catalog
	clock   clock.Clock
	horizon int // days
	mu      sync.RWMutex
}
