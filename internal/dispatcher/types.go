package dispatcher

import (
	"github.com/mkrogh/courtside/internal/application"
	"github.com/mkrogh/courtside/internal/game"
	"github.com/mkrogh/courtside/internal/metrics"
	"github.com/mkrogh/courtside/internal/notifier"
	"github.com/mkrogh/courtside/internal/profile"
	"github.com/mkrogh/courtside/internal/pubsub"
)

// SubmissionEvent is published after an application submission commits.
type SubmissionEvent struct {
	GameID        string `msgpack:"game_id"`
	ApplicationID string `msgpack:"application_id"`
	ApplicantID   string `msgpack:"applicant_id"`
}

// DecisionEvent is published after an admission decision commits.
type DecisionEvent struct {
	GameID        string `msgpack:"game_id"`
	ApplicationID string `msgpack:"application_id"`
	ApplicantID   string `msgpack:"applicant_id"`
	Decision      string `msgpack:"decision"`
	Occupied      int    `msgpack:"occupied"`
	Capacity      int    `msgpack:"capacity"`
}

// CancellationEvent is published after a game cancellation commits.
// ApplicantIDs holds the applicants whose pending applications were
// cascaded; accepted participants are looked up fresh at delivery time.
type CancellationEvent struct {
	GameID       string   `msgpack:"game_id"`
	ApplicantIDs []string `msgpack:"applicant_ids"`
}

// Dispatcher fans committed outcomes out to everyone involved. Publishing
// happens after the mutating transaction commits and never blocks or fails
// the caller; delivery recomputes the participant contact set from the
// current ledger rather than trusting the event payload.
type Dispatcher struct {
	games    game.Catalog
	apps     application.Ledger
	profiles profile.Store
	notifier notifier.Notifier
	metrics  metrics.Metrics
	pubsub   pubsub.Client
}
