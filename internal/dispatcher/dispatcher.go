package dispatcher

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mkrogh/courtside/internal/admission"
	"github.com/mkrogh/courtside/internal/application"
	"github.com/mkrogh/courtside/internal/game"
	"github.com/mkrogh/courtside/internal/metrics"
	"github.com/mkrogh/courtside/internal/notifier"
	"github.com/mkrogh/courtside/internal/occupancy"
	"github.com/mkrogh/courtside/internal/profile"
	"github.com/mkrogh/courtside/internal/pubsub"
	"github.com/samber/lo"
)

const (
	publishAttempts = 3
	publishBackoff  = 200 * time.Millisecond
)

var _ admission.Events = (*Dispatcher)(nil)

// New creates a new Dispatcher.
func New(games game.Catalog, apps application.Ledger, profiles profile.Store, n notifier.Notifier, m metrics.Metrics, ps pubsub.Client) *Dispatcher {
	return &Dispatcher{
		games:    games,
		apps:     apps,
		profiles: profiles,
		notifier: n,
		metrics:  m,
		pubsub:   ps,
	}
}

// publish sends the event on a background goroutine with a few retries.
// The triggering mutation is already committed, so a publish failure is
// logged and counted but never surfaced to the caller.
func (d *Dispatcher) publish(topic string, ev any) {
	go func() {
		var err error
		for attempt := 1; attempt <= publishAttempts; attempt++ {
			if err = d.pubsub.SendMessage(topic, ev); err == nil {
				return
			}
			time.Sleep(time.Duration(attempt) * publishBackoff)
		}
		d.metrics.IncNotifFailed()
		log.Error("Failed to publish event", "topic", topic, "error", err)
	}()
}

// SubmissionCommitted publishes the arrival of a new application.
func (d *Dispatcher) SubmissionCommitted(g *game.Game, app *application.Application) {
	d.publish(pubsub.TopicApplicationSubmitted, SubmissionEvent{
		GameID:        g.ID,
		ApplicationID: app.ID,
		ApplicantID:   app.ApplicantID,
	})
}

func (d *Dispatcher) DecisionCommitted(g *game.Game, app *application.Application, decision admission.Decision, snap occupancy.Snapshot) {
	d.publish(pubsub.TopicApplicationDecided, DecisionEvent{
		GameID:        g.ID,
		ApplicationID: app.ID,
		ApplicantID:   app.ApplicantID,
		Decision:      string(decision),
		Occupied:      snap.Occupied,
		Capacity:      snap.Capacity,
	})
}

func (d *Dispatcher) GameCancelled(g *game.Game, affectedApplicants []string) {
	d.publish(pubsub.TopicGameCancelled, CancellationEvent{
		GameID:       g.ID,
		ApplicantIDs: affectedApplicants,
	})
}

// snapshot recomputes occupancy from the ledger at delivery time.
func (d *Dispatcher) snapshot(g *game.Game) (occupancy.Snapshot, error) {
	count, err := d.apps.CountAccepted(g.ID)
	if err != nil {
		return occupancy.Snapshot{}, fmt.Errorf("failed to count accepted applications: %w", err)
	}
	return occupancy.Compute(g.CreatorPlays, g.Capacity, count), nil
}

// HandleSubmission tells the creator a new application arrived.
func (d *Dispatcher) HandleSubmission(ev SubmissionEvent, dryRun bool) error {
	g, err := d.games.Get(ev.GameID)
	if err != nil {
		return fmt.Errorf("failed to get game %s: %w", ev.GameID, err)
	}
	if g.Status != game.StatusScheduled {
		log.Debug("Game no longer scheduled, skipping submission notification", "gameID", g.ID, "status", g.Status)
		return nil
	}

	creator, err := d.profiles.Get(g.CreatorID)
	if err != nil {
		return fmt.Errorf("failed to get creator profile: %w", err)
	}
	applicant, err := d.profiles.Get(ev.ApplicantID)
	if err != nil {
		return fmt.Errorf("failed to get applicant profile: %w", err)
	}
	snap, err := d.snapshot(g)
	if err != nil {
		return err
	}

	return d.notifier.SendApplicationReceived(*creator, *applicant, g, snap, dryRun)
}

// HandleDecision fans a committed decision out to everyone involved. The
// participant set and occupancy are read fresh from the ledger rather than
// trusted from the event payload, so a delayed delivery still reports the
// current roster.
func (d *Dispatcher) HandleDecision(ev DecisionEvent, dryRun bool) error {
	g, err := d.games.Get(ev.GameID)
	if err != nil {
		return fmt.Errorf("failed to get game %s: %w", ev.GameID, err)
	}
	applicant, err := d.profiles.Get(ev.ApplicantID)
	if err != nil {
		return fmt.Errorf("failed to get applicant profile: %w", err)
	}

	if ev.Decision == string(admission.DecisionReject) {
		return d.notifier.SendApplicationRejected(*applicant, g, dryRun)
	}

	accepted, err := d.apps.GetAccepted(g.ID)
	if err != nil {
		return fmt.Errorf("failed to get accepted applications: %w", err)
	}
	snap := occupancy.Compute(g.CreatorPlays, g.Capacity, len(accepted))

	creator, err := d.profiles.Get(g.CreatorID)
	if err != nil {
		return fmt.Errorf("failed to get creator profile: %w", err)
	}

	// Roster shown to the newcomer: everyone confirmed besides themselves,
	// with the creator listed first when they occupy a slot.
	rosterIDs := lo.FilterMap(accepted, func(a application.Application, _ int) (string, bool) {
		return a.ApplicantID, a.ApplicantID != ev.ApplicantID
	})
	if g.CreatorPlays {
		rosterIDs = append([]string{g.CreatorID}, rosterIDs...)
	}
	roster, err := d.profiles.GetMany(rosterIDs)
	if err != nil {
		return fmt.Errorf("failed to get roster profiles: %w", err)
	}

	var errs []error
	if err := d.notifier.SendCreatorAccepted(*creator, *applicant, g, snap, dryRun); err != nil {
		errs = append(errs, err)
	}
	if err := d.notifier.SendApplicationAccepted(*applicant, g, roster, snap, dryRun); err != nil {
		errs = append(errs, err)
	}
	for _, p := range roster {
		if p.ID == g.CreatorID {
			continue
		}
		if err := d.notifier.SendParticipantJoined(p, *applicant, g, dryRun); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HandleCancellation notifies every applicant affected by a cancellation:
// the pending applicants carried in the event plus anyone already accepted.
func (d *Dispatcher) HandleCancellation(ev CancellationEvent, dryRun bool) error {
	g, err := d.games.Get(ev.GameID)
	if err != nil {
		return fmt.Errorf("failed to get game %s: %w", ev.GameID, err)
	}

	accepted, err := d.apps.GetAccepted(g.ID)
	if err != nil {
		return fmt.Errorf("failed to get accepted applications: %w", err)
	}
	ids := lo.Uniq(append(
		lo.Map(accepted, func(a application.Application, _ int) string { return a.ApplicantID }),
		ev.ApplicantIDs...,
	))
	ids = lo.Filter(ids, func(id string, _ int) bool { return id != g.CreatorID })

	recipients, err := d.profiles.GetMany(ids)
	if err != nil {
		return fmt.Errorf("failed to get recipient profiles: %w", err)
	}

	var errs []error
	for _, p := range recipients {
		if err := d.notifier.SendGameCancelled(p, g, dryRun); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
