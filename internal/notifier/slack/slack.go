package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mkrogh/courtside/internal/game"
	"github.com/mkrogh/courtside/internal/metrics"
	"github.com/mkrogh/courtside/internal/notifier"
	"github.com/mkrogh/courtside/internal/occupancy"
	"github.com/mkrogh/courtside/internal/profile"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier delivers admission outcomes as Slack direct messages. Recipients
// are addressed by the Slack user ID stored as the player's contact handle.
type Notifier struct {
	api     slackClient
	metrics metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:     slack.New(token),
		metrics: metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:     api,
		metrics: metrics,
	}
}

func (s *Notifier) sendMessage(recipient profile.Player, message slack.Message, dryRun bool) error {
	if recipient.Contact == "" {
		log.Warn("Player has no contact handle, skipping notification", "playerID", recipient.ID)
		return nil
	}
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "recipient", recipient.Contact, "message", string(jsonMsg))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		recipient.Contact,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "recipient", recipient.Contact)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Debug("Sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

func (s *Notifier) SendApplicationReceived(creator, applicant profile.Player, g *game.Game, snap occupancy.Snapshot, dryRun bool) error {
	return s.sendMessage(creator, s.formatApplicationReceived(applicant, g, snap), dryRun)
}

func (s *Notifier) SendApplicationAccepted(applicant profile.Player, g *game.Game, roster []profile.Player, snap occupancy.Snapshot, dryRun bool) error {
	return s.sendMessage(applicant, s.formatApplicationAccepted(g, roster, snap), dryRun)
}

func (s *Notifier) SendCreatorAccepted(creator, newcomer profile.Player, g *game.Game, snap occupancy.Snapshot, dryRun bool) error {
	return s.sendMessage(creator, s.formatCreatorAccepted(newcomer, g, snap), dryRun)
}

func (s *Notifier) SendParticipantJoined(recipient, newcomer profile.Player, g *game.Game, dryRun bool) error {
	return s.sendMessage(recipient, s.formatParticipantJoined(newcomer, g), dryRun)
}

func (s *Notifier) SendApplicationRejected(applicant profile.Player, g *game.Game, dryRun bool) error {
	return s.sendMessage(applicant, s.formatApplicationRejected(g), dryRun)
}

func (s *Notifier) SendGameCancelled(recipient profile.Player, g *game.Game, dryRun bool) error {
	return s.sendMessage(recipient, s.formatGameCancelled(g), dryRun)
}
