package notifier

import (
	"github.com/mkrogh/courtside/internal/game"
	"github.com/mkrogh/courtside/internal/occupancy"
	"github.com/mkrogh/courtside/internal/profile"
)

// Notifier delivers outcome messages to individual recipients. It decouples
// the rest of the application from the messaging provider (e.g., Slack).
//
// Delivery is best effort: implementations log and count failures but the
// ledger mutation that triggered the message is already durable, so errors
// returned here are observed by the dispatcher and never propagated further.
type Notifier interface {
	// SendApplicationReceived tells the creator a new application arrived.
	SendApplicationReceived(creator, applicant profile.Player, g *game.Game, snap occupancy.Snapshot, dryRun bool) error
	// SendApplicationAccepted tells the applicant they are in, including the
	// contacts of everyone already confirmed.
	SendApplicationAccepted(applicant profile.Player, g *game.Game, roster []profile.Player, snap occupancy.Snapshot, dryRun bool) error
	// SendCreatorAccepted confirms to the creator that the accept went through.
	SendCreatorAccepted(creator, newcomer profile.Player, g *game.Game, snap occupancy.Snapshot, dryRun bool) error
	// SendParticipantJoined tells an already-confirmed participant who joined.
	SendParticipantJoined(recipient, newcomer profile.Player, g *game.Game, dryRun bool) error
	SendApplicationRejected(applicant profile.Player, g *game.Game, dryRun bool) error
	SendGameCancelled(recipient profile.Player, g *game.Game, dryRun bool) error
}
