package notifier

import (
	"sync"

	"github.com/mkrogh/courtside/internal/game"
	"github.com/mkrogh/courtside/internal/occupancy"
	"github.com/mkrogh/courtside/internal/profile"
)

// MockNotifier records every notification for assertions. It is safe for
// concurrent use.
type MockNotifier struct {
	mu sync.Mutex

	SendApplicationReceivedFunc func(creator, applicant profile.Player, g *game.Game, snap occupancy.Snapshot, dryRun bool) error
	SendApplicationAcceptedFunc func(applicant profile.Player, g *game.Game, roster []profile.Player, snap occupancy.Snapshot, dryRun bool) error
	SendCreatorAcceptedFunc     func(creator, newcomer profile.Player, g *game.Game, snap occupancy.Snapshot, dryRun bool) error
	SendParticipantJoinedFunc   func(recipient, newcomer profile.Player, g *game.Game, dryRun bool) error
	SendApplicationRejectedFunc func(applicant profile.Player, g *game.Game, dryRun bool) error
	SendGameCancelledFunc       func(recipient profile.Player, g *game.Game, dryRun bool) error

	ApplicationReceivedCalls []profile.Player // applicant per call
	ApplicationAcceptedCalls []struct {
		Applicant profile.Player
		Roster    []profile.Player
	}
	CreatorAcceptedCalls   []profile.Player // newcomer per call
	ParticipantJoinedCalls []struct {
		Recipient profile.Player
		Newcomer  profile.Player
	}
	ApplicationRejectedCalls []profile.Player
	GameCancelledCalls       []profile.Player
}

var _ Notifier = (*MockNotifier)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) SendApplicationReceived(creator, applicant profile.Player, g *game.Game, snap occupancy.Snapshot, dryRun bool) error {
	m.mu.Lock()
	m.ApplicationReceivedCalls = append(m.ApplicationReceivedCalls, applicant)
	m.mu.Unlock()
	if m.SendApplicationReceivedFunc != nil {
		return m.SendApplicationReceivedFunc(creator, applicant, g, snap, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendApplicationAccepted(applicant profile.Player, g *game.Game, roster []profile.Player, snap occupancy.Snapshot, dryRun bool) error {
	m.mu.Lock()
	m.ApplicationAcceptedCalls = append(m.ApplicationAcceptedCalls, struct {
		Applicant profile.Player
		Roster    []profile.Player
	}{applicant, roster})
	m.mu.Unlock()
	if m.SendApplicationAcceptedFunc != nil {
		return m.SendApplicationAcceptedFunc(applicant, g, roster, snap, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendCreatorAccepted(creator, newcomer profile.Player, g *game.Game, snap occupancy.Snapshot, dryRun bool) error {
	m.mu.Lock()
	m.CreatorAcceptedCalls = append(m.CreatorAcceptedCalls, newcomer)
	m.mu.Unlock()
	if m.SendCreatorAcceptedFunc != nil {
		return m.SendCreatorAcceptedFunc(creator, newcomer, g, snap, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendParticipantJoined(recipient, newcomer profile.Player, g *game.Game, dryRun bool) error {
	m.mu.Lock()
	m.ParticipantJoinedCalls = append(m.ParticipantJoinedCalls, struct {
		Recipient profile.Player
		Newcomer  profile.Player
	}{recipient, newcomer})
	m.mu.Unlock()
	if m.SendParticipantJoinedFunc != nil {
		return m.SendParticipantJoinedFunc(recipient, newcomer, g, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendApplicationRejected(applicant profile.Player, g *game.Game, dryRun bool) error {
	m.mu.Lock()
	m.ApplicationRejectedCalls = append(m.ApplicationRejectedCalls, applicant)
	m.mu.Unlock()
	if m.SendApplicationRejectedFunc != nil {
		return m.SendApplicationRejectedFunc(applicant, g, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendGameCancelled(recipient profile.Player, g *game.Game, dryRun bool) error {
	m.mu.Lock()
	m.GameCancelledCalls = append(m.GameCancelledCalls, recipient)
	m.mu.Unlock()
	if m.SendGameCancelledFunc != nil {
		return m.SendGameCancelledFunc(recipient, g, dryRun)
	}
	return nil
}
