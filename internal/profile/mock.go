package profile

import "sync"

// MockStore is a mock implementation of the profile Store for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	UpsertFunc  func(player Player) error
	GetFunc     func(playerID string) (*Player, error)
	GetManyFunc func(playerIDs []string) ([]Player, error)

	UpsertCalls  []Player
	GetCalls     []string
	GetManyCalls [][]string
}

var _ Store = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Upsert(player Player) error {
	m.mu.Lock()
	m.UpsertCalls = append(m.UpsertCalls, player)
	m.mu.Unlock()
	if m.UpsertFunc != nil {
		return m.UpsertFunc(player)
	}
	return nil
}

func (m *MockStore) Get(playerID string) (*Player, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, playerID)
	m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(playerID)
	}
	return &Player{ID: playerID, Name: "Player " + playerID}, nil
}

func (m *MockStore) GetMany(playerIDs []string) ([]Player, error) {
	m.mu.Lock()
	m.GetManyCalls = append(m.GetManyCalls, playerIDs)
	m.mu.Unlock()
	if m.GetManyFunc != nil {
		return m.GetManyFunc(playerIDs)
	}
	players := make([]Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		players = append(players, Player{ID: id, Name: "Player " + id})
	}
	return players, nil
}
