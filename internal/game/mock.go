package game

import "sync"

// MockCatalog is a mock implementation of the Catalog interface for testing.
// It is safe for concurrent use.
type MockCatalog struct {
	mu sync.Mutex

	CreateFunc func(creatorID string, params CreateParams) (*Game, error)
	GetFunc    func(gameID string) (*Game, error)
	CancelFunc func(gameID, requesterID string) ([]string, error)
	ListFunc   func(filters Filters, page Pagination) (*Page, error)

	CreateCalls []struct {
		CreatorID string
		Params    CreateParams
	}
	GetCalls    []string
	CancelCalls []struct {
		GameID      string
		RequesterID string
	}
	ListCalls []Filters
}

var _ Catalog = (*MockCatalog)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockCatalog {
	return &MockCatalog{}
}

func (m *MockCatalog) Create(creatorID string, params CreateParams) (*Game, error) {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, struct {
		CreatorID string
		Params    CreateParams
	}{creatorID, params})
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(creatorID, params)
	}
	return &Game{ID: "mock-game", CreatorID: creatorID, Status: StatusScheduled}, nil
}

func (m *MockCatalog) Get(gameID string) (*Game, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, gameID)
	m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(gameID)
	}
	return nil, ErrNotFound
}

func (m *MockCatalog) Cancel(gameID, requesterID string) ([]string, error) {
	m.mu.Lock()
	m.CancelCalls = append(m.CancelCalls, struct {
		GameID      string
		RequesterID string
	}{gameID, requesterID})
	m.mu.Unlock()
	if m.CancelFunc != nil {
		return m.CancelFunc(gameID, requesterID)
	}
	return nil, nil
}

func (m *MockCatalog) List(filters Filters, page Pagination) (*Page, error) {
	m.mu.Lock()
	m.ListCalls = append(m.ListCalls, filters)
	m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc(filters, page)
	}
	return &Page{}, nil
}
