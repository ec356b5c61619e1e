package court

import "sync"

// MockCatalog is a mock implementation of the Catalog interface for testing.
// It is safe for concurrent use.
type MockCatalog struct {
	mu sync.Mutex

	AddFunc          func(name, address string) (*Court, error)
	GetFunc          func(courtID string) (*Court, error)
	ExistsFunc       func(courtID string) (bool, error)
	ListFunc         func() ([]Court, error)
	SetHomeCourtFunc func(playerID, courtID string) error
	HomeCourtsFunc   func(playerID string) ([]string, error)

	ExistsCalls []string
	GetCalls    []string
}

var _ Catalog = (*MockCatalog)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockCatalog {
	return &MockCatalog{}
}

func (m *MockCatalog) Add(name, address string) (*Court, error) {
	if m.AddFunc != nil {
		return m.AddFunc(name, address)
	}
	return &Court{ID: "mock-court", Name: name, Address: address}, nil
}

func (m *MockCatalog) Get(courtID string) (*Court, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, courtID)
	m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(courtID)
	}
	return &Court{ID: courtID, Name: "Mock Court"}, nil
}

func (m *MockCatalog) Exists(courtID string) (bool, error) {
	m.mu.Lock()
	m.ExistsCalls = append(m.ExistsCalls, courtID)
	m.mu.Unlock()
	if m.ExistsFunc != nil {
		return m.ExistsFunc(courtID)
	}
	return true, nil
}

func (m *MockCatalog) List() ([]Court, error) {
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return nil, nil
}

func (m *MockCatalog) SetHomeCourt(playerID, courtID string) error {
	if m.SetHomeCourtFunc != nil {
		return m.SetHomeCourtFunc(playerID, courtID)
	}
	return nil
}

func (m *MockCatalog) HomeCourts(playerID string) ([]string, error) {
	if m.HomeCourtsFunc != nil {
		return m.HomeCourtsFunc(playerID)
	}
	return nil, nil
}
