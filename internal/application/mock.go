package application

import "sync"

// MockLedger is a mock implementation of the Ledger interface for testing.
// It is safe for concurrent use.
type MockLedger struct {
	mu sync.Mutex

	SubmitFunc        func(gameID, applicantID string) (*Application, error)
	GetFunc           func(applicationID string) (*Application, error)
	GetPendingFunc    func(gameID string) ([]Application, error)
	GetAcceptedFunc   func(gameID string) ([]Application, error)
	CountAcceptedFunc func(gameID string) (int, error)
	MarkAcceptedFunc  func(applicationID string, decidedAt int64) error
	MarkRejectedFunc  func(applicationID string, decidedAt int64) error

	SubmitCalls []struct {
		GameID      string
		ApplicantID string
	}
	MarkAcceptedCalls []string
	MarkRejectedCalls []string
}

var _ Ledger = (*MockLedger)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockLedger {
	return &MockLedger{}
}

func (m *MockLedger) Submit(gameID, applicantID string) (*Application, error) {
	m.mu.Lock()
	m.SubmitCalls = append(m.SubmitCalls, struct {
		GameID      string
		ApplicantID string
	}{gameID, applicantID})
	m.mu.Unlock()
	if m.SubmitFunc != nil {
		return m.SubmitFunc(gameID, applicantID)
	}
	return &Application{ID: "mock-app", GameID: gameID, ApplicantID: applicantID, Status: StatusPending}, nil
}

func (m *MockLedger) Get(applicationID string) (*Application, error) {
	if m.GetFunc != nil {
		return m.GetFunc(applicationID)
	}
	return nil, ErrNotFound
}

func (m *MockLedger) GetPending(gameID string) ([]Application, error) {
	if m.GetPendingFunc != nil {
		return m.GetPendingFunc(gameID)
	}
	return nil, nil
}

func (m *MockLedger) GetAccepted(gameID string) ([]Application, error) {
	if m.GetAcceptedFunc != nil {
		return m.GetAcceptedFunc(gameID)
	}
	return nil, nil
}

func (m *MockLedger) CountAccepted(gameID string) (int, error) {
	if m.CountAcceptedFunc != nil {
		return m.CountAcceptedFunc(gameID)
	}
	return 0, nil
}

func (m *MockLedger) MarkAccepted(applicationID string, decidedAt int64) error {
	m.mu.Lock()
	m.MarkAcceptedCalls = append(m.MarkAcceptedCalls, applicationID)
	m.mu.Unlock()
	if m.MarkAcceptedFunc != nil {
		return m.MarkAcceptedFunc(applicationID, decidedAt)
	}
	return nil
}

func (m *MockLedger) MarkRejected(applicationID string, decidedAt int64) error {
	m.mu.Lock()
	m.MarkRejectedCalls = append(m.MarkRejectedCalls, applicationID)
	m.mu.Unlock()
	if m.MarkRejectedFunc != nil {
		return m.MarkRejectedFunc(applicationID, decidedAt)
	}
	return nil
}
