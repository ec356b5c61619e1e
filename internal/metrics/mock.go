package metrics

import "sync"

// MockMetrics is a no-op implementation of Metrics that records call counts.
// It is safe for concurrent use.
type MockMetrics struct {
	mu sync.Mutex

	GamesCreatedCalls          int
	GamesCancelledCalls        int
	ApplicationsSubmittedCalls int
	ApplicationsAcceptedCalls  int
	ApplicationsRejectedCalls  int
	CapacityRejectionsCalls    int
	DecisionDurations          []float64
	NotifSentCalls             int
	NotifFailedCalls           int
	StartupTimes               []float64
}

var _ Metrics = (*MockMetrics)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockMetrics {
	return &MockMetrics{}
}

func (m *MockMetrics) IncGamesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GamesCreatedCalls++
}

func (m *MockMetrics) IncGamesCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GamesCancelledCalls++
}

func (m *MockMetrics) IncApplicationsSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplicationsSubmittedCalls++
}

func (m *MockMetrics) IncApplicationsAccepted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplicationsAcceptedCalls++
}

func (m *MockMetrics) IncApplicationsRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplicationsRejectedCalls++
}

func (m *MockMetrics) IncCapacityRejections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CapacityRejectionsCalls++
}

func (m *MockMetrics) ObserveDecisionDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DecisionDurations = append(m.DecisionDurations, seconds)
}

func (m *MockMetrics) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifSentCalls++
}

func (m *MockMetrics) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifFailedCalls++
}

func (m *MockMetrics) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTimes = append(m.StartupTimes, seconds)
}
