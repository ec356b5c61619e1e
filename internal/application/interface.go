package application

// Ledger defines the interface for application storage and status
// transitions. Submission is deliberately uncapped: capacity is only
// enforced at decision time by the admission controller.
type Ledger interface {
	Submit(gameID, applicantID string) (*Application, error)
	Get(applicationID string) (*Application, error)
	GetPending(gameID string) ([]Application, error)
	GetAccepted(gameID string) ([]Application, error)
	CountAccepted(gameID string) (int, error)
	// MarkAccepted and MarkRejected only transition pending applications;
	// anything else returns ErrAlreadyDecided.
	MarkAccepted(applicationID string, decidedAt int64) error
	MarkRejected(applicationID string, decidedAt int64) error
}
