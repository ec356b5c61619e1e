package game

// Catalog defines the interface for game lifecycle operations.
type Catalog interface {
	Create(creatorID string, params CreateParams) (*Game, error)
	Get(gameID string) (*Game, error)
	// Cancel sets the game to cancelled and cascades every pending
	// application to a terminal cancelled state in the same transaction.
	// It returns the applicant IDs whose applications were cancelled.
	Cancel(gameID, requesterID string) ([]string, error)
	List(filters Filters, page Pagination) (*Page, error)
}
