package court

// Catalog defines the interface for court metadata lookups.
type Catalog interface {
	Add(name, address string) (*Court, error)
	Get(courtID string) (*Court, error)
	Exists(courtID string) (bool, error)
	List() ([]Court, error)
	SetHomeCourt(playerID, courtID string) error
	HomeCourts(playerID string) ([]string, error)
}
