package profile

// Store defines read/write access to player display data and ratings.
// The admission subsystem only reads from it; onboarding writes live elsewhere.
type Store interface {
	Upsert(player Player) error
	Get(playerID string) (*Player, error)
	GetMany(playerIDs []string) ([]Player, error)
}
