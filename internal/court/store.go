package court

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// New creates a new court Catalog backed by the given database.
func New(db *sql.DB) Catalog {
	return &store{db: db}
}

func (s *store) Add(name, address string) (*Court, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &Court{
		ID:      uuid.New().String(),
		Name:    name,
		Address: address,
	}
	_, err := s.db.Exec(
		"INSERT INTO courts (id, name, address, created_at) VALUES (?, ?, ?, ?)",
		c.ID, c.Name, c.Address, time.Now().Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert court: %w", err)
	}
	return c, nil
}

func (s *store) Get(courtID string) (*Court, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		c       Court
		address sql.NullString
	)
	err := s.db.QueryRow("SELECT id, name, address FROM courts WHERE id = ?", courtID).
		Scan(&c.ID, &c.Name, &address)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query court: %w", err)
	}
	c.Address = address.String
	return &c, nil
}

func (s *store) Exists(courtID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRow("SELECT 1 FROM courts WHERE id = ?", courtID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query court existence: %w", err)
	}
	return true, nil
}

func (s *store) List() ([]Court, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, address FROM courts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list courts: %w", err)
	}
	defer rows.Close()

	var courts []Court
	for rows.Next() {
		var (
			c       Court
			address sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &address); err != nil {
			return nil, err
		}
		c.Address = address.String
		courts = append(courts, c)
	}
	return courts, rows.Err()
}

func (s *store) SetHomeCourt(playerID, courtID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO home_courts (player_id, court_id) VALUES (?, ?)",
		playerID, courtID,
	)
	if err != nil {
		return fmt.Errorf("failed to set home court: %w", err)
	}
	return nil
}

func (s *store) HomeCourts(playerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT court_id FROM home_courts WHERE player_id = ?", playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query home courts: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
