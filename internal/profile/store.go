package profile

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// New creates a new profile Store backed by the given database.
func New(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) Upsert(player Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO players (id, name, rating, contact, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			rating = excluded.rating,
			contact = excluded.contact;
	`, player.ID, player.Name, player.Rating, player.Contact, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}

func (s *store) Get(playerID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := scanPlayer(s.db.QueryRow(
		"SELECT id, name, rating, contact FROM players WHERE id = ?", playerID,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query player: %w", err)
	}
	return p, nil
}

func (s *store) GetMany(playerIDs []string) ([]Player, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.Repeat("?,", len(playerIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(playerIDs))
	for i, id := range playerIDs {
		args[i] = id
	}

	rows, err := s.db.Query(
		"SELECT id, name, rating, contact FROM players WHERE id IN ("+placeholders+")", args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var (
		p       Player
		rating  sql.NullFloat64
		contact sql.NullString
	)
	if err := scanner.Scan(&p.ID, &p.Name, &rating, &contact); err != nil {
		return nil, err
	}
	if rating.Valid {
		p.Rating = &rating.Float64
	}
	p.Contact = contact.String
	return &p, nil
}
