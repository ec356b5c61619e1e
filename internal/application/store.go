package application

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mkrogh/courtside/internal/clock"
)

// New creates a new application Ledger backed by the given database.
func New(db *sql.DB, clk clock.Clock) Ledger {
	return &store{db: db, clock: clk}
}

// Submit registers interest in a game. It never checks capacity: the
// organizer should see full demand regardless of remaining slots. A prior
// rejected application for the same pair is reset to pending in place.
func (s *store) Submit(gameID, applicantID string) (*Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var (
		creatorID string
		status    string
	)
	err = tx.QueryRow("SELECT creator_id, status FROM games WHERE id = ?", gameID).
		Scan(&creatorID, &status)
	if err == sql.ErrNoRows {
		return nil, ErrGameNotOpen
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query game: %w", err)
	}
	if status != "scheduled" {
		return nil, ErrGameNotOpen
	}
	if creatorID == applicantID {
		return nil, ErrIsOwnGame
	}

	now := s.clock.Now().Unix()

	var (
		existingID     string
		existingStatus Status
	)
	err = tx.QueryRow(
		"SELECT id, status FROM applications WHERE game_id = ? AND applicant_id = ?",
		gameID, applicantID,
	).Scan(&existingID, &existingStatus)
	switch {
	case err == sql.ErrNoRows:
		app := &Application{
			ID:          uuid.New().String(),
			GameID:      gameID,
			ApplicantID: applicantID,
			Status:      StatusPending,
			CreatedAt:   now,
		}
		_, err = tx.Exec(
			"INSERT INTO applications (id, game_id, applicant_id, status, created_at) VALUES (?, ?, ?, ?, ?)",
			app.ID, app.GameID, app.ApplicantID, app.Status, app.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert application: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		log.Info("Application submitted", "applicationID", app.ID, "gameID", gameID, "applicantID", applicantID)
		return app, nil

	case err != nil:
		return nil, fmt.Errorf("failed to query existing application: %w", err)

	case existingStatus == StatusPending:
		return nil, ErrAlreadyPending

	case existingStatus == StatusAccepted:
		return nil, ErrAlreadyAccepted

	default:
		// Rejected (or cancelled on a reopened game cannot happen: the game
		// is terminal once cancelled). Reuse the logical row.
		_, err = tx.Exec(
			"UPDATE applications SET status = ?, created_at = ?, decided_at = NULL WHERE id = ?",
			StatusPending, now, existingID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to reset application: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		log.Info("Application re-submitted", "applicationID", existingID, "gameID", gameID, "applicantID", applicantID)
		return &Application{
			ID:          existingID,
			GameID:      gameID,
			ApplicantID: applicantID,
			Status:      StatusPending,
			CreatedAt:   now,
		}, nil
	}
}

func (s *store) Get(applicationID string) (*Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, err := scanApplication(s.db.QueryRow(
		"SELECT id, game_id, applicant_id, status, created_at, decided_at FROM applications WHERE id = ?",
		applicationID,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query application: %w", err)
	}
	return app, nil
}

func (s *store) GetPending(gameID string) ([]Application, error) {
	return s.getByStatus(gameID, StatusPending)
}

func (s *store) GetAccepted(gameID string) ([]Application, error) {
	return s.getByStatus(gameID, StatusAccepted)
}

func (s *store) getByStatus(gameID string, status Status) ([]Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT id, game_id, applicant_id, status, created_at, decided_at FROM applications WHERE game_id = ? AND status = ? ORDER BY created_at",
		gameID, status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

func (s *store) CountAccepted(gameID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM applications WHERE game_id = ? AND status = ?",
		gameID, StatusAccepted,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accepted applications: %w", err)
	}
	return count, nil
}

func (s *store) MarkAccepted(applicationID string, decidedAt int64) error {
	return s.transition(applicationID, StatusAccepted, decidedAt)
}

func (s *store) MarkRejected(applicationID string, decidedAt int64) error {
	return s.transition(applicationID, StatusRejected, decidedAt)
}

// transition guards the pending check in SQL so a lost race surfaces as
// ErrAlreadyDecided instead of a silent double update.
func (s *store) transition(applicationID string, to Status, decidedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		"UPDATE applications SET status = ?, decided_at = ? WHERE id = ? AND status = ?",
		to, decidedAt, applicationID, StatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var one int
		err := s.db.QueryRow("SELECT 1 FROM applications WHERE id = ?", applicationID).Scan(&one)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return ErrAlreadyDecided
	}
	return nil
}

func scanApplication(scanner interface{ Scan(...any) error }) (*Application, error) {
	var (
		app       Application
		decidedAt sql.NullInt64
	)
	if err := scanner.Scan(&app.ID, &app.GameID, &app.ApplicantID, &app.Status, &app.CreatedAt, &decidedAt); err != nil {
		return nil, err
	}
	if decidedAt.Valid {
		app.DecidedAt = &decidedAt.Int64
	}
	return &app, nil
}
