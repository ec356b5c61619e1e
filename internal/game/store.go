package game

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mkrogh/courtside/internal/clock"
	"github.com/mkrogh/courtside/internal/court"
)

// New creates a new game Catalog. horizonDays bounds how far into the
// future a game may be scheduled.
func New(db *sql.DB, courts court.Catalog, clk clock.Clock, horizonDays int) Catalog {
	return &store{
		db:      db,
		courts:  courts,
		clock:   clk,
		horizon: horizonDays,
	}
}

func (s *store) Create(creatorID string, params CreateParams) (*Game, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	exists, err := s.courts.Exists(params.CourtID)
	if err != nil {
		return nil, fmt.Errorf("failed to check court: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: unknown court %q", ErrValidation, params.CourtID)
	}

	g := &Game{
		ID:              uuid.New().String(),
		CreatorID:       creatorID,
		CourtID:         params.CourtID,
		Date:            params.Date,
		StartTime:       params.StartTime,
		DurationMinutes: params.DurationMinutes,
		Capacity:        params.Capacity,
		CreatorPlays:    params.CreatorPlays,
		Rating:          params.Rating,
		MatchType:       params.MatchType,
		PaymentSplit:    params.PaymentSplit,
		CourtBooked:     params.CourtBooked,
		Visibility:      params.Visibility,
		Comment:         params.Comment,
		Status:          StatusScheduled,
		CreatedAt:       s.clock.Now().Unix(),
	}
	if g.PaymentSplit == "" {
		g.PaymentSplit = PaymentShared
	}
	if g.Visibility == "" {
		g.Visibility = VisibilityPublic
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var ratingMin, ratingMax any
	if g.Rating != nil {
		ratingMin, ratingMax = g.Rating.Min, g.Rating.Max
	}
	_, err = s.db.Exec(`
		INSERT INTO games (
			id, creator_id, court_id, match_date, start_time, duration_minutes,
			capacity, creator_plays, rating_min, rating_max, match_type,
			payment_split, court_booked, visibility, comment, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.CreatorID, g.CourtID, g.Date, g.StartTime, g.DurationMinutes,
		g.Capacity, g.CreatorPlays, ratingMin, ratingMax, g.MatchType,
		g.PaymentSplit, g.CourtBooked, g.Visibility, g.Comment, g.Status, g.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert game: %w", err)
	}

	log.Info("Game created", "gameID", g.ID, "creatorID", creatorID, "capacity", g.Capacity)
	return g, nil
}

func (s *store) Get(gameID string) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(s.db, gameID)
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (s *store) get(q querier, gameID string) (*Game, error) {
	g, err := scanGame(q.QueryRow(`
		SELECT id, creator_id, court_id, match_date, start_time, duration_minutes,
			capacity, creator_plays, rating_min, rating_max, match_type,
			payment_split, court_booked, visibility, comment, status, created_at
		FROM games WHERE id = ?`, gameID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query game: %w", err)
	}
	return g, nil
}

func (s *store) Cancel(gameID, requesterID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	g, err := s.get(tx, gameID)
	if err != nil {
		return nil, err
	}
	if g.CreatorID != requesterID {
		return nil, ErrNotCreator
	}
	if g.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if g.Status != StatusScheduled {
		return nil, ErrNotOpen
	}

	if _, err := tx.Exec("UPDATE games SET status = ? WHERE id = ?", StatusCancelled, gameID); err != nil {
		return nil, fmt.Errorf("failed to cancel game: %w", err)
	}

	// Cascade: every pending application becomes terminally cancelled in
	// the same transaction, so no decision can land on them afterwards.
	rows, err := tx.Query(
		"SELECT applicant_id FROM applications WHERE game_id = ? AND status = 'pending'", gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending applications: %w", err)
	}
	var affected []string
	for rows.Next() {
		var applicantID string
		if err := rows.Scan(&applicantID); err != nil {
			rows.Close()
			return nil, err
		}
		affected = append(affected, applicantID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	now := s.clock.Now().Unix()
	if _, err := tx.Exec(
		"UPDATE applications SET status = 'cancelled', decided_at = ? WHERE game_id = ? AND status = 'pending'",
		now, gameID,
	); err != nil {
		return nil, fmt.Errorf("failed to cascade applications: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("Game cancelled", "gameID", gameID, "cascadedApplications", len(affected))
	return affected, nil
}

func (s *store) List(filters Filters, page Pagination) (*Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if page.Limit <= 0 {
		page.Limit = 20
	}
	if page.Offset < 0 {
		page.Offset = 0
	}

	query := `
		SELECT g.id, g.creator_id, g.court_id, c.name, g.match_date, g.start_time,
			g.match_type, g.capacity, g.creator_plays, g.comment,
			(SELECT COUNT(*) FROM applications a WHERE a.game_id = g.id AND a.status = 'accepted') AS accepted
		FROM games g
		JOIN courts c ON c.id = g.court_id
		WHERE g.status = 'scheduled' AND g.visibility = 'public'`
	args := []any{}

	if filters.Date != "" {
		query += " AND g.match_date = ?"
		args = append(args, filters.Date)
	}
	switch filters.TimeOfDay {
	case TimeMorning:
		query += " AND g.start_time < '12:00'"
	case TimeDay:
		query += " AND g.start_time >= '12:00' AND g.start_time < '18:00'"
	case TimeEvening:
		query += " AND g.start_time >= '18:00'"
	}
	if r := filters.Rating; r != nil {
		// Overlap: an unrestricted game matches any requested range.
		query += " AND (g.rating_min IS NULL OR g.rating_min <= ?) AND (g.rating_max IS NULL OR g.rating_max >= ?)"
		args = append(args, r.Max, r.Min)
	}
	if filters.HomeCourtOf != "" {
		query += " AND g.court_id IN (SELECT court_id FROM home_courts WHERE player_id = ?)"
		args = append(args, filters.HomeCourtOf)
	}

	query += " ORDER BY g.match_date, g.start_time LIMIT ? OFFSET ?"
	// Fetch one extra row to learn whether another page exists.
	args = append(args, page.Limit+1, page.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			sum      Summary
			comment  sql.NullString
			accepted int
		)
		if err := rows.Scan(
			&sum.ID, &sum.CreatorID, &sum.CourtID, &sum.CourtName, &sum.Date,
			&sum.StartTime, &sum.MatchType, &sum.Capacity, &sum.CreatorPlays,
			&comment, &accepted,
		); err != nil {
			return nil, err
		}
		sum.Comment = comment.String
		sum.Occupied = accepted
		if sum.CreatorPlays {
			sum.Occupied++
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &Page{Games: summaries}
	if len(summaries) > page.Limit {
		result.Games = summaries[:page.Limit]
		result.HasMore = true
		result.NextOffset = page.Offset + page.Limit
	}
	return result, nil
}

func scanGame(scanner interface{ Scan(...any) error }) (*Game, error) {
	var (
		g         Game
		duration  sql.NullInt64
		ratingMin sql.NullFloat64
		ratingMax sql.NullFloat64
		comment   sql.NullString
	)
	err := scanner.Scan(
		&g.ID, &g.CreatorID, &g.CourtID, &g.Date, &g.StartTime, &duration,
		&g.Capacity, &g.CreatorPlays, &ratingMin, &ratingMax, &g.MatchType,
		&g.PaymentSplit, &g.CourtBooked, &g.Visibility, &comment, &g.Status, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if duration.Valid {
		d := int(duration.Int64)
		g.DurationMinutes = &d
	}
	if ratingMin.Valid && ratingMax.Valid {
		g.Rating = &RatingRange{Min: ratingMin.Float64, Max: ratingMax.Float64}
	}
	g.Comment = comment.String
	return &g, nil
}
