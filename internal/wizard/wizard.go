package wizard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mkrogh/courtside/internal/court"
	"github.com/mkrogh/courtside/internal/game"
	"github.com/samber/lo"
)

// New creates a new wizard Manager.
func New(courts court.Catalog, games game.Catalog) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		courts:   courts,
		games:    games,
	}
}

// Start opens a session for the initiator and returns the first prompt.
func (m *Manager) Start(initiatorID string) (*Prompt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[initiatorID]; ok {
		return nil, ErrSessionExists
	}
	m.sessions[initiatorID] = &Session{
		InitiatorID: initiatorID,
		Step:        StepMode,
		Params: game.CreateParams{
			PaymentSplit: game.PaymentShared,
			Visibility:   game.VisibilityPublic,
		},
	}
	return m.promptFor(StepMode)
}

// Cancel discards the initiator's session if one exists.
func (m *Manager) Cancel(initiatorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[initiatorID]; !ok {
		return ErrNoSession
	}
	delete(m.sessions, initiatorID)
	return nil
}

// Handle consumes one answer. An unrecognized answer reprompts the same
// step without advancing; "cancel" discards the session at any point. When
// the last step is answered the game is created exactly once and the
// session is removed.
func (m *Manager) Handle(initiatorID, input string) (*Prompt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[initiatorID]
	if !ok {
		return nil, ErrNoSession
	}

	answer := strings.TrimSpace(input)
	if strings.EqualFold(answer, "cancel") {
		delete(m.sessions, initiatorID)
		return &Prompt{Text: "Game creation cancelled.", Done: true}, nil
	}

	next, err := m.apply(s, answer)
	if err != nil {
		// Reprompt the same step, session untouched.
		p, perr := m.promptFor(s.Step)
		if perr != nil {
			return nil, perr
		}
		p.Text = fmt.Sprintf("Sorry, I didn't get that. %s", p.Text)
		return p, nil
	}

	if next == "" {
		g, err := m.games.Create(s.InitiatorID, s.Params)
		delete(m.sessions, initiatorID)
		if err != nil {
			return nil, fmt.Errorf("failed to create game: %w", err)
		}
		log.Info("Wizard created game", "gameID", g.ID, "creatorID", s.InitiatorID)
		return &Prompt{
			Text: fmt.Sprintf("Game created for %s at %s. Applications are open.", g.Date, g.StartTime),
			Done: true,
			Game: g,
		}, nil
	}

	s.Step = next
	return m.promptFor(next)
}

// apply parses the answer for the session's current step and returns the
// next step, or "" when the flow is complete.
func (m *Manager) apply(s *Session, answer string) (Step, error) {
	lower := strings.ToLower(answer)

	switch s.Step {
	case StepMode:
		switch lower {
		case "play":
			s.Params.CreatorPlays = true
		case "organize":
			s.Params.CreatorPlays = false
		default:
			return "", ErrUnrecognized
		}
		return StepCourt, nil

	case StepCourt:
		c, err := m.resolveCourt(answer)
		if err != nil {
			return "", ErrUnrecognized
		}
		s.Params.CourtID = c.ID
		return StepDate, nil

	case StepDate:
		if _, err := time.Parse("2006-01-02", answer); err != nil {
			return "", ErrUnrecognized
		}
		s.Params.Date = answer
		return StepTime, nil

	case StepTime:
		if _, err := time.Parse("15:04", answer); err != nil {
			return "", ErrUnrecognized
		}
		s.Params.StartTime = answer
		return StepDuration, nil

	case StepDuration:
		if lower == "skip" {
			return StepPayment, nil
		}
		minutes, err := strconv.Atoi(answer)
		if err != nil || minutes <= 0 {
			return "", ErrUnrecognized
		}
		s.Params.DurationMinutes = &minutes
		return StepPayment, nil

	case StepPayment:
		switch lower {
		case "shared":
			s.Params.PaymentSplit = game.PaymentShared
		case "mine":
			s.Params.PaymentSplit = game.PaymentCreatorPays
		default:
			return "", ErrUnrecognized
		}
		return StepMatchType, nil

	case StepMatchType:
		switch lower {
		case "singles":
			s.Params.MatchType = game.MatchTypeSingles
			s.Params.Capacity = 2
		case "doubles":
			s.Params.MatchType = game.MatchTypeDoubles
			s.Params.Capacity = 4
		default:
			return "", ErrUnrecognized
		}
		return StepRating, nil

	case StepRating:
		if lower == "skip" {
			return StepCapacity, nil
		}
		r, err := parseRatingRange(answer)
		if err != nil {
			return "", ErrUnrecognized
		}
		s.Params.Rating = r
		return StepCapacity, nil

	case StepCapacity:
		if lower == "keep" {
			return StepBooked, nil
		}
		capacity, err := strconv.Atoi(answer)
		if err != nil || capacity < 2 {
			return "", ErrUnrecognized
		}
		s.Params.Capacity = capacity
		return StepBooked, nil

	case StepBooked:
		switch lower {
		case "yes":
			s.Params.CourtBooked = true
		case "no":
			s.Params.CourtBooked = false
		default:
			return "", ErrUnrecognized
		}
		return StepVisibility, nil

	case StepVisibility:
		switch lower {
		case "public":
			s.Params.Visibility = game.VisibilityPublic
		case "private":
			s.Params.Visibility = game.VisibilityPrivate
		default:
			return "", ErrUnrecognized
		}
		return StepComment, nil

	case StepComment:
		if lower != "skip" {
			s.Params.Comment = answer
		}
		return "", nil
	}

	return "", fmt.Errorf("unknown step %q", s.Step)
}

// resolveCourt matches the answer against the catalog by ID or name.
func (m *Manager) resolveCourt(answer string) (*court.Court, error) {
	courts, err := m.courts.List()
	if err != nil {
		return nil, err
	}
	c, ok := lo.Find(courts, func(c court.Court) bool {
		return c.ID == answer || strings.EqualFold(c.Name, answer)
	})
	if !ok {
		return nil, court.ErrNotFound
	}
	return &c, nil
}

func parseRatingRange(answer string) (*game.RatingRange, error) {
	parts := strings.SplitN(answer, "-", 2)
	if len(parts) != 2 {
		return nil, ErrUnrecognized
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, ErrUnrecognized
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, ErrUnrecognized
	}
	return &game.RatingRange{Min: min, Max: max}, nil
}

func (m *Manager) promptFor(step Step) (*Prompt, error) {
	text := ""
	switch step {
	case StepMode:
		text = "Are you playing yourself or only organizing? Answer `play` or `organize`."
	case StepCourt:
		courts, err := m.courts.List()
		if err != nil {
			return nil, fmt.Errorf("failed to list courts: %w", err)
		}
		names := lo.Map(courts, func(c court.Court, _ int) string { return c.Name })
		text = fmt.Sprintf("Which court? One of: %s.", strings.Join(names, ", "))
	case StepDate:
		text = "What date? Use YYYY-MM-DD."
	case StepTime:
		text = "What start time? Use HH:MM (24h)."
	case StepDuration:
		text = "How long, in minutes? Answer a number or `skip`."
	case StepPayment:
		text = "How is the court fee split? Answer `shared` or `mine`."
	case StepMatchType:
		text = "Singles or doubles? Answer `singles` or `doubles`."
	case StepRating:
		text = "Rating range, e.g. `3.5-5.0`, or `skip`."
	case StepCapacity:
		text = "How many players total? Answer a number or `keep` for the default."
	case StepBooked:
		text = "Is the court already booked? Answer `yes` or `no`."
	case StepVisibility:
		text = "Should the game be listed publicly? Answer `public` or `private`."
	case StepComment:
		text = "Anything else players should know? Free text or `skip`."
	default:
		return nil, fmt.Errorf("unknown step %q", step)
	}
	return &Prompt{Step: step, Text: text}, nil
}
