package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mkrogh/courtside/internal/admission"
	"github.com/mkrogh/courtside/internal/application"
	"github.com/mkrogh/courtside/internal/court"
	"github.com/mkrogh/courtside/internal/dispatcher"
	"github.com/mkrogh/courtside/internal/game"
	"github.com/mkrogh/courtside/internal/profile"
	"github.com/mkrogh/courtside/internal/wizard"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// statusFor maps domain sentinel errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrNotFound),
		errors.Is(err, application.ErrNotFound),
		errors.Is(err, court.ErrNotFound),
		errors.Is(err, profile.ErrNotFound),
		errors.Is(err, wizard.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, game.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotCreator),
		errors.Is(err, admission.ErrNotDecider),
		errors.Is(err, application.ErrIsOwnGame):
		return http.StatusForbidden
	case errors.Is(err, game.ErrAlreadyCancelled),
		errors.Is(err, game.ErrNotOpen),
		errors.Is(err, application.ErrGameNotOpen),
		errors.Is(err, application.ErrAlreadyPending),
		errors.Is(err, application.ErrAlreadyAccepted),
		errors.Is(err, application.ErrAlreadyDecided),
		errors.Is(err, admission.ErrCapacityExceeded),
		errors.Is(err, wizard.ErrSessionExists):
		return http.StatusConflict
	case errors.Is(err, admission.ErrUnknownDecision):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) CreateGameHandler() http.HandlerFunc {
	type request struct {
		CreatorID string `json:"creator_id"`
		game.CreateParams
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.CreatorID == "" {
			http.Error(w, "creator_id is required", http.StatusBadRequest)
			return
		}

		g, err := s.Games.Create(req.CreatorID, req.CreateParams)
		if err != nil {
			log.Error("Failed to create game", "creatorID", req.CreatorID, "error", err)
			writeError(w, err)
			return
		}
		s.Metrics.IncGamesCreated()
		log.Info("Game created", "gameID", g.ID, "creatorID", req.CreatorID)
		writeJSON(w, http.StatusCreated, g)
	}
}

func (s *Server) ListGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filters := game.Filters{
			Date:        q.Get("date"),
			TimeOfDay:   game.TimeOfDay(q.Get("time_of_day")),
			HomeCourtOf: q.Get("home_court_of"),
		}
		if minStr, maxStr := q.Get("rating_min"), q.Get("rating_max"); minStr != "" && maxStr != "" {
			ratingMin, errMin := strconv.ParseFloat(minStr, 64)
			ratingMax, errMax := strconv.ParseFloat(maxStr, 64)
			if errMin != nil || errMax != nil {
				http.Error(w, "Invalid rating bounds", http.StatusBadRequest)
				return
			}
			filters.Rating = &game.RatingRange{Min: ratingMin, Max: ratingMax}
		}

		page := game.Pagination{Limit: 10}
		if v := q.Get("offset"); v != "" {
			offset, err := strconv.Atoi(v)
			if err != nil || offset < 0 {
				http.Error(w, "Invalid offset", http.StatusBadRequest)
				return
			}
			page.Offset = offset
		}
		if v := q.Get("limit"); v != "" {
			limit, err := strconv.Atoi(v)
			if err != nil || limit <= 0 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			page.Limit = limit
		}

		result, err := s.Games.List(filters, page)
		if err != nil {
			log.Error("Failed to list games", "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) GetGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		g, err := s.Games.Get(gameID)
		if err != nil {
			writeError(w, err)
			return
		}
		snap, err := s.Admission.Occupancy(gameID)
		if err != nil {
			log.Error("Failed to compute occupancy", "gameID", gameID, "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"game":      g,
			"occupancy": snap,
		})
	}
}

func (s *Server) CancelGameHandler() http.HandlerFunc {
	type request struct {
		RequesterID string `json:"requester_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if err := s.Admission.CancelGame(gameID, req.RequesterID); err != nil {
			log.Error("Failed to cancel game", "gameID", gameID, "error", err)
			writeError(w, err)
			return
		}
		log.Info("Game cancelled", "gameID", gameID, "requesterID", req.RequesterID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Game cancelled")
	}
}

func (s *Server) SubmitApplicationHandler() http.HandlerFunc {
	type request struct {
		ApplicantID string `json:"applicant_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.ApplicantID == "" {
			http.Error(w, "applicant_id is required", http.StatusBadRequest)
			return
		}

		app, err := s.Apps.Submit(gameID, req.ApplicantID)
		if err != nil {
			log.Error("Failed to submit application", "gameID", gameID, "applicantID", req.ApplicantID, "error", err)
			writeError(w, err)
			return
		}
		s.Metrics.IncApplicationsSubmitted()
		log.Info("Application submitted", "applicationID", app.ID, "gameID", gameID, "applicantID", req.ApplicantID)

		if g, err := s.Games.Get(gameID); err == nil {
			s.Dispatcher.SubmissionCommitted(g, app)
		}
		writeJSON(w, http.StatusCreated, app)
	}
}

func (s *Server) ListApplicationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		status := r.URL.Query().Get("status")

		var (
			apps []application.Application
			err  error
		)
		switch status {
		case "", string(application.StatusPending):
			apps, err = s.Apps.GetPending(gameID)
		case string(application.StatusAccepted):
			apps, err = s.Apps.GetAccepted(gameID)
		default:
			http.Error(w, "Unsupported status filter", http.StatusBadRequest)
			return
		}
		if err != nil {
			log.Error("Failed to list applications", "gameID", gameID, "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, apps)
	}
}

func (s *Server) DecideApplicationHandler() http.HandlerFunc {
	type request struct {
		DeciderID string `json:"decider_id"`
		Decision  string `json:"decision"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		applicationID := r.PathValue("id")
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		snap, err := s.Admission.Decide(applicationID, req.DeciderID, admission.Decision(req.Decision))
		if err != nil {
			log.Error("Decision failed", "applicationID", applicationID, "decision", req.Decision, "error", err)
			writeError(w, err)
			return
		}
		log.Info("Application decided", "applicationID", applicationID, "decision", req.Decision, "occupied", snap.Occupied, "capacity", snap.Capacity)
		writeJSON(w, http.StatusOK, map[string]any{
			"application_id": applicationID,
			"decision":       req.Decision,
			"occupancy":      snap,
		})
	}
}

func (s *Server) WizardStartHandler() http.HandlerFunc {
	type request struct {
		InitiatorID string `json:"initiator_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.InitiatorID == "" {
			http.Error(w, "initiator_id is required", http.StatusBadRequest)
			return
		}

		prompt, err := s.Wizard.Start(req.InitiatorID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, prompt)
	}
}

func (s *Server) WizardMessageHandler() http.HandlerFunc {
	type request struct {
		InitiatorID string `json:"initiator_id"`
		Text        string `json:"text"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		prompt, err := s.Wizard.Handle(req.InitiatorID, req.Text)
		if err != nil {
			log.Error("Wizard message failed", "initiatorID", req.InitiatorID, "error", err)
			writeError(w, err)
			return
		}
		if prompt.Done && prompt.Game != nil {
			s.Metrics.IncGamesCreated()
		}
		writeJSON(w, http.StatusOK, prompt)
	}
}

func (s *Server) WizardCancelHandler() http.HandlerFunc {
	type request struct {
		InitiatorID string `json:"initiator_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if err := s.Wizard.Cancel(req.InitiatorID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Session discarded")
	}
}

func (s *Server) ListCourtsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courts, err := s.Courts.List()
		if err != nil {
			log.Error("Failed to list courts", "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, courts)
	}
}

func (s *Server) AddCourtHandler() http.HandlerFunc {
	type request struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		c, err := s.Courts.Add(req.Name, req.Address)
		if err != nil {
			log.Error("Failed to add court", "name", req.Name, "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func (s *Server) UpsertPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var player profile.Player
		if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if player.ID == "" || player.Name == "" {
			http.Error(w, "id and name are required", http.StatusBadRequest)
			return
		}

		if err := s.Profiles.Upsert(player); err != nil {
			log.Error("Failed to upsert player", "playerID", player.ID, "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func (s *Server) SetHomeCourtHandler() http.HandlerFunc {
	type request struct {
		CourtID string `json:"court_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.PathValue("id")
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		exists, err := s.Courts.Exists(req.CourtID)
		if err != nil {
			writeError(w, err)
			return
		}
		if !exists {
			writeError(w, court.ErrNotFound)
			return
		}
		if err := s.Courts.SetHomeCourt(playerID, req.CourtID); err != nil {
			log.Error("Failed to set home court", "playerID", playerID, "courtID", req.CourtID, "error", err)
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Home court saved")
	}
}

// decodePushMessage unwraps a Pub/Sub push delivery: an outer JSON envelope
// carrying a base64-encoded MessagePack payload.
func decodePushMessage(r *http.Request) ([]byte, error) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	var pubsubMsg struct {
		Subscription string `json:"subscription"`
		Message      struct {
			Data string `json:"data"` // base64-encoded message payload
		} `json:"message"`
	}
	if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wrapper JSON: %w", err)
	}
	rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 data: %w", err)
	}
	return rawData, nil
}

func (s *Server) ApplicationSubmittedEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, err := decodePushMessage(r)
		if err != nil {
			log.Error("Bad push message", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)
		ev := dispatcher.SubmissionEvent{}
		if err := s.pubsub.ProcessMessage(rawData, &ev); err != nil {
			log.Error("Failed to decode submission event", "error", err)
			http.Error(w, "Invalid event payload", http.StatusBadRequest)
			return
		}
		if err := s.Dispatcher.HandleSubmission(ev, isDryRun); err != nil {
			log.Error("Submission fan-out failed", "gameID", ev.GameID, "error", err)
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) ApplicationDecidedEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, err := decodePushMessage(r)
		if err != nil {
			log.Error("Bad push message", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)
		ev := dispatcher.DecisionEvent{}
		if err := s.pubsub.ProcessMessage(rawData, &ev); err != nil {
			log.Error("Failed to decode decision event", "error", err)
			http.Error(w, "Invalid event payload", http.StatusBadRequest)
			return
		}
		if err := s.Dispatcher.HandleDecision(ev, isDryRun); err != nil {
			log.Error("Decision fan-out failed", "gameID", ev.GameID, "error", err)
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) GameCancelledEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, err := decodePushMessage(r)
		if err != nil {
			log.Error("Bad push message", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)
		ev := dispatcher.CancellationEvent{}
		if err := s.pubsub.ProcessMessage(rawData, &ev); err != nil {
			log.Error("Failed to decode cancellation event", "error", err)
			http.Error(w, "Invalid event payload", http.StatusBadRequest)
			return
		}
		if err := s.Dispatcher.HandleCancellation(ev, isDryRun); err != nil {
			log.Error("Cancellation fan-out failed", "gameID", ev.GameID, "error", err)
		}
		w.Write([]byte("OK"))
	}
}
