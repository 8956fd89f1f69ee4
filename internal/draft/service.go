package draft

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chefdraft/internal/auth"
	"chefdraft/internal/httpapi"
)

// Service exposes the draft coordinator over HTTP.
type Service struct {
	app *App
}

// NewService creates a new draft HTTP service.
func NewService(app *App) *Service {
	return &Service{app: app}
}

// Routes registers the endpoints available to signed-in users.
func (s *Service) Routes(r chi.Router) {
	r.Get("/", s.handleSnapshot)
	r.Get("/turn", s.handleTurn)
	r.Post("/pick", s.handlePick)
}

// AdminRoutes registers the endpoints reserved for administrators.
func (s *Service) AdminRoutes(r chi.Router) {
	r.Post("/order", s.handleSetOrder)
	r.Post("/start", s.handleStart)
	r.Post("/end", s.handleEnd)
	r.Post("/skip", s.handleSkip)
	r.Post("/reconcile", s.handleReconcile)
}

func (s *Service) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.app.Snapshot(r.Context())
	if err != nil {
		writeDraftError(w, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, snap)
}

func (s *Service) handleTurn(w http.ResponseWriter, r *http.Request) {
	profile := auth.ProfileFromContext(r.Context())
	if profile.TeamID == nil {
		httpapi.JSON(w, http.StatusOK, map[string]bool{"your_turn": false})
		return
	}

	yourTurn, err := s.app.IsTeamsTurn(r.Context(), *profile.TeamID)
	if err != nil {
		writeDraftError(w, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]bool{"your_turn": yourTurn})
}

func (s *Service) handlePick(w http.ResponseWriter, r *http.Request) {
	profile := auth.ProfileFromContext(r.Context())

	var req PickRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if profile.TeamID == nil || *profile.TeamID != req.TeamID {
		httpapi.Error(w, http.StatusForbidden, "you can only pick for your own team")
		return
	}

	result, err := s.app.Pick(r.Context(), req)
	if err != nil {
		writeDraftError(w, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, result)
}

func (s *Service) handleSetOrder(w http.ResponseWriter, r *http.Request) {
	var req SetOrderRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	settings, err := s.app.SetOrder(r.Context(), req)
	if err != nil {
		writeDraftError(w, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, settings)
}

func (s *Service) handleStart(w http.ResponseWriter, r *http.Request) {
	settings, err := s.app.Start(r.Context())
	if err != nil {
		writeDraftError(w, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, settings)
}

func (s *Service) handleEnd(w http.ResponseWriter, r *http.Request) {
	settings, err := s.app.End(r.Context())
	if err != nil {
		writeDraftError(w, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, settings)
}

func (s *Service) handleSkip(w http.ResponseWriter, r *http.Request) {
	settings, err := s.app.Skip(r.Context())
	if err != nil {
		writeDraftError(w, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, settings)
}

func (s *Service) handleReconcile(w http.ResponseWriter, r *http.Request) {
	result, err := s.app.Reconcile(r.Context())
	if err != nil {
		writeDraftError(w, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, result)
}

// writeDraftError maps coordinator errors onto HTTP statuses.
func writeDraftError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotConfigured):
		httpapi.Error(w, http.StatusNotFound, "draft is not configured")
	case errors.Is(err, ErrDraftActive):
		httpapi.Error(w, http.StatusConflict, "draft is already running")
	case errors.Is(err, ErrDraftNotActive):
		httpapi.Error(w, http.StatusConflict, "draft is not running")
	case errors.Is(err, ErrNotYourTurn):
		httpapi.Error(w, http.StatusConflict, "it is not your turn")
	case errors.Is(err, ErrChefAlreadyDrafted):
		httpapi.Error(w, http.StatusConflict, "chef has already been drafted")
	case errors.Is(err, ErrConflict):
		httpapi.Error(w, http.StatusConflict, "draft changed underneath you, try again")
	case errors.Is(err, ErrUnavailable):
		httpapi.Error(w, http.StatusServiceUnavailable, "draft storage is unavailable")
	default:
		httpapi.Error(w, http.StatusBadRequest, err.Error())
	}
}
