package teams

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chefdraft/internal/auth"
	"chefdraft/internal/httpapi"
)

// Service exposes the teams app over HTTP.
type Service struct {
	app *App
}

// NewService creates a new teams HTTP service.
func NewService(app *App) *Service {
	return &Service{app: app}
}

// Routes registers the team endpoints. All require an authenticated
// caller; mutation of a specific team additionally requires membership.
func (s *Service) Routes(r chi.Router) {
	r.Get("/", s.handleList)
	r.Post("/", s.handleCreate)
	r.Get("/{teamID}", s.handleGet)
	r.Post("/join", s.handleJoin)
	r.Post("/leave", s.handleLeave)
	r.Put("/{teamID}/chefs", s.handleSaveRoster)
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	teams, err := s.app.ListTeams(r.Context())
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "failed to load teams")
		return
	}
	httpapi.JSON(w, http.StatusOK, teams)
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	team, err := s.app.GetTeam(r.Context(), chi.URLParam(r, "teamID"))
	if errors.Is(err, ErrNotFound) {
		httpapi.Error(w, http.StatusNotFound, "team not found")
		return
	}
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "failed to load team")
		return
	}
	httpapi.JSON(w, http.StatusOK, team)
}

func (s *Service) handleCreate(w http.ResponseWriter, r *http.Request) {
	profile := auth.ProfileFromContext(r.Context())

	var req CreateTeamRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	team, err := s.app.CreateTeam(r.Context(), profile.ID, req)
	if err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	httpapi.JSON(w, http.StatusCreated, team)
}

func (s *Service) handleJoin(w http.ResponseWriter, r *http.Request) {
	profile := auth.ProfileFromContext(r.Context())

	var req JoinTeamRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	team, err := s.app.JoinTeam(r.Context(), profile.ID, req)
	if errors.Is(err, ErrNotFound) {
		httpapi.Error(w, http.StatusNotFound, "no team with that invite code")
		return
	}
	if err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	httpapi.JSON(w, http.StatusOK, team)
}

func (s *Service) handleLeave(w http.ResponseWriter, r *http.Request) {
	profile := auth.ProfileFromContext(r.Context())
	if profile.TeamID == nil {
		httpapi.Error(w, http.StatusBadRequest, "you are not on a team")
		return
	}

	if err := s.app.LeaveTeam(r.Context(), profile.ID, *profile.TeamID); err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "failed to leave team")
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]bool{"left": true})
}

func (s *Service) handleSaveRoster(w http.ResponseWriter, r *http.Request) {
	profile := auth.ProfileFromContext(r.Context())
	teamID := chi.URLParam(r, "teamID")

	team, err := s.app.GetTeam(r.Context(), teamID)
	if errors.Is(err, ErrNotFound) {
		httpapi.Error(w, http.StatusNotFound, "team not found")
		return
	}
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "failed to load team")
		return
	}
	if !team.HasMember(profile.ID) {
		httpapi.Error(w, http.StatusForbidden, "you are not a member of this team")
		return
	}

	var req SaveRosterRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.app.SaveRoster(r.Context(), teamID, req)
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "failed to save roster")
		return
	}
	httpapi.JSON(w, http.StatusOK, updated)
}
