package users

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chefdraft/internal/auth"
	"chefdraft/internal/httpapi"
	"chefdraft/internal/models"
)

// TeamRoster is the slice of the teams app the service needs to resolve
// the authoritative chef list for a profile.
type TeamRoster interface {
	GetTeam(ctx context.Context, id string) (*models.Team, error)
}

// Service exposes the users app over HTTP.
type Service struct {
	app   *App
	teams TeamRoster
}

// NewService creates a new users HTTP service.
func NewService(app *App, teams TeamRoster) *Service {
	return &Service{app: app, teams: teams}
}

// Routes registers profile and leaderboard endpoints.
func (s *Service) Routes(r chi.Router) {
	r.Get("/me", s.handleMe)
	r.Put("/me/chefs", s.handleUpdateChefs)
	r.Get("/leaderboard", s.handleLeaderboard)
}

type profileResponse struct {
	*models.UserProfile
	// EffectiveChefs resolves the legacy dual data path: the team
	// roster whenever the user is on a team, the direct-select list
	// otherwise.
	EffectiveChefs []string `json:"effective_chefs"`
}

func (s *Service) handleMe(w http.ResponseWriter, r *http.Request) {
	profile := auth.ProfileFromContext(r.Context())

	effective := profile.Chefs
	if profile.TeamID != nil {
		team, err := s.teams.GetTeam(r.Context(), *profile.TeamID)
		if err == nil {
			effective = team.Chefs
		}
	}

	httpapi.JSON(w, http.StatusOK, profileResponse{
		UserProfile:    profile,
		EffectiveChefs: effective,
	})
}

func (s *Service) handleUpdateChefs(w http.ResponseWriter, r *http.Request) {
	profile := auth.ProfileFromContext(r.Context())

	var req UpdateChefsRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.app.UpdateChefs(r.Context(), profile.ID, req)
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "failed to update chefs")
		return
	}
	httpapi.JSON(w, http.StatusOK, updated)
}

func (s *Service) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.app.Leaderboard(r.Context())
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}
	httpapi.JSON(w, http.StatusOK, profiles)
}
