package episodes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chefdraft/internal/httpapi"
)

// Service exposes the episodes app over HTTP.
type Service struct {
	app    *App
	season string
}

// NewService creates a new episodes HTTP service scoped to the current
// season.
func NewService(app *App, season string) *Service {
	return &Service{app: app, season: season}
}

// Routes registers the read-side episode endpoints.
func (s *Service) Routes(r chi.Router) {
	r.Get("/", s.handleList)
	r.Get("/{episodeID}", s.handleGet)
}

// AdminRoutes registers the endpoints reserved for administrators.
func (s *Service) AdminRoutes(r chi.Router) {
	r.Post("/", s.handleCreate)
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	season := r.URL.Query().Get("season")
	if season == "" {
		season = s.season
	}

	episodes, err := s.app.ListEpisodes(r.Context(), season)
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "failed to load episodes")
		return
	}
	httpapi.JSON(w, http.StatusOK, episodes)
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	episode, err := s.app.GetEpisode(r.Context(), chi.URLParam(r, "episodeID"))
	if errors.Is(err, ErrNotFound) {
		httpapi.Error(w, http.StatusNotFound, "episode not found")
		return
	}
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "failed to load episode")
		return
	}
	httpapi.JSON(w, http.StatusOK, episode)
}

func (s *Service) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateEpisodeRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Season == "" {
		req.Season = s.season
	}

	episode, err := s.app.CreateEpisode(r.Context(), req)
	if errors.Is(err, ErrDuplicate) {
		httpapi.Error(w, http.StatusConflict, "episode already recorded")
		return
	}
	if err != nil && episode != nil {
		// Episode persisted but scoring needs a retry; surface both.
		httpapi.JSON(w, http.StatusAccepted, map[string]any{
			"episode": episode,
			"warning": err.Error(),
		})
		return
	}
	if err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	httpapi.JSON(w, http.StatusCreated, episode)
}
