package chefs

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chefdraft/internal/httpapi"
)

// Service exposes the chefs app over HTTP.
type Service struct {
	app *App
}

// NewService creates a new chefs HTTP service.
func NewService(app *App) *Service {
	return &Service{app: app}
}

// Routes registers the read-side chef endpoints.
func (s *Service) Routes(r chi.Router) {
	r.Get("/", s.handleList)
	r.Get("/active", s.handleListActive)
	r.Get("/{chefID}", s.handleGet)
}

// AdminRoutes registers the endpoints reserved for administrators.
func (s *Service) AdminRoutes(r chi.Router) {
	r.Post("/", s.handleCreate)
	r.Post("/{chefID}/status", s.handleUpdateStatus)
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	chefs, err := s.app.ListChefs(r.Context())
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "failed to load chefs")
		return
	}
	httpapi.JSON(w, http.StatusOK, chefs)
}

func (s *Service) handleListActive(w http.ResponseWriter, r *http.Request) {
	chefs, err := s.app.ListActiveChefs(r.Context())
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "failed to load chefs")
		return
	}
	httpapi.JSON(w, http.StatusOK, chefs)
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	chef, err := s.app.GetChef(r.Context(), chi.URLParam(r, "chefID"))
	if errors.Is(err, ErrNotFound) {
		httpapi.Error(w, http.StatusNotFound, "chef not found")
		return
	}
	if err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "failed to load chef")
		return
	}
	httpapi.JSON(w, http.StatusOK, chef)
}

func (s *Service) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateChefRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	chef, err := s.app.CreateChef(r.Context(), req)
	if err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	httpapi.JSON(w, http.StatusCreated, chef)
}

func (s *Service) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	chef, err := s.app.UpdateStatus(r.Context(), chi.URLParam(r, "chefID"), req)
	if errors.Is(err, ErrNotFound) {
		httpapi.Error(w, http.StatusNotFound, "chef not found")
		return
	}
	if err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	httpapi.JSON(w, http.StatusOK, chef)
}
