package chefs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"chefdraft/internal/models"
)

// ChefRepository defines what the app layer needs from the repository.
type ChefRepository interface {
	CreateChef(ctx context.Context, chef *models.Chef) error
	GetChef(ctx context.Context, id string) (*models.Chef, error)
	ListChefs(ctx context.Context) ([]models.Chef, error)
	ListChefsByStatus(ctx context.Context, status models.ChefStatus) ([]models.Chef, error)
	MutateChef(ctx context.Context, id string, fn func(*models.Chef) error) (*models.Chef, error)
}

// App handles chef business logic.
type App struct {
	repo ChefRepository
}

// NewApp creates a new chefs App.
func NewApp(repo ChefRepository) *App {
	return &App{repo: repo}
}

// CreateChef adds a new chef to the registry with status active.
func (a *App) CreateChef(ctx context.Context, req CreateChefRequest) (*models.Chef, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if req.Season == "" {
		return nil, fmt.Errorf("season is required")
	}

	chef := &models.Chef{
		ID:       uuid.New().String(),
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Bio:      req.Bio,
		Season:   req.Season,
		Status:   models.ChefStatusActive,
	}

	if err := a.repo.CreateChef(ctx, chef); err != nil {
		return nil, fmt.Errorf("failed to create chef: %w", err)
	}

	log.Info().Str("chef_id", chef.ID).Str("name", chef.Name).Msg("created chef")
	return chef, nil
}

// GetChef retrieves a chef by ID.
func (a *App) GetChef(ctx context.Context, id string) (*models.Chef, error) {
	return a.repo.GetChef(ctx, id)
}

// ListChefs returns every chef in the registry.
func (a *App) ListChefs(ctx context.Context) ([]models.Chef, error) {
	return a.repo.ListChefs(ctx)
}

// ListActiveChefs returns chefs still in the competition.
func (a *App) ListActiveChefs(ctx context.Context) ([]models.Chef, error) {
	return a.repo.ListChefsByStatus(ctx, models.ChefStatusActive)
}

// UpdateStatus changes a chef's competition status.
func (a *App) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*models.Chef, error) {
	switch req.Status {
	case models.ChefStatusActive, models.ChefStatusEliminated, models.ChefStatusLastChanceKitchen:
	default:
		return nil, fmt.Errorf("invalid chef status: %s", req.Status)
	}

	chef, err := a.repo.MutateChef(ctx, id, func(c *models.Chef) error {
		c.Status = req.Status
		if req.EliminatedEpisode != nil {
			c.EliminatedEpisode = req.EliminatedEpisode
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update chef status: %w", err)
	}

	log.Info().Str("chef_id", id).Str("status", string(req.Status)).Msg("updated chef status")
	return chef, nil
}

// IncrementStats adds the delta onto a chef's performance counters.
func (a *App) IncrementStats(ctx context.Context, id string, delta StatsDelta) (*models.Chef, error) {
	chef, err := a.repo.MutateChef(ctx, id, func(c *models.Chef) error {
		c.Stats.QuickfireWins += delta.QuickfireWins
		c.Stats.EliminationWins += delta.EliminationWins
		c.Stats.TimesInBottom += delta.TimesInBottom
		c.Stats.LastChanceKitchenWins += delta.LastChanceKitchenWins
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to increment chef stats: %w", err)
	}
	return chef, nil
}

// AssignDraft stamps the chef with the drafting team and turn.
// Safe to re-apply: the stamp is overwritten with identical values.
func (a *App) AssignDraft(ctx context.Context, id string, req AssignDraftRequest) error {
	_, err := a.repo.MutateChef(ctx, id, func(c *models.Chef) error {
		c.DraftedBy = &models.DraftAssignment{
			TeamID:   req.TeamID,
			TeamName: req.TeamName,
			Round:    req.Round,
			Position: req.Position,
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to assign draft fields: %w", err)
	}
	return nil
}

// ClearDraftAssignment removes the draft stamp, returning the chef to
// the undrafted pool. Idempotent like AssignDraft.
func (a *App) ClearDraftAssignment(ctx context.Context, id string) error {
	_, err := a.repo.MutateChef(ctx, id, func(c *models.Chef) error {
		c.DraftedBy = nil
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clear draft fields: %w", err)
	}
	return nil
}
