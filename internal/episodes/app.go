package episodes

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"chefdraft/internal/chefs"
	"chefdraft/internal/models"
)

// EpisodeRepository defines what the app layer needs from the
// repository.
type EpisodeRepository interface {
	CreateEpisode(ctx context.Context, episode *models.Episode) error
	GetEpisode(ctx context.Context, id string) (*models.Episode, error)
	ListEpisodes(ctx context.Context, season string) ([]models.Episode, error)
}

// ChefRegistry is the slice of the chefs app the scorer uses.
type ChefRegistry interface {
	GetChef(ctx context.Context, id string) (*models.Chef, error)
	IncrementStats(ctx context.Context, id string, delta chefs.StatsDelta) (*models.Chef, error)
	UpdateStatus(ctx context.Context, id string, req chefs.UpdateStatusRequest) (*models.Chef, error)
}

// TeamScorer awards points to a team and its members.
type TeamScorer interface {
	AwardPoints(ctx context.Context, teamID string, entry models.PointsEntry) error
}

// OwnerDirectory resolves and scores users who drafted a chef onto
// their personal list without joining a team.
type OwnerDirectory interface {
	ListTeamlessOwners(ctx context.Context, chefID string) ([]string, error)
	AwardPoints(ctx context.Context, userID string, entry models.PointsEntry) error
}

// App records episode results and applies their fantasy consequences:
// chef stat bumps, status changes, and points for whoever owns each
// chef.
type App struct {
	repo    EpisodeRepository
	chefs   ChefRegistry
	teams   TeamScorer
	owners  OwnerDirectory
	scoring Scoring
	clock   clockwork.Clock
}

// NewApp creates a new episodes App.
func NewApp(repo EpisodeRepository, chefs ChefRegistry, teams TeamScorer, owners OwnerDirectory, scoring Scoring, clock clockwork.Clock) *App {
	return &App{repo: repo, chefs: chefs, teams: teams, owners: owners, scoring: scoring, clock: clock}
}

// CreateEpisode records an episode and applies its results. The episode
// document is written first; scoring failures are logged and reported
// but do not unwind the episode.
func (a *App) CreateEpisode(ctx context.Context, req CreateEpisodeRequest) (*models.Episode, error) {
	if req.Number < 1 {
		return nil, fmt.Errorf("episode number must be positive")
	}
	if req.Season == "" {
		return nil, fmt.Errorf("season is required")
	}

	episode := &models.Episode{
		ID:                      uuid.New().String(),
		Number:                  req.Number,
		Season:                  req.Season,
		Title:                   req.Title,
		AirDate:                 req.AirDate,
		Recap:                   req.Recap,
		QuickfireWinner:         req.QuickfireWinner,
		EliminationWinner:       req.EliminationWinner,
		EliminatedChef:          req.EliminatedChef,
		LastChanceKitchenWinner: req.LastChanceKitchenWinner,
		CreatedAt:               a.clock.Now(),
	}

	if err := a.repo.CreateEpisode(ctx, episode); err != nil {
		return nil, err
	}

	if err := a.applyResults(ctx, episode); err != nil {
		log.Error().Err(err).Str("episode_id", episode.ID).Int("number", episode.Number).
			Msg("episode recorded but scoring incomplete")
		return episode, fmt.Errorf("episode recorded but scoring incomplete: %w", err)
	}

	log.Info().Str("episode_id", episode.ID).Int("number", episode.Number).Msg("episode recorded and scored")
	return episode, nil
}

// GetEpisode retrieves an episode by ID.
func (a *App) GetEpisode(ctx context.Context, id string) (*models.Episode, error) {
	return a.repo.GetEpisode(ctx, id)
}

// ListEpisodes returns a season's episodes in airing order.
func (a *App) ListEpisodes(ctx context.Context, season string) ([]models.Episode, error) {
	return a.repo.ListEpisodes(ctx, season)
}

func (a *App) applyResults(ctx context.Context, ep *models.Episode) error {
	if ep.QuickfireWinner != "" {
		if _, err := a.chefs.IncrementStats(ctx, ep.QuickfireWinner, chefs.StatsDelta{QuickfireWins: 1}); err != nil {
			return fmt.Errorf("failed to credit quickfire win: %w", err)
		}
		if err := a.award(ctx, ep, ep.QuickfireWinner, a.scoring.QuickfireWin, "quickfire win"); err != nil {
			return err
		}
	}

	if ep.EliminationWinner != "" {
		if _, err := a.chefs.IncrementStats(ctx, ep.EliminationWinner, chefs.StatsDelta{EliminationWins: 1}); err != nil {
			return fmt.Errorf("failed to credit elimination win: %w", err)
		}
		if err := a.award(ctx, ep, ep.EliminationWinner, a.scoring.EliminationWin, "elimination win"); err != nil {
			return err
		}
	}

	if ep.EliminatedChef != "" {
		number := ep.Number
		_, err := a.chefs.UpdateStatus(ctx, ep.EliminatedChef, chefs.UpdateStatusRequest{
			Status:            models.ChefStatusEliminated,
			EliminatedEpisode: &number,
		})
		if err != nil {
			return fmt.Errorf("failed to eliminate chef: %w", err)
		}
		if _, err := a.chefs.IncrementStats(ctx, ep.EliminatedChef, chefs.StatsDelta{TimesInBottom: 1}); err != nil {
			return fmt.Errorf("failed to credit bottom finish: %w", err)
		}
		if err := a.award(ctx, ep, ep.EliminatedChef, a.scoring.Eliminated, "eliminated"); err != nil {
			return err
		}
	}

	if ep.LastChanceKitchenWinner != "" {
		_, err := a.chefs.UpdateStatus(ctx, ep.LastChanceKitchenWinner, chefs.UpdateStatusRequest{
			Status: models.ChefStatusLastChanceKitchen,
		})
		if err != nil {
			return fmt.Errorf("failed to move chef to last chance kitchen: %w", err)
		}
		if _, err := a.chefs.IncrementStats(ctx, ep.LastChanceKitchenWinner, chefs.StatsDelta{LastChanceKitchenWins: 1}); err != nil {
			return fmt.Errorf("failed to credit last chance kitchen win: %w", err)
		}
		if err := a.award(ctx, ep, ep.LastChanceKitchenWinner, a.scoring.LastChanceKitchenWin, "last chance kitchen win"); err != nil {
			return err
		}
	}

	return nil
}

// award routes an outcome's points to whoever owns the chef: the team
// that drafted them, or users carrying the chef on a personal list.
func (a *App) award(ctx context.Context, ep *models.Episode, chefID string, points int, reason string) error {
	if points == 0 {
		return nil
	}

	entry := models.PointsEntry{
		EpisodeID:  ep.ID,
		Episode:    ep.Number,
		Points:     points,
		Reason:     reason,
		RecordedAt: a.clock.Now(),
	}

	chef, err := a.chefs.GetChef(ctx, chefID)
	if err != nil {
		return fmt.Errorf("failed to resolve chef %s: %w", chefID, err)
	}

	if chef.DraftedBy != nil {
		if err := a.teams.AwardPoints(ctx, chef.DraftedBy.TeamID, entry); err != nil {
			return fmt.Errorf("failed to award team points: %w", err)
		}
	}

	ownerIDs, err := a.owners.ListTeamlessOwners(ctx, chefID)
	if err != nil {
		return fmt.Errorf("failed to list chef owners: %w", err)
	}
	for _, userID := range ownerIDs {
		if err := a.owners.AwardPoints(ctx, userID, entry); err != nil {
			return fmt.Errorf("failed to award user points: %w", err)
		}
	}
	return nil
}
