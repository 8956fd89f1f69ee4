package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"chefdraft/internal/models"
)

// UserRepository defines what the app layer needs from the repository.
type UserRepository interface {
	CreateUser(ctx context.Context, profile *models.UserProfile) error
	GetUser(ctx context.Context, id string) (*models.UserProfile, error)
	ListByPoints(ctx context.Context) ([]models.UserProfile, error)
	MutateUser(ctx context.Context, id string, fn func(*models.UserProfile) error) (*models.UserProfile, error)
}

// App handles profile business logic.
type App struct {
	repo  UserRepository
	clock clockwork.Clock
}

// NewApp creates a new users App.
func NewApp(repo UserRepository, clock clockwork.Clock) *App {
	return &App{repo: repo, clock: clock}
}

// GetOrCreate returns the caller's profile, creating it on first
// sign-in. Attributes from the identity provider are only written on
// creation; later changes there do not overwrite the stored profile.
func (a *App) GetOrCreate(ctx context.Context, req NewProfileRequest) (*models.UserProfile, error) {
	if req.ID == "" {
		return nil, fmt.Errorf("id is required")
	}

	profile, err := a.repo.GetUser(ctx, req.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := a.clock.Now().UTC()
	fresh := &models.UserProfile{
		ID:          req.ID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		PhotoURL:    req.PhotoURL,
		Chefs:       []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.repo.CreateUser(ctx, fresh); err != nil {
		return nil, err
	}

	// Reread in case a concurrent first request created it first.
	profile, err = a.repo.GetUser(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", profile.ID).Msg("created user profile on first sign-in")
	return profile, nil
}

// GetProfile retrieves a profile by ID.
func (a *App) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	return a.repo.GetUser(ctx, id)
}

// UpdateChefs replaces the legacy direct-select chef list.
func (a *App) UpdateChefs(ctx context.Context, id string, req UpdateChefsRequest) (*models.UserProfile, error) {
	profile, err := a.repo.MutateUser(ctx, id, func(p *models.UserProfile) error {
		p.Chefs = req.Chefs
		p.UpdatedAt = a.clock.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update user chefs: %w", err)
	}
	return profile, nil
}

// SetTeam points the profile at a team, or clears the reference when
// teamID is nil.
func (a *App) SetTeam(ctx context.Context, userID string, teamID *string) error {
	_, err := a.repo.MutateUser(ctx, userID, func(p *models.UserProfile) error {
		p.TeamID = teamID
		p.UpdatedAt = a.clock.Now().UTC()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set user team: %w", err)
	}
	return nil
}

// AwardPoints applies an episode points delta to the profile.
func (a *App) AwardPoints(ctx context.Context, userID string, entry models.PointsEntry) error {
	_, err := a.repo.MutateUser(ctx, userID, func(p *models.UserProfile) error {
		p.Points += entry.Points
		p.History = append(p.History, entry)
		p.UpdatedAt = a.clock.Now().UTC()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to award user points: %w", err)
	}
	return nil
}

// Leaderboard returns every profile ordered by points, highest first.
func (a *App) Leaderboard(ctx context.Context) ([]models.UserProfile, error) {
	return a.repo.ListByPoints(ctx)
}

// ListTeamlessOwners returns the IDs of users who own the chef through
// the legacy direct-select list and are not on a team. Team rosters are
// authoritative for everyone with a TeamID.
func (a *App) ListTeamlessOwners(ctx context.Context, chefID string) ([]string, error) {
	profiles, err := a.repo.ListByPoints(ctx)
	if err != nil {
		return nil, err
	}

	var owners []string
	for _, p := range profiles {
		if p.TeamID != nil {
			continue
		}
		for _, id := range p.Chefs {
			if id == chefID {
				owners = append(owners, p.ID)
				break
			}
		}
	}
	return owners, nil
}
