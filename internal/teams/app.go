package teams

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"

	"chefdraft/internal/models"
)

// Invite codes are short enough to read over the phone.
const (
	inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	inviteCodeLength   = 6
	inviteCodeAttempts = 5
)

// TeamRepository defines what the app layer needs from the repository.
type TeamRepository interface {
	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	GetTeamByInviteCode(ctx context.Context, code string) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	MutateTeam(ctx context.Context, id string, fn func(*models.Team) error) (*models.Team, error)
	DeleteTeam(ctx context.Context, id string) error
}

// ProfileDirectory is the slice of the users app the teams app needs to
// keep profile team references in sync with membership.
type ProfileDirectory interface {
	SetTeam(ctx context.Context, userID string, teamID *string) error
	AwardPoints(ctx context.Context, userID string, entry models.PointsEntry) error
}

// App handles team business logic.
type App struct {
	repo     TeamRepository
	profiles ProfileDirectory
	clock    clockwork.Clock
}

// NewApp creates a new teams App.
func NewApp(repo TeamRepository, profiles ProfileDirectory, clock clockwork.Clock) *App {
	return &App{repo: repo, profiles: profiles, clock: clock}
}

// CreateTeam creates a team with a fresh unique invite code and the
// creator as its first member.
func (a *App) CreateTeam(ctx context.Context, creatorID string, req CreateTeamRequest) (*models.Team, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	code, err := a.newInviteCode(ctx)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now().UTC()
	team := &models.Team{
		ID:         uuid.New().String(),
		Name:       req.Name,
		MemberIDs:  []string{creatorID},
		Chefs:      []string{},
		InviteCode: code,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := a.repo.CreateTeam(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	if err := a.profiles.SetTeam(ctx, creatorID, &team.ID); err != nil {
		return nil, fmt.Errorf("failed to link creator to team: %w", err)
	}

	log.Info().Str("team_id", team.ID).Str("name", team.Name).Msg("created team")
	return team, nil
}

// GetTeam retrieves a team by ID.
func (a *App) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	return a.repo.GetTeam(ctx, id)
}

// ListTeams returns every team.
func (a *App) ListTeams(ctx context.Context) ([]models.Team, error) {
	return a.repo.ListTeams(ctx)
}

// JoinTeam adds the user to the team holding the invite code and points
// the user's profile at it. Joining a team you already belong to is a
// no-op.
func (a *App) JoinTeam(ctx context.Context, userID string, req JoinTeamRequest) (*models.Team, error) {
	if req.InviteCode == "" {
		return nil, fmt.Errorf("invite_code is required")
	}

	found, err := a.repo.GetTeamByInviteCode(ctx, req.InviteCode)
	if err != nil {
		return nil, err
	}

	team, err := a.repo.MutateTeam(ctx, found.ID, func(t *models.Team) error {
		if !t.HasMember(userID) {
			t.MemberIDs = append(t.MemberIDs, userID)
		}
		t.UpdatedAt = a.clock.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to join team: %w", err)
	}

	if err := a.profiles.SetTeam(ctx, userID, &team.ID); err != nil {
		return nil, fmt.Errorf("failed to link user to team: %w", err)
	}

	log.Info().Str("team_id", team.ID).Str("user_id", userID).Msg("user joined team")
	return team, nil
}

// LeaveTeam removes the user from the team. When the last member
// leaves, the team is deleted.
func (a *App) LeaveTeam(ctx context.Context, userID, teamID string) error {
	team, err := a.repo.MutateTeam(ctx, teamID, func(t *models.Team) error {
		members := t.MemberIDs[:0]
		for _, id := range t.MemberIDs {
			if id != userID {
				members = append(members, id)
			}
		}
		t.MemberIDs = members
		t.UpdatedAt = a.clock.Now().UTC()
		return nil
	})
	if err != nil {
		return err
	}

	if len(team.MemberIDs) == 0 {
		if err := a.repo.DeleteTeam(ctx, teamID); err != nil {
			return err
		}
		log.Info().Str("team_id", teamID).Msg("deleted team with no remaining members")
	}

	if err := a.profiles.SetTeam(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to unlink user from team: %w", err)
	}

	log.Info().Str("team_id", teamID).Str("user_id", userID).Msg("user left team")
	return nil
}

// SaveRoster replaces the team's chef list. Legacy path for leagues
// that manage rosters outside the draft.
func (a *App) SaveRoster(ctx context.Context, teamID string, req SaveRosterRequest) (*models.Team, error) {
	team, err := a.repo.MutateTeam(ctx, teamID, func(t *models.Team) error {
		t.Chefs = req.Chefs
		t.UpdatedAt = a.clock.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save roster: %w", err)
	}
	return team, nil
}

// AddChef unions the chef into the team's roster. Idempotent, so the
// draft coordinator and the reconcile pass can both apply it safely.
func (a *App) AddChef(ctx context.Context, teamID, chefID string) error {
	_, err := a.repo.MutateTeam(ctx, teamID, func(t *models.Team) error {
		if !t.HasChef(chefID) {
			t.Chefs = append(t.Chefs, chefID)
		}
		t.UpdatedAt = a.clock.Now().UTC()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add chef to roster: %w", err)
	}
	return nil
}

// AwardPoints applies an episode points delta to the team and to every
// member's profile.
func (a *App) AwardPoints(ctx context.Context, teamID string, entry models.PointsEntry) error {
	team, err := a.repo.MutateTeam(ctx, teamID, func(t *models.Team) error {
		t.Points += entry.Points
		t.History = append(t.History, entry)
		t.UpdatedAt = a.clock.Now().UTC()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to award team points: %w", err)
	}

	for _, memberID := range team.MemberIDs {
		if err := a.profiles.AwardPoints(ctx, memberID, entry); err != nil {
			return fmt.Errorf("failed to award member points: %w", err)
		}
	}
	return nil
}

func (a *App) newInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code, err := gonanoid.Generate(inviteCodeAlphabet, inviteCodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}

		_, err = a.repo.GetTeamByInviteCode(ctx, code)
		if errors.Is(err, ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
		// Code already taken; roll again.
	}
	return "", fmt.Errorf("failed to find a free invite code")
}
