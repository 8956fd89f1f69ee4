package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"chefdraft/internal/chefs"
	"chefdraft/internal/draft/events"
	"chefdraft/internal/models"
)

// casAttempts bounds how many times a pick is retried after losing a
// version race. One reread and retry, then the conflict surfaces.
const casAttempts = 2

// DraftRepository defines what the coordinator needs from storage.
type DraftRepository interface {
	GetDraft(ctx context.Context) (*models.DraftSettings, int64, error)
	UpsertDraft(ctx context.Context, settings *models.DraftSettings) error
	UpdateDraftCAS(ctx context.Context, settings *models.DraftSettings, version int64, pending []PendingEvent) error
}

// TeamDirectory is the slice of the teams app the coordinator uses.
type TeamDirectory interface {
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	AddChef(ctx context.Context, teamID, chefID string) error
}

// ChefRegistry is the slice of the chefs app the coordinator uses.
type ChefRegistry interface {
	GetChef(ctx context.Context, id string) (*models.Chef, error)
	AssignDraft(ctx context.Context, id string, req chefs.AssignDraftRequest) error
	ClearDraftAssignment(ctx context.Context, id string) error
}

// App coordinates the snake draft. All state transitions go through the
// repository's version check so concurrent admins and pickers cannot
// clobber each other.
type App struct {
	repo  DraftRepository
	teams TeamDirectory
	chefs ChefRegistry
	clock clockwork.Clock
}

// NewApp creates a new draft App.
func NewApp(repo DraftRepository, teams TeamDirectory, chefs ChefRegistry, clock clockwork.Clock) *App {
	return &App{repo: repo, teams: teams, chefs: chefs, clock: clock}
}

// SetOrder replaces the draft configuration. Rejected while a draft is
// running; ending the draft first is the escape hatch.
func (a *App) SetOrder(ctx context.Context, req SetOrderRequest) (*models.DraftSettings, error) {
	if len(req.Order) == 0 {
		return nil, fmt.Errorf("order must name at least one team")
	}
	if req.TotalRounds < 1 {
		return nil, fmt.Errorf("total_rounds must be at least 1")
	}
	seen := make(map[string]struct{}, len(req.Order))
	for _, teamID := range req.Order {
		if _, dup := seen[teamID]; dup {
			return nil, fmt.Errorf("team %s appears twice in order", teamID)
		}
		seen[teamID] = struct{}{}
		if _, err := a.teams.GetTeam(ctx, teamID); err != nil {
			return nil, fmt.Errorf("failed to resolve team %s: %w", teamID, err)
		}
	}

	existing, _, err := a.repo.GetDraft(ctx)
	if err != nil && !errors.Is(err, ErrNotConfigured) {
		return nil, err
	}
	if existing != nil && existing.IsActive {
		return nil, ErrDraftActive
	}

	now := a.clock.Now()
	settings := &models.DraftSettings{
		ID:              models.DraftDocID,
		Order:           req.Order,
		IsActive:        false,
		CurrentPosition: 0,
		Round:           1,
		TotalRounds:     req.TotalRounds,
		Picks:           []models.DraftPick{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if existing != nil {
		settings.CreatedAt = existing.CreatedAt
	}

	// Reconfiguring discards any picks from a previous run, so the chefs
	// those picks stamped go back to the undrafted pool. Clearing happens
	// before the overwrite: if a clear fails the old record survives and
	// Reconcile can restamp from it.
	if existing != nil {
		for _, pick := range existing.Picks {
			if pick.ChefID == "" {
				continue
			}
			if err := a.chefs.ClearDraftAssignment(ctx, pick.ChefID); err != nil {
				return nil, fmt.Errorf("failed to release chef %s: %w", pick.ChefID, err)
			}
		}
	}

	if err := a.repo.UpsertDraft(ctx, settings); err != nil {
		return nil, err
	}

	log.Info().Int("teams", len(req.Order)).Int("total_rounds", req.TotalRounds).Msg("draft order configured")
	return settings, nil
}

// Start activates the configured draft and resets its progress.
func (a *App) Start(ctx context.Context) (*models.DraftSettings, error) {
	settings, version, err := a.repo.GetDraft(ctx)
	if err != nil {
		return nil, err
	}
	if settings.IsActive {
		return nil, ErrDraftActive
	}
	if len(settings.Order) == 0 {
		return nil, ErrNotConfigured
	}

	// Numbering restarts from the top on every explicit start; picks
	// recorded before an end are kept for the record.
	now := a.clock.Now()
	settings.IsActive = true
	settings.CurrentPosition = 0
	settings.Round = 1
	settings.StartTime = &now
	settings.EndTime = nil
	settings.UpdatedAt = now

	payload, err := json.Marshal(events.DraftStartedPayload{
		Teams:       len(settings.Order),
		TotalRounds: settings.TotalRounds,
		StartedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft started payload: %w", err)
	}

	err = a.repo.UpdateDraftCAS(ctx, settings, version, []PendingEvent{
		{Type: events.TypeDraftStarted, Payload: payload},
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int("teams", len(settings.Order)).Int("total_rounds", settings.TotalRounds).Msg("draft started")
	return settings, nil
}

// End deactivates the draft unconditionally, whether or not every pick
// has been made. Progress is preserved so an ended draft can still be
// inspected.
func (a *App) End(ctx context.Context) (*models.DraftSettings, error) {
	settings, version, err := a.repo.GetDraft(ctx)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	settings.IsActive = false
	settings.EndTime = &now
	settings.UpdatedAt = now

	payload, err := json.Marshal(events.DraftEndedPayload{
		EndedAt:    now,
		PicksSoFar: len(settings.Picks),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft ended payload: %w", err)
	}

	err = a.repo.UpdateDraftCAS(ctx, settings, version, []PendingEvent{
		{Type: events.TypeDraftEnded, Payload: payload},
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int("picks", len(settings.Picks)).Msg("draft ended")
	return settings, nil
}

// Pick records a chef selection for the team on the clock, advances the
// turn, and pushes the chef onto the team's roster. The roster write
// happens after the draft record commits; when it fails the pick stands
// and RosterSynced comes back false.
func (a *App) Pick(ctx context.Context, req PickRequest) (*PickResult, error) {
	if req.TeamID == "" || req.ChefID == "" {
		return nil, fmt.Errorf("team_id and chef_id are required")
	}

	chef, err := a.chefs.GetChef(ctx, req.ChefID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve chef %s: %w", req.ChefID, err)
	}

	var settings *models.DraftSettings
	var pick models.DraftPick
	var overall int
	for attempt := 1; ; attempt++ {
		var version int64
		settings, version, err = a.repo.GetDraft(ctx)
		if err != nil {
			return nil, err
		}

		if err := a.validatePick(settings, req); err != nil {
			return nil, err
		}

		now := a.clock.Now()
		pick = models.DraftPick{
			Position:  settings.CurrentPosition,
			Round:     settings.Round,
			TeamID:    req.TeamID,
			ChefID:    req.ChefID,
			Timestamp: now,
		}
		settings.Picks = append(settings.Picks, pick)
		overall = len(settings.Picks)
		advanceTurn(settings)
		settings.UpdatedAt = now

		pending := []PendingEvent{{Type: events.TypePickMade}}
		pending[0].Payload, err = json.Marshal(events.PickMadePayload{
			TeamID:   req.TeamID,
			ChefID:   req.ChefID,
			Round:    pick.Round,
			Position: pick.Position,
			Overall:  overall,
			MadeAt:   now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal pick payload: %w", err)
		}
		if settings.Complete() {
			settings.IsActive = false
			settings.EndTime = &now
			payload, err := json.Marshal(events.DraftCompletedPayload{
				CompletedAt: now,
				TotalPicks:  overall,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to marshal draft completed payload: %w", err)
			}
			pending = append(pending, PendingEvent{Type: events.TypeDraftCompleted, Payload: payload})
		}

		err = a.repo.UpdateDraftCAS(ctx, settings, version, pending)
		if err == nil {
			break
		}
		if errors.Is(err, ErrConflict) && attempt < casAttempts {
			log.Warn().Int("attempt", attempt).Str("team_id", req.TeamID).Msg("pick lost version race, retrying")
			continue
		}
		return nil, err
	}

	result := &PickResult{Draft: settings, Completed: settings.Complete(), RosterSynced: true}
	if err := a.applyPick(ctx, pick); err != nil {
		log.Error().Err(err).Str("team_id", req.TeamID).Str("chef_id", req.ChefID).
			Msg("pick committed but roster sync failed")
		result.RosterSynced = false
	}

	log.Info().
		Str("team_id", req.TeamID).
		Str("chef_id", req.ChefID).
		Str("chef", chef.Name).
		Int("round", pick.Round).
		Int("overall", overall).
		Msg("pick made")
	return result, nil
}

// Skip advances the turn without recording a pick for the team on the
// clock. Admin-only; used when a team misses its window.
func (a *App) Skip(ctx context.Context) (*models.DraftSettings, error) {
	for attempt := 1; ; attempt++ {
		settings, version, err := a.repo.GetDraft(ctx)
		if err != nil {
			return nil, err
		}
		if !settings.IsActive {
			return nil, ErrDraftNotActive
		}

		teamID, _ := settings.TeamOnClock()
		now := a.clock.Now()
		advanceTurn(settings)
		settings.UpdatedAt = now
		if settings.Complete() {
			settings.IsActive = false
			settings.EndTime = &now
		}

		err = a.repo.UpdateDraftCAS(ctx, settings, version, nil)
		if err == nil {
			log.Info().Str("team_id", teamID).Msg("turn skipped")
			return settings, nil
		}
		if errors.Is(err, ErrConflict) && attempt < casAttempts {
			continue
		}
		return nil, err
	}
}

// IsTeamsTurn reports whether the given team is on the clock. An
// unconfigured or inactive draft is simply "not your turn", not an
// error.
func (a *App) IsTeamsTurn(ctx context.Context, teamID string) (bool, error) {
	settings, _, err := a.repo.GetDraft(ctx)
	if errors.Is(err, ErrNotConfigured) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !settings.IsActive {
		return false, nil
	}
	onClock, ok := settings.TeamOnClock()
	return ok && onClock == teamID, nil
}

// Snapshot returns the current draft state for display.
func (a *App) Snapshot(ctx context.Context) (*Snapshot, error) {
	settings, _, err := a.repo.GetDraft(ctx)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Draft: settings, Complete: settings.Complete()}
	if settings.IsActive {
		snap.OnClock, _ = settings.TeamOnClock()
	}
	return snap, nil
}

// Reconcile re-applies every committed pick to team rosters and chef
// assignments. Both writes are idempotent, so running this after a
// partial failure converges the system back onto the draft record.
func (a *App) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	settings, _, err := a.repo.GetDraft(ctx)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{}
	for _, pick := range settings.Picks {
		if pick.ChefID == "" {
			continue
		}
		team, err := a.teams.GetTeam(ctx, pick.TeamID)
		if err != nil {
			return result, fmt.Errorf("failed to resolve team %s: %w", pick.TeamID, err)
		}
		if !team.HasChef(pick.ChefID) {
			if err := a.teams.AddChef(ctx, pick.TeamID, pick.ChefID); err != nil {
				return result, fmt.Errorf("failed to repair roster for team %s: %w", pick.TeamID, err)
			}
			result.RostersRepaired++
		}

		chef, err := a.chefs.GetChef(ctx, pick.ChefID)
		if err != nil {
			return result, fmt.Errorf("failed to resolve chef %s: %w", pick.ChefID, err)
		}
		if chef.DraftedBy == nil || chef.DraftedBy.TeamID != pick.TeamID {
			err := a.chefs.AssignDraft(ctx, pick.ChefID, chefs.AssignDraftRequest{
				TeamID:   pick.TeamID,
				TeamName: team.Name,
				Round:    pick.Round,
				Position: pick.Position,
			})
			if err != nil {
				return result, fmt.Errorf("failed to repair assignment for chef %s: %w", pick.ChefID, err)
			}
			result.AssignmentsRepaired++
		}
	}

	if result.RostersRepaired > 0 || result.AssignmentsRepaired > 0 {
		log.Info().
			Int("rosters", result.RostersRepaired).
			Int("assignments", result.AssignmentsRepaired).
			Msg("reconciled draft state")
	}
	return result, nil
}

// validatePick checks the turn and chef rules against freshly read
// state. Called inside the CAS loop so a retry revalidates.
func (a *App) validatePick(settings *models.DraftSettings, req PickRequest) error {
	if !settings.IsActive {
		return ErrDraftNotActive
	}
	onClock, ok := settings.TeamOnClock()
	if !ok || onClock != req.TeamID {
		return ErrNotYourTurn
	}
	if settings.ChefDrafted(req.ChefID) {
		return ErrChefAlreadyDrafted
	}
	return nil
}

// applyPick pushes a committed pick out to the team roster and the
// chef's draft stamp. Failures here never undo the pick.
func (a *App) applyPick(ctx context.Context, pick models.DraftPick) error {
	if err := a.teams.AddChef(ctx, pick.TeamID, pick.ChefID); err != nil {
		return fmt.Errorf("failed to add chef to roster: %w", err)
	}
	team, err := a.teams.GetTeam(ctx, pick.TeamID)
	if err != nil {
		return fmt.Errorf("failed to reload team: %w", err)
	}
	err = a.chefs.AssignDraft(ctx, pick.ChefID, chefs.AssignDraftRequest{
		TeamID:   pick.TeamID,
		TeamName: team.Name,
		Round:    pick.Round,
		Position: pick.Position,
	})
	if err != nil {
		return fmt.Errorf("failed to stamp chef assignment: %w", err)
	}
	return nil
}

// advanceTurn moves to the next slot, wrapping into the next round when
// the current one is exhausted. Completion is Round > TotalRounds.
func advanceTurn(settings *models.DraftSettings) {
	settings.CurrentPosition++
	if settings.CurrentPosition >= len(settings.Order) {
		settings.CurrentPosition = 0
		settings.Round++
	}
}
