package chefs

import "chefdraft/internal/models"

// CreateChefRequest represents the data needed to add a chef.
type CreateChefRequest struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
	Bio      string `json:"bio"`
	Season   string `json:"season"`
}

// UpdateStatusRequest changes a chef's competition status.
// EliminatedEpisode is only meaningful with StatusEliminated.
type UpdateStatusRequest struct {
	Status            models.ChefStatus `json:"status"`
	EliminatedEpisode *int              `json:"eliminated_episode,omitempty"`
}

// StatsDelta holds increments to apply to a chef's counters.
type StatsDelta struct {
	QuickfireWins         int `json:"quickfire_wins"`
	EliminationWins       int `json:"elimination_wins"`
	TimesInBottom         int `json:"times_in_bottom"`
	LastChanceKitchenWins int `json:"last_chance_kitchen_wins"`
}

// AssignDraftRequest stamps a chef with the team and turn that drafted
// them. Assignments are idempotent so a repair pass can re-apply them.
type AssignDraftRequest struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Round    int    `json:"round"`
	Position int    `json:"position"`
}
