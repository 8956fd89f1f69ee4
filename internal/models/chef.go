package models

// ChefStatus defines where a chef currently stands in the competition.
type ChefStatus string

const (
	ChefStatusActive            ChefStatus = "active"
	ChefStatusEliminated        ChefStatus = "eliminated"
	ChefStatusLastChanceKitchen ChefStatus = "last-chance-kitchen"
)

// ChefStats holds per-chef performance counters, updated as episodes air.
type ChefStats struct {
	QuickfireWins         int `json:"quickfire_wins"`
	EliminationWins       int `json:"elimination_wins"`
	TimesInBottom         int `json:"times_in_bottom"`
	LastChanceKitchenWins int `json:"last_chance_kitchen_wins"`
}

// DraftAssignment records which team drafted a chef and at which turn.
// Nil until the chef is picked.
type DraftAssignment struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Round    int    `json:"round"`
	Position int    `json:"position"`
}

// Chef represents a competitor on the show.
type Chef struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	PhotoURL          string           `json:"photo_url"`
	Bio               string           `json:"bio"`
	Season            string           `json:"season"`
	Status            ChefStatus       `json:"status"`
	Stats             ChefStats        `json:"stats"`
	EliminatedEpisode *int             `json:"eliminated_episode,omitempty"`
	DraftedBy         *DraftAssignment `json:"drafted_by,omitempty"`
}
