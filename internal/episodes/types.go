package episodes

import "time"

// Scoring holds the point values awarded for each episode outcome.
// Loaded from configuration so a season can tweak its rules.
type Scoring struct {
	QuickfireWin         int `yaml:"quickfire_win"`
	EliminationWin       int `yaml:"elimination_win"`
	Eliminated           int `yaml:"eliminated"`
	LastChanceKitchenWin int `yaml:"last_chance_kitchen_win"`
}

// DefaultScoring returns the house rules.
func DefaultScoring() Scoring {
	return Scoring{
		QuickfireWin:         10,
		EliminationWin:       15,
		Eliminated:           -10,
		LastChanceKitchenWin: 8,
	}
}

// CreateEpisodeRequest records one aired episode's results. Chef
// references are optional; leave them empty when the outcome did not
// happen that week.
type CreateEpisodeRequest struct {
	Number                  int       `json:"number"`
	Season                  string    `json:"season"`
	Title                   string    `json:"title"`
	AirDate                 time.Time `json:"air_date"`
	Recap                   string    `json:"recap"`
	QuickfireWinner         string    `json:"quickfire_winner"`
	EliminationWinner       string    `json:"elimination_winner"`
	EliminatedChef          string    `json:"eliminated_chef"`
	LastChanceKitchenWinner string    `json:"last_chance_kitchen_winner"`
}
