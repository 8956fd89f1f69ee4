package models

import "time"

// Episode records the outcome of one aired episode. The four chef
// references are optional; an empty string means not applicable this
// week. Episodes are immutable once recorded.
type Episode struct {
	ID                      string    `json:"id"`
	Number                  int       `json:"number"`
	Season                  string    `json:"season"`
	Title                   string    `json:"title"`
	AirDate                 time.Time `json:"air_date"`
	Recap                   string    `json:"recap"`
	QuickfireWinner         string    `json:"quickfire_winner,omitempty"`
	EliminationWinner       string    `json:"elimination_winner,omitempty"`
	EliminatedChef          string    `json:"eliminated_chef,omitempty"`
	LastChanceKitchenWinner string    `json:"last_chance_kitchen_winner,omitempty"`
	CreatedAt               time.Time `json:"created_at"`
}
