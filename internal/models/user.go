package models

import "time"

// UserProfile mirrors an identity-provider account inside the league.
// Created lazily the first time an authenticated user is seen.
//
// Chefs is the legacy direct-select list from before teams existed.
// Whenever TeamID is set the team roster is authoritative instead.
type UserProfile struct {
	ID          string        `json:"id"`
	DisplayName string        `json:"display_name"`
	Email       string        `json:"email"`
	PhotoURL    string        `json:"photo_url"`
	TeamID      *string       `json:"team_id,omitempty"`
	Chefs       []string      `json:"chefs"`
	Points      int           `json:"points"`
	History     []PointsEntry `json:"history"`
	Admin       bool          `json:"admin"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
