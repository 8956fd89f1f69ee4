package models

import "time"

// DraftDocID addresses the single shared draft record per season.
const DraftDocID = "settings"

// DraftPick is one recorded turn of the draft. ChefID is empty for
// historical skip entries; live skips do not append a record at all.
type DraftPick struct {
	Position  int       `json:"position"`
	Round     int       `json:"round"`
	TeamID    string    `json:"team_id"`
	ChefID    string    `json:"chef_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DraftSettings is the single shared draft record: the fixed team
// order, the live cursor (round, position), and every pick made so far.
//
// CurrentPosition always walks forward 0..len(Order)-1 within a round;
// only the mapping from position to team flips on even rounds (snake).
type DraftSettings struct {
	ID              string      `json:"id"`
	Order           []string    `json:"order"`
	IsActive        bool        `json:"is_active"`
	CurrentPosition int         `json:"current_position"`
	Round           int         `json:"round"`
	TotalRounds     int         `json:"total_rounds"`
	Picks           []DraftPick `json:"picks"`
	StartTime       *time.Time  `json:"start_time,omitempty"`
	EndTime         *time.Time  `json:"end_time,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// TeamIndex maps a position within a round onto an index into Order.
// Odd rounds traverse forward, even rounds backward.
func TeamIndex(round, position, numTeams int) int {
	if round%2 == 0 {
		return numTeams - 1 - position
	}
	return position
}

// TeamOnClock returns the team whose turn it is to pick. ok is false
// when no order is configured.
func (d *DraftSettings) TeamOnClock() (string, bool) {
	n := len(d.Order)
	if n == 0 || d.CurrentPosition < 0 || d.CurrentPosition >= n {
		return "", false
	}
	return d.Order[TeamIndex(d.Round, d.CurrentPosition, n)], true
}

// ChefDrafted reports whether the chef appears in a non-skip pick.
func (d *DraftSettings) ChefDrafted(chefID string) bool {
	for _, p := range d.Picks {
		if p.ChefID != "" && p.ChefID == chefID {
			return true
		}
	}
	return false
}

// Complete reports whether every round has been played out.
func (d *DraftSettings) Complete() bool {
	return d.Round > d.TotalRounds
}
