package draft

import "chefdraft/internal/models"

// SetOrderRequest replaces the draft configuration ahead of a season.
type SetOrderRequest struct {
	Order       []string `json:"order"`
	TotalRounds int      `json:"total_rounds"`
}

// PickRequest records a chef selection for the team on the clock.
type PickRequest struct {
	TeamID string `json:"team_id"`
	ChefID string `json:"chef_id"`
}

// PickResult is the state after a committed pick. RosterSynced is false
// when the pick committed but the team roster update did not; Reconcile
// repairs that.
type PickResult struct {
	Draft        *models.DraftSettings `json:"draft"`
	Completed    bool                  `json:"completed"`
	RosterSynced bool                  `json:"roster_synced"`
}

// Snapshot is the read-side view of the draft.
type Snapshot struct {
	Draft    *models.DraftSettings `json:"draft"`
	OnClock  string                `json:"on_clock,omitempty"`
	Complete bool                  `json:"complete"`
}

// ReconcileResult reports what a repair pass had to fix.
type ReconcileResult struct {
	RostersRepaired     int `json:"rosters_repaired"`
	AssignmentsRepaired int `json:"assignments_repaired"`
}
