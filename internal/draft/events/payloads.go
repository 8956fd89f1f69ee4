package events

import "time"

// Event payload types shared between the draft coordinator and the
// outbox relay.

// Event type names as they appear on outbox rows and stream subjects.
const (
	TypeDraftStarted   = "DraftStarted"
	TypeDraftEnded     = "DraftEnded"
	TypeDraftCompleted = "DraftCompleted"
	TypePickMade       = "PickMade"
)

// DraftStartedPayload is the payload for a DraftStarted event.
type DraftStartedPayload struct {
	Teams       int       `json:"teams"`
	TotalRounds int       `json:"total_rounds"`
	StartedAt   time.Time `json:"started_at"`
}

// DraftEndedPayload is the payload for a DraftEnded event (explicit
// administrative end, draft not necessarily complete).
type DraftEndedPayload struct {
	EndedAt    time.Time `json:"ended_at"`
	PicksSoFar int       `json:"picks_so_far"`
}

// DraftCompletedPayload is the payload for a DraftCompleted event
// (every round played out).
type DraftCompletedPayload struct {
	CompletedAt time.Time `json:"completed_at"`
	TotalPicks  int       `json:"total_picks"`
}

// PickMadePayload is the payload for a PickMade event.
type PickMadePayload struct {
	TeamID   string    `json:"team_id"`
	ChefID   string    `json:"chef_id"`
	Round    int       `json:"round"`
	Position int       `json:"position"`
	Overall  int       `json:"overall"`
	MadeAt   time.Time `json:"made_at"`
}
