package models

import "time"

// PointsEntry is one line of a points history log: the delta a team or
// user earned from a single episode, and why.
type PointsEntry struct {
	EpisodeID  string    `json:"episode_id"`
	Episode    int       `json:"episode"`
	Points     int       `json:"points"`
	Reason     string    `json:"reason"`
	RecordedAt time.Time `json:"recorded_at"`
}
