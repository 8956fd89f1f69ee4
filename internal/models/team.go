package models

import "time"

// Team is a group of users sharing one drafted roster of chefs.
// Membership is set-like: a user appears in MemberIDs at most once.
type Team struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	MemberIDs  []string      `json:"member_ids"`
	Chefs      []string      `json:"chefs"`
	Points     int           `json:"points"`
	History    []PointsEntry `json:"history"`
	InviteCode string        `json:"invite_code"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// HasMember reports whether the user belongs to the team.
func (t *Team) HasMember(userID string) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HasChef reports whether the chef is already on the roster.
func (t *Team) HasChef(chefID string) bool {
	for _, id := range t.Chefs {
		if id == chefID {
			return true
		}
	}
	return false
}
