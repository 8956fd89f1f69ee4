package teams

// CreateTeamRequest represents the data needed to create a team.
// The creator becomes the team's first member.
type CreateTeamRequest struct {
	Name string `json:"name"`
}

// JoinTeamRequest joins the caller to the team holding the invite code.
type JoinTeamRequest struct {
	InviteCode string `json:"invite_code"`
}

// SaveRosterRequest replaces a team's chef roster outright.
type SaveRosterRequest struct {
	Chefs []string `json:"chefs"`
}
