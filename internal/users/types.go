package users

// NewProfileRequest carries identity-provider attributes for the lazy
// profile creation on first sign-in.
type NewProfileRequest struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photo_url"`
}

// UpdateChefsRequest replaces the legacy direct-select chef list.
type UpdateChefsRequest struct {
	Chefs []string `json:"chefs"`
}
