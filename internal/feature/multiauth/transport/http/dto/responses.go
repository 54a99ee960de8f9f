package dto

// LoginResp is returned by both login endpoints.
type LoginResp struct {
	Token         string `json:"token"`
	UserKey       string `json:"user_key"`
	RememberToken string `json:"remember_token,omitempty"`
}

// MeResp describes the authenticated user.
type MeResp struct {
	UserKey string `json:"user_key"`
	Type    string `json:"type"`
}

// AvailabilityResp is returned by /identifiers/available.
type AvailabilityResp struct {
	Available bool `json:"available"`
}

// ErrorResp is the body of every error response.
type ErrorResp struct {
	Error string `json:"error"`
}
