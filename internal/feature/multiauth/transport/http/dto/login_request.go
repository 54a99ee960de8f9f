// Package dto defines the request and response bodies of the multiauth HTTP transport.
package dto

// LoginReq is the request body of /login.
// Identifier and Email are alternatives; at least one must be set.
type LoginReq struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password" binding:"required"`
	Remember   bool   `json:"remember"`
}

// HasIdentifier reports whether any identifier field was supplied.
func (r LoginReq) HasIdentifier() bool {
	return r.Identifier != "" || r.Email != ""
}

// Credentials converts the request into a credential map. identifierKey is
// the configured identifier field; email is always carried as the fallback.
func (r LoginReq) Credentials(identifierKey string) map[string]string {
	creds := map[string]string{"password": r.Password}
	if r.Email != "" {
		creds["email"] = r.Email
	}
	if r.Identifier != "" && identifierKey != "" {
		creds[identifierKey] = r.Identifier
	}
	return creds
}

// TokenLoginReq is the request body of /login/token.
type TokenLoginReq struct {
	UserKey       string `json:"user_key" binding:"required"`
	RememberToken string `json:"remember_token" binding:"required"`
}
