package gateway

import "context"

// Response is the provider's answer to a signup or password login.
// ExpiresIn arrives as a string-encoded number of seconds and must be
// parsed before use.
type Response struct {
	IDToken      string `json:"idToken"`
	Email        string `json:"email"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
	Registered   bool   `json:"registered,omitempty"`
}

// Gateway performs credential calls against an identity provider.
// Implementations return identity facts only and make no auth
// decisions. They do not retry; rejections surface as *Failure.
type Gateway interface {
	// Name returns the gateway identifier (e.g. "identitytoolkit", "local").
	Name() string

	SignUp(ctx context.Context, email, password string) (*Response, error)
	LogIn(ctx context.Context, email, password string) (*Response, error)
}
