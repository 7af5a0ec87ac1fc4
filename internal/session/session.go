package session

import "time"

// Session is the locally held record of one authenticated principal.
// ExpirationDate is fixed at creation time and never recomputed.
type Session struct {
	Email          string    `json:"email"`
	UserID         string    `json:"userId"`
	Token          string    `json:"token"`
	RefreshToken   string    `json:"refreshToken"`
	ExpirationDate time.Time `json:"expirationDate"`
}

// New builds a session that expires lifetime after issuedAt.
func New(email, userID, token, refreshToken string, issuedAt time.Time, lifetime time.Duration) Session {
	return Session{
		Email:          email,
		UserID:         userID,
		Token:          token,
		RefreshToken:   refreshToken,
		ExpirationDate: issuedAt.Add(lifetime),
	}
}

// IsValid reports whether the token is still usable at now. This is the
// only gate deciding whether a restored session may be used.
func (s Session) IsValid(now time.Time) bool {
	return now.Before(s.ExpirationDate)
}
