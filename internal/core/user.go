package core

import "time"

// User is the identity of a signed-in account.
type User struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata,omitempty"`
}

// MetadataString returns a string value from the user's metadata.
func (u User) MetadataString(key string) string {
	if u.Metadata == nil {
		return ""
	}
	s, _ := u.Metadata[key].(string)
	return s
}

// DisplayName picks the name shown in the status bar: the basic profile's
// full name, then the email, then "User".
func DisplayName(u *User, basic *BasicProfile) string {
	if basic != nil && basic.FullName != "" {
		return basic.FullName
	}
	if u == nil {
		return "User"
	}
	if u.Email != "" {
		return u.Email
	}
	return "User"
}

// Session is an authenticated identity-provider session.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Expired reports whether the access token is expired at now, allowing a
// small skew so that a token is refreshed before it is rejected.
func (s Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(30 * time.Second).Before(s.ExpiresAt)
}
