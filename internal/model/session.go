package model

import "time"

// Session is the signed-in identity held by the client for the lifetime of
// the process. The zero value means nobody is signed in.
type Session struct {
	Username    string
	Name        string
	AccessToken string
	// ExpiresAt is read from the token's exp claim, when it has one.
	// Informational only.
	ExpiresAt *time.Time
}

func (s Session) Authenticated() bool { return s.Username != "" }

// DisplayName is "username - name", or just the username when name is empty.
func (s Session) DisplayName() string {
	if s.Name == "" {
		return s.Username
	}
	return s.Username + " - " + s.Name
}
