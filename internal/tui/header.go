package tui

import (
	"time"

	"github.com/idilsaglam/todoclient/internal/model"
)

// headerView shows who is signed in and how to sign out.
func headerView(s model.Session, now time.Time) string {
	if !s.Authenticated() {
		return mutedStyle.Render("You are not logged in.")
	}
	line := "Welcome! " + accentStyle.Render(s.DisplayName())
	if s.ExpiresAt != nil && s.ExpiresAt.Before(now) {
		line += " " + pendingStyle.Render("(token expired)")
	}
	return line + "  " + helpStyle.Render("[ctrl+o] Sign out")
}
