package user

import "strings"

// Profile identifies the logged-in account. It is created at login, persisted
// locally across runs, and destroyed at sign-out. The email doubles as the
// user key scoping conversations and history on the backend.
type Profile struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// DisplayName returns the name shown on the dashboard.
func (p Profile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Email
	}
	return name
}
