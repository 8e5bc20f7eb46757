package domain

import "time"

// Storage field names for a session record. They mirror the keys the browser
// front end used to keep in local storage and cookies.
const (
	FieldUserToken      = "user_token"
	FieldUserRole       = "user_role"
	FieldDeviceID       = "device_id"
	FieldUserEmail      = "user_email"
	FieldLibrarianEmail = "librarian_email"
	FieldLibrarianToken = "librarian_token"
	FieldLastActivity   = "last_activity"
	FieldUserID         = "user_id"
	FieldCreatedAt      = "created_at"
)

// Session is the server-side record behind a signed session token.
type Session struct {
	ID           string
	UserID       string
	Token        string
	Role         Role
	DeviceID     string
	Email        string
	SectionEmail string
	SectionToken string
	CreatedAt    time.Time
	LastActivity time.Time
}

// Authenticated reports whether the session carries a usable identity.
func (s *Session) Authenticated() bool {
	if s == nil || s.Token == "" {
		return false
	}
	_, ok := ParseRole(string(s.Role))
	return ok
}
