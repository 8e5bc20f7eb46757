package domain

import "strings"

// Role gates which dashboard shell a user may view.
type Role string

const (
	RoleCustomer  Role = "customer"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
)

// ParseRole normalizes a stored role value. Unknown values report false.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleLibrarian:
		return RoleLibrarian, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

func (r Role) String() string {
	return string(r)
}

// Section is a protected area of the application with its own dashboard shell.
type Section string

const (
	SectionAdmin     Section = "admin"
	SectionLibrarian Section = "librarian"
	SectionCustomer  Section = "customer"
)

// Allows reports whether role r may enter section s.
func (s Section) Allows(r Role) bool {
	switch s {
	case SectionAdmin:
		return r == RoleAdmin
	case SectionLibrarian:
		return r == RoleLibrarian || r == RoleAdmin
	case SectionCustomer:
		_, ok := ParseRole(string(r))
		return ok
	default:
		return false
	}
}
