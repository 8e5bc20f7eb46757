package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":       RoleAdmin,
		" Librarian ": RoleLibrarian,
		"CUSTOMER":    RoleCustomer,
	}
	for raw, want := range cases {
		got, ok := ParseRole(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "root", "staff", "admins"} {
		_, ok := ParseRole(raw)
		assert.False(t, ok, raw)
	}
}

func TestSectionAllows(t *testing.T) {
	tests := []struct {
		section Section
		role    Role
		allowed bool
	}{
		{SectionAdmin, RoleAdmin, true},
		{SectionAdmin, RoleLibrarian, false},
		{SectionAdmin, RoleCustomer, false},
		{SectionAdmin, "", false},
		{SectionLibrarian, RoleLibrarian, true},
		{SectionLibrarian, RoleAdmin, true},
		{SectionLibrarian, RoleCustomer, false},
		{SectionLibrarian, "", false},
		{SectionCustomer, RoleCustomer, true},
		{SectionCustomer, RoleLibrarian, true},
		{SectionCustomer, RoleAdmin, true},
		{SectionCustomer, "guest", false},
		{Section("reports"), RoleAdmin, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.section.Allows(tt.role), "%s/%s", tt.section, tt.role)
	}
}

func TestSessionAuthenticated(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.Authenticated())
	assert.False(t, (&Session{Role: RoleAdmin}).Authenticated())
	assert.False(t, (&Session{Token: "t", Role: "owner"}).Authenticated())
	assert.True(t, (&Session{Token: "t", Role: RoleCustomer}).Authenticated())
}
