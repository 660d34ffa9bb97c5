package domain

import (
	"slices"
	"strings"
	"time"
)

// User is a seeded account, identified by its email.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserKey is the natural key of a User.
type UserKey struct {
	Email string
}

// NormalizeEmail lower-cases and trims an email so keys compare case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser creates a new User instance
func NewUser(email, username, passwordHash string, roles []string) *User {
	now := time.Now()
	return &User{
		Email:        NormalizeEmail(email),
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		Roles:        NormalizeRoles(roles),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Key returns the natural key of the user.
func (u *User) Key() UserKey {
	return UserKey{Email: u.Email}
}

// Validate validates the user
func (u *User) Validate() error {
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return NewValidationError("user email is required and must contain @")
	}
	if u.Username == "" {
		return NewValidationError("username is required")
	}
	if u.PasswordHash == "" {
		return NewValidationError("password is required")
	}
	return nil
}

// NormalizeRoles turns roles into a sorted set. ROLE_USER is always present.
func NormalizeRoles(roles []string) []string {
	set := []string{"ROLE_USER"}
	for _, r := range roles {
		r = strings.ToUpper(strings.TrimSpace(r))
		if r == "" || slices.Contains(set, r) {
			continue
		}
		set = append(set, r)
	}
	slices.Sort(set)
	return set
}
