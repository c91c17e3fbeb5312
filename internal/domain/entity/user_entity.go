package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for user domain
// PasswordHash holds a bcrypt hash, never the raw password.
// IsDeleted marks a soft-deleted account; such records still block reuse of
// their email and phone number.
type User struct {
	ID           string
	Username     string
	Email        string
	PhoneNumber  string
	FirstName    string
	LastName     string
	DateOfBirth  *time.Time
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	IsDeleted    bool
}

// FullName returns "{first} {last}".
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// DefaultDisplayName returns displayName when it is set and not blank,
// otherwise "{first} {last}".
func DefaultDisplayName(displayName *string, firstName, lastName string) string {
	if displayName != nil && strings.TrimSpace(*displayName) != "" {
		return *displayName
	}
	return firstName + " " + lastName
}
