package domain

import (
	"strings"
	"time"
)

// Role distinguishes administrators from cafeteria clients.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleClient Role = "CLIENT"
)

// User is the domain model for cafeteria accounts.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Subject is the normalized identifier the user authenticates under.
// Session keys and broadcast payloads always carry this form.
func (u *User) Subject() string {
	return NormalizeSubject(u.Email)
}

// NormalizeSubject lower-cases and trims an identifier (typically an email).
func NormalizeSubject(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}
