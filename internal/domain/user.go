package domain

import (
	"time"
)

// Role represents a user role from the fixed application set
type Role string

const (
	RoleUser    Role = "USER"
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
)

// Authority returns the wire label used in responses and claims, e.g. "ROLE_USER"
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

// ParseRole maps a stored or claimed label back to a Role. It accepts both the
// bare name and the ROLE_ prefixed authority form.
func ParseRole(s string) (Role, bool) {
	if len(s) > 5 && s[:5] == "ROLE_" {
		s = s[5:]
	}
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleManager:
		return Role(s), true
	}
	return "", false
}

// User represents a registered marketplace account
type User struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"` // Never serialize password
	NIM              string    `json:"nim"`
	Phone            string    `json:"phone"`
	Jurusan          string    `json:"jurusan"`
	VerifiedBinusian bool      `json:"verifiedBinusian"`
	Roles            []Role    `json:"roles"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasRole reports whether the user holds the given role
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Authorities returns the prefixed role labels for responses
func (u *User) Authorities() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Authority())
	}
	return out
}
