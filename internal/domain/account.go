package domain

import "time"

// Role enumerates login identities. The set is closed; every
// access-control site switches exhaustively over it.
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// Valid reports whether the role is a known member.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleAdmin:
		return true
	default:
		return false
	}
}

// Account is a login identity. A client account references exactly one
// case; an admin account references none.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CaseID       *string
	Active       bool
	CreatedAt    time.Time
}
