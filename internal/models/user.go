package models

import (
	"time"
)

// User roles. Plain users log their own beers; managers and admins may
// record payments and write logs on behalf of anyone.
const (
	RoleUser    = "USER"
	RoleManager = "MANAGER"
	RoleAdmin   = "ADMIN"
)

type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Approved     bool      `json:"approved"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName is the name shown in rankings and the user directory.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// IsManagerOrAdmin reports whether the role carries the manager/admin
// capability required for ledger-mutating operations.
func IsManagerOrAdmin(role string) bool {
	return role == RoleManager || role == RoleAdmin
}

// Actor is the authenticated identity a request acts as. It is all the
// ledger core needs to know about authentication.
type Actor struct {
	UserID int64
	Role   string
}

// CanActFor reports whether the actor may read or write data belonging
// to ownerID: their own, or anyone's with the manager/admin capability.
func (a Actor) CanActFor(ownerID int64) bool {
	return a.UserID == ownerID || IsManagerOrAdmin(a.Role)
}
