// Package models holds server-side persistence types that never leave the
// process. Wire types live in internal/domain.
package models

import (
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/domain"
)

// User is a registered account with its bcrypt password hash.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Public strips the password hash; token is attached by the caller.
func (u *User) Public(token string) domain.User {
	return domain.User{ID: u.ID, Name: u.Name, Email: u.Email, Token: token}
}
