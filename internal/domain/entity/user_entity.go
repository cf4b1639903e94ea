package entity

import (
	"time"
)

// User is the aggregate root for the user admin domain.
// Password holds the bcrypt hash and is never exposed to clients.
// Avatar is a blob store key; empty means no custom avatar.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Avatar    string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
