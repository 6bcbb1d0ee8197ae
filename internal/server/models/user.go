// Package models defines the server-side domain types of gotodo.
package models

import "time"

// Column limits of the users table, in characters.
const (
	MaxUserNameLen = 150
	MaxEmailLen    = 150
)

// User is a registered account. Password holds a bcrypt hash, never the
// plaintext.
type User struct {
	ID        int64
	UserName  string
	Email     string
	Password  string
	CreatedAt time.Time
}
