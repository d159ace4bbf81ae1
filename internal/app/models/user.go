package models

import "time"

// RoleType defines a user's role
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleTeacher RoleType = "TEACHER"
	RoleSection RoleType = "SECTION"
)

// User represents an account able to authenticate against the API.
// SECTION users are bound to one section through section_users and see
// only that section's planning data.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never serialized
	Name      string    `json:"name" db:"name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Role      RoleType  `json:"role" db:"role" example:"SECTION"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
