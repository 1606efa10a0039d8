package model

import "time"

// Role names stored in the `users.role` column. Roles are assigned at
// registration/seed time and never change in this service; the
// authentication middleware reloads the user on every request so a
// removed account loses access immediately.
const (
	RoleAdmin    = "admin"    // back-office staff, full order control
	RoleCustomer = "customer" // may only see orders they own
	RoleFactory  = "factory"  // factory floor, status queries + suggestions
)

// ValidRole reports whether s is one of the known role names.
func ValidRole(s string) bool {
	switch s {
	case RoleAdmin, RoleCustomer, RoleFactory:
		return true
	}
	return false
}

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the database.
// The json tags are omitted here because these structs are primarily
// used by the repository layer; handlers define separate response
// types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique email address (stored lower-cased).
//  PasswordHash – bcrypt hashed password.
//  Role         – one of admin, customer, factory.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
