// Package repository defines error values that are reused across the
// repositories. These sentinels allow callers to distinguish failure
// scenarios without inspecting driver errors: ErrNotFound maps to an
// HTTP 404, ErrInvalidTransition to a 400, and ErrEmailExists tells the
// admin seeder the account is already provisioned.
package repository

import "errors"

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a user insert collides with the
// unique email index.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidTransition is returned when a status update would violate
// the order lifecycle progression. The check runs inside the update
// transaction so concurrent writers cannot race past it.
var ErrInvalidTransition = errors.New("invalid status transition")
