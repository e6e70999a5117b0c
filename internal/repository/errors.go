// Package repository implements data access over MySQL for both the
// marketplace and ticketing services.  Sentinel errors declared here are
// shared across repositories so handlers can map failure categories to
// HTTP statuses without inspecting SQL details.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a row the caller asked for does not exist,
// or exists but is owned by someone else.  Handlers translate this into
// an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by user creation when the email is already
// registered.  The marketplace maps it to HTTP 400 per its API contract.
var ErrEmailExists = errors.New("email already exists")

// SeatsTakenError reports the seat numbers that could not be booked
// because another confirmation already flagged them.  It unwraps to
// ErrConflict so errors.Is(err, ErrConflict) holds.
type SeatsTakenError struct {
	SeatNos []uint32
}

func (e *SeatsTakenError) Error() string {
	return fmt.Sprintf("seats already booked: %v", e.SeatNos)
}

func (e *SeatsTakenError) Unwrap() error { return ErrConflict }
