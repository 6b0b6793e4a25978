package models

import "errors"

// Store backends translate their driver-specific conditions into these.
var (
	// ErrNotFound covers both a missing row and a row owned by someone else.
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken is returned when the username uniqueness constraint rejects an insert.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrConstraintViolation is returned when the store rejects a write for
	// violating a constraint or data rule other than username uniqueness.
	ErrConstraintViolation = errors.New("constraint violation")
)
