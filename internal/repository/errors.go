package repository

import "errors"

var (
	// ErrNotFound is returned when no record matches the given lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert or update violates a
	// uniqueness constraint.
	ErrDuplicate = errors.New("record already exists")
)
