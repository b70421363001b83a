package domain

import "time"

// Question is a quiz question assigned to zero or more categories.
// CategoryNames is a read-side projection populated by list queries; it is
// not persisted on the question itself.
type Question struct {
	ID            string
	Text          string
	CategoryIDs   []string
	CategoryNames []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
