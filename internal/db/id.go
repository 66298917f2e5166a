package db

import "github.com/google/uuid"

// newID returns a time-ordered surrogate key for config rows.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
