package repositories

import "errors"

// ErrNotFound is returned when a requested record does not exist.
// Implementations wrap it with a message naming the missing record.
var ErrNotFound = errors.New("record not found")
