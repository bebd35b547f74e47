package repository

import "errors"

// Storage-level errors. Implementations translate driver errors into these.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)
