package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound  = errors.New("subject not found")
	ErrDuplicate = errors.New("subject already exists")
)
