package repository

import "errors"

// Sentinel errors for snapshot storage.
var (
	ErrNotFound        = errors.New("snapshot not found")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
