package gamification

import "errors"

// Sentinel errors for badge catalogs.
var (
	ErrInvalidThreshold   = errors.New("hour threshold must be positive")
	ErrDuplicateThreshold = errors.New("duplicate hour threshold")
)
