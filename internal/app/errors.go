package service

import "errors"

// Sentinel errors returned by the Service.
var (
	ErrNotStarted       = errors.New("service not started")
	ErrUnknownEventKind = errors.New("unknown event kind")
	ErrInvalidEvent     = errors.New("invalid event")
	ErrBackpressure     = errors.New("event queue is full")
)
