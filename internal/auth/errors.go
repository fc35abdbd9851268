package auth

import "errors"

var (
	// ErrNotStarted is returned by Tick and Poll before Start.
	ErrNotStarted = errors.New("auth session not started")

	// ErrInvalidConfig is returned by NewSession for non-positive limits.
	ErrInvalidConfig = errors.New("invalid auth session config")
)
