package service

import "errors"

var (
	// ErrAccessDenied is returned by [RequireAccess] for a rejected session.
	ErrAccessDenied = errors.New("access denied")
)
