package adapter

import "errors"

var (
	// ErrCaptureUnavailable is returned when the capture pipeline cannot be
	// started or stops abnormally.
	ErrCaptureUnavailable = errors.New("capture unavailable")

	// ErrMalformedFrame is returned for a line that is neither a float array
	// nor a no-face marker.
	ErrMalformedFrame = errors.New("malformed frame")
)
