package errors

import (
	"errors"
)

// Sentinels for the failure taxonomy. Handlers map these onto HTTP statuses,
// everything else is treated as an internal fault and reported generically.
var (
	// ErrInvalidInput covers missing or empty resume/job-description text.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtraction covers unreadable or empty uploaded files.
	ErrExtraction = errors.New("extraction failed")

	// ErrProviderUnavailable covers remote model timeouts, rate limits and
	// outages. Callers should retry.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderResponse covers structurally invalid model output. Surfaced
	// instead of fabricating a score.
	ErrProviderResponse = errors.New("malformed provider response")

	// indicates an unrecoverable error
	ErrPermanentFailure = errors.New("permanent failure, do not retry")
)
