package domain

import "errors"

// Sentinel errors surfaced to callers. NotFound errors are reported
// distinctly from empty history: a resident with no observations is a
// normal state yielding zero-valued aggregates, not an error.
var (
	ErrResidentNotFound    = errors.New("resident not found")
	ErrObservationNotFound = errors.New("observation not found")
	ErrWorkerNotFound      = errors.New("shift worker not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)
