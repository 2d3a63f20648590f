package types

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is absence. Read paths treat it as a valid outcome (empty
	// result); replace/delete of a missing document surface it as an error.
	ErrNotFound = errors.New("not found")
	// ErrConflict is an id collision on insert, or a replace that lost a race
	// with a concurrent delete.
	ErrConflict = errors.New("conflict")
	// ErrThrottled is a rate limit from the store. The gateway retries with
	// backoff before surfacing it; stores never retry.
	ErrThrottled = errors.New("throttled")
	// ErrUnavailable is connectivity loss or a timed-out call.
	ErrUnavailable = errors.New("store unavailable")
	// ErrInvalidEntity is a model or document that cannot be mapped losslessly.
	ErrInvalidEntity = errors.New("invalid entity")

	ErrInvalidConfig = errors.New("invalid config")
)

func Err(typedError error, innerErr error, msgTemplate string, args ...any) error {
	if msgTemplate == "" {
		return errors.Join(typedError, innerErr)
	} else {
		return errors.Join(typedError, innerErr, fmt.Errorf(msgTemplate, args...))
	}
}
