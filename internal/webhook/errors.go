package webhook

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedPayload    = errors.New("malformed webhook payload")
	ErrWorkPackageNotFound = errors.New("work package not found")
	ErrJournalWriteFailed  = errors.New("journal write failed")
	ErrDeliveryInFlight    = errors.New("delivery already in flight")
	ErrDeliveryFailed      = errors.New("delivery failed")
	ErrMissingActor        = errors.New("acting user is required")
)

// MalformedPayloadError names the field a recognized event was missing.
type MalformedPayloadError struct {
	EventType string
	Field     string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed %s payload: missing %s", e.EventType, e.Field)
}

func (e *MalformedPayloadError) Unwrap() error {
	return ErrMalformedPayload
}
