package webhook

import (
	"errors"
	"fmt"
)

// Retryable failure conditions. Both represent races against prerequisite
// state that has not arrived yet, not data corruption, so the queue may safely
// re-attempt them. Every other error is permanent: it still exhausts the
// attempt ceiling but is not expected to resolve itself.
var (
	// ErrEntityNotFound: the referenced domain entity has not been created
	// yet. Expected under normal operation because creation and follow-up
	// notifications race across independent delivery channels.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrOutOfSequence: the validator rejected the transition because a
	// prerequisite event has not been applied yet.
	ErrOutOfSequence = errors.New("event out of sequence")
)

// NotFound wraps ErrEntityNotFound with the lookup key that missed.
func NotFound(entityType, key string) error {
	return fmt.Errorf("%s %q: %w", entityType, key, ErrEntityNotFound)
}

// OutOfSequence wraps ErrOutOfSequence with the validator's reason.
func OutOfSequence(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrOutOfSequence)
}

// IsRetryable reports whether the error is one of the two conditions the
// queue may re-attempt automatically.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrEntityNotFound) || errors.Is(err, ErrOutOfSequence)
}
