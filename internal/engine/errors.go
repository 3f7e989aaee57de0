package engine

import (
	"errors"
	"fmt"

	"github.com/ckuhn/cardbox/internal/store"
)

// Engine error taxonomy. Callers match with errors.Is; the message
// carries the entity and id that failed.
var (
	// ErrNotFound is returned when a referenced deck or card does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for malformed input, such as an empty deck name.
	ErrValidation = errors.New("invalid input")

	// ErrCycle is returned when a deck move would make a deck its own ancestor.
	ErrCycle = errors.New("move would create a cycle")

	// ErrStoreBusy is returned when a store transaction timed out on
	// contention. The engine applies nothing on failure, so retrying
	// the whole command is always safe.
	ErrStoreBusy = errors.New("store busy")

	// ErrInvariant signals corrupted tree state, such as a parent chain
	// that revisits a deck. It indicates a bug in cascade logic and
	// should not be retried.
	ErrInvariant = errors.New("invariant violation")
)

func notFound(entity, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
}

// wrapStore translates store-level failures, surfacing contention as
// ErrStoreBusy. Store errors are never swallowed. Errors already
// carrying an engine tag pass through untouched.
func wrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrCycle) || errors.Is(err, ErrInvariant) {
		return err
	}
	if store.IsBusy(err) {
		return fmt.Errorf("%w: %s: %v", ErrStoreBusy, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
