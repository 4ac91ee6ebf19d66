// Package errs defines the core error taxonomy shared by every package in
// this module: precondition failures, database duplicate-key violations,
// FSM rejections, absence, and the boundary errors raised by serialization
// and transport.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is against these after wrapping with %w.
var (
	// ErrInvalidArgument marks a precondition violation: empty strings,
	// non-positive quantities, mismatched currencies, wrong timezones.
	// Fail-fast; never caught internally.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateKey marks insertion of an already-present identifier into
	// the execution database.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidStateTrigger marks an FSM transition the current state does
	// not allow. Caught inside the execution engine's event path; logged;
	// never propagated out of handle_event.
	ErrInvalidStateTrigger = errors.New("invalid state trigger")

	// ErrNotFound marks a queried identifier absent from an index.
	ErrNotFound = errors.New("not found")

	// ErrSerialization marks a message that cannot be encoded/decoded.
	// Propagated to the caller at the transport boundary.
	ErrSerialization = errors.New("serialization error")

	// ErrTransport marks a network error from the external messaging layer.
	ErrTransport = errors.New("transport error")

	// ErrNoHandler marks a timer/alert registered with neither an explicit
	// handler nor a registered clock default.
	ErrNoHandler = errors.New("no handler")
)

// InvalidArgument wraps ErrInvalidArgument with a description.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// DuplicateKey wraps ErrDuplicateKey with the offending key.
func DuplicateKey(kind, key string) error {
	return fmt.Errorf("%w: %s %q already exists", ErrDuplicateKey, kind, key)
}

// InvalidStateTrigger wraps ErrInvalidStateTrigger with transition context.
func InvalidStateTrigger(from, eventKind string) error {
	return fmt.Errorf("%w: no transition from %s on event %s", ErrInvalidStateTrigger, from, eventKind)
}

// NotFound wraps ErrNotFound with the offending key.
func NotFound(kind, key string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, key)
}

// Serialization wraps ErrSerialization with the underlying cause.
func Serialization(cause error) error {
	return fmt.Errorf("%w: %v", ErrSerialization, cause)
}

// Transport wraps ErrTransport with the underlying cause.
func Transport(cause error) error {
	return fmt.Errorf("%w: %v", ErrTransport, cause)
}

// NoHandler wraps ErrNoHandler with the offending timer/alert name.
func NoHandler(name string) error {
	return fmt.Errorf("%w: %q has no handler and no clock default is registered", ErrNoHandler, name)
}
