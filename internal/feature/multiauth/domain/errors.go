// Package domain defines domain-level errors for the multiauth feature.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors for multi-entity authentication.
// Expected negative outcomes (wrong password, unknown identifier, token mismatch)
// are never reported through these; they surface as a nil user or false.
var (
	// ErrConfiguration indicates an invalid or incomplete entity configuration.
	// It is fatal at startup.
	ErrConfiguration = errors.New("invalid multiauth configuration")

	// ErrNoEntities is returned when an operation needs at least one configured entity.
	ErrNoEntities = fmt.Errorf("%w: no entities configured", ErrConfiguration)

	// ErrInvalidCredentials indicates the credential map carries no usable identifier field.
	ErrInvalidCredentials = errors.New("invalid user identifier")

	// ErrMalformedKey indicates a composite user key without a separator.
	ErrMalformedKey = errors.New("malformed user key")

	// ErrUnknownEntityType indicates a composite user key whose type is not registered.
	ErrUnknownEntityType = errors.New("unknown entity type")

	// ErrInvalidArgument indicates an argument that cannot be encoded unambiguously.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStorage marks failures coming from the record store.
	ErrStorage = errors.New("storage error")

	// ErrAuthFailed is the single outcome reported for any rejected login attempt.
	ErrAuthFailed = errors.New("invalid credentials")
)

// ConfigError reports a configuration problem tied to a specific key.
type ConfigError struct {
	Key string
	Msg string
}

func (e ConfigError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("missing config key '%s' in multiauth entity configuration", e.Key)
	}
	return fmt.Sprintf("multiauth config key '%s': %s", e.Key, e.Msg)
}

func (e ConfigError) Unwrap() error { return ErrConfiguration }

// StorageError wraps a record store failure with the operation that produced it.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStorage, e.Err)
}

// Is lets errors.Is match ErrStorage while Unwrap keeps the cause reachable.
func (e StorageError) Is(target error) bool { return target == ErrStorage }

func (e StorageError) Unwrap() error { return e.Err }

// IsConfiguration reports whether err represents ErrConfiguration.
func IsConfiguration(err error) bool { return errors.Is(err, ErrConfiguration) }

// IsStorage reports whether err came from the record store.
func IsStorage(err error) bool { return errors.Is(err, ErrStorage) }
