// Package core implements the version catalog and its query engines.
package core

import (
	"errors"
	"fmt"
)

// ErrUnknownVersion is returned when a queried version has no entry in the
// catalog at its own level.
var ErrUnknownVersion = errors.New("unknown version")

// UnknownVersionError wraps ErrUnknownVersion with the version string the
// caller asked about, exactly as it was passed in. Queries that fail with
// it may succeed later as new versions are announced and released.
type UnknownVersionError struct {
	Version string
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("unknown version: %q", e.Version)
}

func (e *UnknownVersionError) Unwrap() error {
	return ErrUnknownVersion
}
