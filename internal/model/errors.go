package model

import (
	"errors"
	"fmt"
)

// ErrNoColorsDetected is reported when none of the requested colors produced
// any mask pixels. Recoverable: the caller receives an empty result with a
// warning, never a failed call.
var ErrNoColorsDetected = errors.New("no requested colors detected in image")

// ErrBackendUnreachable marks a backend that failed its health probe or
// produced a malformed response. The orchestrator reacts by advancing to the
// next backend in priority order.
var ErrBackendUnreachable = errors.New("extraction backend unreachable")

// DecodeError reports unreadable image bytes. Fatal: every backend would
// fail the same way, so no fallback is attempted.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ConfigError reports an invalid GraphAxisConfig. Fatal and reported to the
// caller; retrying on another backend cannot fix bad axis bounds.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid axis config: %s %s", e.Field, e.Reason)
}

// IsFatal reports whether err must abort the whole call instead of
// triggering backend fallback.
func IsFatal(err error) bool {
	var de *DecodeError
	var ce *ConfigError
	return errors.As(err, &de) || errors.As(err, &ce)
}
