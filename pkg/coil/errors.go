package coil

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks degenerate or inconsistent geometry. It aborts
	// a run before anything is emitted.
	ErrConfiguration = errors.New("coil: configuration error")

	// ErrPadNotFound is returned by PadLocator implementations.
	ErrPadNotFound = errors.New("coil: pad not found")

	// ErrNetNotFound is returned by NetResolver implementations.
	ErrNetNotFound = errors.New("coil: net not found")

	// ErrDesignStore is returned by Sink and Clearer implementations.
	ErrDesignStore = errors.New("coil: design store error")
)

// ConfigError describes which input made the geometry invalid.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("coil: invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// PhaseError is the failure of a single phase.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("phase %s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// PartialError reports a run in which some phases were written and others
// failed. A winding with a missing phase is structurally wrong, so callers
// must treat this as a failure even though geometry was emitted.
type PartialError struct {
	Completed []string
	Failed    []*PhaseError
}

func (e *PartialError) Error() string {
	msgs := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("coil: %d of %d phases failed: %s",
		len(e.Failed), len(e.Failed)+len(e.Completed), strings.Join(msgs, "; "))
}

func (e *PartialError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		errs[i] = f
	}
	return errs
}
