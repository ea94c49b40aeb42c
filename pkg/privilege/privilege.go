// Package privilege describes whether the current process may open raw
// ICMP sockets. The state is detected once by the caller and handed to the
// components that need it.
package privilege

import (
	"errors"
	"fmt"
)

// ErrPermissionDenied is returned when probing needs elevated privileges
// the process does not have.
var ErrPermissionDenied = errors.New("permission denied")

// State is a pre-validated privilege precondition
type State struct {
	Elevated bool
	// Reason explains how Elevated was decided
	Reason string
}

// Detect inspects the running process
func Detect() State {
	return detect()
}

// Assume returns an elevated state without checking, for callers that
// deliberately skip the check.
func Assume() State {
	return State{Elevated: true, Reason: "privilege check skipped"}
}

// Require fails with ErrPermissionDenied unless the state is elevated
func (s State) Require() error {
	if s.Elevated {
		return nil
	}
	return fmt.Errorf("%w: %s, you must have superuser powers, please try with `sudo` next time", ErrPermissionDenied, s.Reason)
}
