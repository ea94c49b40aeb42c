//go:build windows
// +build windows

package privilege

import (
	"golang.org/x/sys/windows"
)

// detect checks whether the process token is elevated (run as administrator)
func detect() State {
	token := windows.GetCurrentProcessToken()
	if token.IsElevated() {
		return State{Elevated: true, Reason: "elevated process token"}
	}
	return State{Reason: "process token is not elevated"}
}
