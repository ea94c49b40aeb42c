//go:build !windows
// +build !windows

package privilege

import (
	"fmt"
	"os"

	envutil "github.com/projectdiscovery/utils/env"
)

// detect treats root and sudo-launched processes as elevated
func detect() State {
	return fromIDs(os.Geteuid(), envutil.GetEnvOrDefault("SUDO_UID", ""))
}

func fromIDs(euid int, sudoUID string) State {
	if euid == 0 {
		return State{Elevated: true, Reason: "running as root"}
	}
	if sudoUID != "" {
		return State{Elevated: true, Reason: "running under sudo (SUDO_UID=" + sudoUID + ")"}
	}
	return State{Reason: fmt.Sprintf("effective uid is %d", euid)}
}
