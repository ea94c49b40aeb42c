package pingsweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/netip"
	"os/exec"
	"strconv"
	"syscall"
	"time"

	osutils "github.com/projectdiscovery/utils/os"
)

// DefaultExitCodes maps the exit status of the OS ping utility to a status.
// 0 is always Online. iputils and BSD ping exit with 1 when no reply was
// received; any status not listed becomes a ProbeError carrying the code.
var DefaultExitCodes = map[int]Status{
	1: Unreachable,
}

// ExecPinger probes through the OS ping utility and classifies the probe by
// its exit status, never by its output text.
type ExecPinger struct {
	Path      string
	ExitCodes map[int]Status
}

// NewExecPinger locates the ping utility in PATH
func NewExecPinger() (*ExecPinger, error) {
	path, err := exec.LookPath("ping")
	if err != nil {
		return nil, fmt.Errorf("could not find ping utility: %w", err)
	}
	return &ExecPinger{Path: path, ExitCodes: DefaultExitCodes}, nil
}

// Ping runs a single echo request bounded by the deadline of ctx
func (p *ExecPinger) Ping(ctx context.Context, addr netip.Addr) Result {
	timeout := DefaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, p.Path, pingArgs(addr, timeout)...)
	err := cmd.Run()
	return p.classify(ctx, err, time.Since(start))
}

// classify maps the outcome of one ping process to a Result
func (p *ExecPinger) classify(ctx context.Context, err error, elapsed time.Duration) Result {
	if err == nil {
		return Result{Status: Online, RTT: elapsed}
	}
	// the process was killed because ctx ended
	if ctx.Err() != nil {
		return fromContext(ctx)
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return Result{Status: ProbeError, Code: -1, Detail: err.Error()}
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		if status.Signal() == syscall.SIGINT {
			return Result{Status: Interrupted}
		}
		return Result{Status: ProbeError, Code: int(status.Signal()), Detail: "ping killed by signal " + status.Signal().String()}
	}

	code := exitErr.ExitCode()
	exitCodes := p.ExitCodes
	if exitCodes == nil {
		exitCodes = DefaultExitCodes
	}
	if status, ok := exitCodes[code]; ok {
		return Result{Status: status, Code: code}
	}
	return Result{Status: ProbeError, Code: code, Detail: "ping exited with status " + strconv.Itoa(code)}
}

// pingArgs builds a single-probe command line for the current OS
func pingArgs(addr netip.Addr, timeout time.Duration) []string {
	switch {
	case osutils.IsWindows():
		// -w is in milliseconds
		return []string{"-n", "1", "-w", strconv.FormatInt(max(timeout.Milliseconds(), 1), 10), addr.String()}
	case osutils.IsOSX():
		// -W is in milliseconds on macOS
		return []string{"-c", "1", "-W", strconv.FormatInt(max(timeout.Milliseconds(), 1), 10), addr.String()}
	default:
		// iputils -W is in whole seconds
		seconds := int(math.Ceil(timeout.Seconds()))
		return []string{"-c", "1", "-W", strconv.Itoa(max(seconds, 1)), addr.String()}
	}
}
