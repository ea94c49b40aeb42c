package pingsweep

import (
	"fmt"
	"net/netip"
	"time"
)

// Status is the classification of a single probe
type Status int

const (
	statusPending Status = iota
	Online
	Unreachable
	TimedOut
	Interrupted
	ProbeError
)

// AllStatuses lists the statuses an outcome can carry, in report order
var AllStatuses = []Status{Online, Unreachable, TimedOut, ProbeError, Interrupted}

func (s Status) String() string {
	switch s {
	case Online:
		return "online"
	case Unreachable:
		return "unreachable"
	case TimedOut:
		return "timed-out"
	case Interrupted:
		return "interrupted"
	case ProbeError:
		return "probe-error"
	default:
		return "pending"
	}
}

// MarshalText renders the status name in JSON output
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is what a Pinger reports for one probe
type Result struct {
	Status Status
	RTT    time.Duration
	// Code is the raw signal behind the status: an ICMP code or a process exit status
	Code   int
	Detail string
}

// Outcome is the classified result of probing one host
type Outcome struct {
	Addr   netip.Addr    `json:"ip"`
	Status Status        `json:"status"`
	RTT    time.Duration `json:"rtt,omitempty"`
	Code   int           `json:"code,omitempty"`
	Detail string        `json:"detail,omitempty"`
}

func (o Outcome) String() string {
	switch o.Status {
	case Online:
		return fmt.Sprintf("%s online (%s)", o.Addr, o.RTT)
	case ProbeError:
		return fmt.Sprintf("%s probe-error: %s (code %d)", o.Addr, o.Detail, o.Code)
	default:
		return fmt.Sprintf("%s %s", o.Addr, o.Status)
	}
}

func newOutcome(addr netip.Addr, result Result) Outcome {
	if result.Status == statusPending {
		result.Status = ProbeError
		if result.Detail == "" {
			result.Detail = "probe returned no status"
		}
	}
	return Outcome{
		Addr:   addr,
		Status: result.Status,
		RTT:    result.RTT,
		Code:   result.Code,
		Detail: result.Detail,
	}
}
