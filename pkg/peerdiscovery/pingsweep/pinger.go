package pingsweep

import (
	"context"
	"errors"
	"net/netip"
)

// Pinger sends one reachability probe. Implementations must honor the
// deadline and cancellation of ctx.
type Pinger interface {
	Ping(ctx context.Context, addr netip.Addr) Result
}

// PingerFunc adapts a function to the Pinger interface
type PingerFunc func(ctx context.Context, addr netip.Addr) Result

// Ping calls f(ctx, addr)
func (f PingerFunc) Ping(ctx context.Context, addr netip.Addr) Result {
	return f(ctx, addr)
}

// fromContext maps a finished probe context to a status: its own deadline
// means the host never answered, anything else is an operator cancel.
func fromContext(ctx context.Context) Result {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Result{Status: TimedOut}
	}
	return Result{Status: Interrupted}
}
