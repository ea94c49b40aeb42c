package pingsweep

import (
	"context"
	"fmt"
	"iter"
	"net/netip"
	"time"

	"github.com/projectdiscovery/gologger"
	syncutil "github.com/projectdiscovery/utils/sync"
)

const (
	// DefaultTimeout bounds a single probe
	DefaultTimeout = time.Second
	// DefaultConcurrency is the number of probes in flight at once
	DefaultConcurrency = 64
)

// Options tunes a Prober
type Options struct {
	// Timeout is the deadline of each probe attempt
	Timeout time.Duration
	// Concurrency is the width of the worker pool
	Concurrency int
	// Retries re-probes timed out hosts up to this many extra times
	Retries int
	// OnResult receives every completed outcome as it is produced, from a
	// single goroutine. Interrupted hosts are not passed to it.
	OnResult func(Outcome)
}

// Option mutates Options
type Option func(*Options)

// WithTimeout sets the per-probe deadline
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) { o.Timeout = timeout }
}

// WithConcurrency sets the worker pool width
func WithConcurrency(n int) Option {
	return func(o *Options) { o.Concurrency = n }
}

// WithRetries sets the number of extra attempts for timed out hosts
func WithRetries(n int) Option {
	return func(o *Options) { o.Retries = n }
}

// WithOnResult streams outcomes to fn while the scan runs
func WithOnResult(fn func(Outcome)) Option {
	return func(o *Options) { o.OnResult = fn }
}

// Prober probes hosts concurrently through a Pinger
type Prober struct {
	pinger  Pinger
	options Options
}

// New returns a prober using pinger. Invalid options fall back to defaults.
func New(pinger Pinger, opts ...Option) *Prober {
	options := Options{
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}
	if options.Concurrency < 1 {
		options.Concurrency = 1
	}
	if options.Retries < 0 {
		options.Retries = 0
	}
	return &Prober{pinger: pinger, options: options}
}

// Options returns the effective options
func (p *Prober) Options() Options {
	return p.options
}

// Scan probes every address yielded by hosts exactly once and returns the
// session once all launched probes have resolved. A cancelled ctx is not an
// error: the returned session is marked interrupted and keeps the outcomes
// already collected.
func (p *Prober) Scan(ctx context.Context, hosts iter.Seq[netip.Addr]) (*Session, error) {
	awg, err := syncutil.New(syncutil.WithSize(p.options.Concurrency))
	if err != nil {
		return nil, fmt.Errorf("failed to create adaptive waitgroup: %w", err)
	}

	session := newSession()
	gologger.Verbose().Msgf("scan %s started (concurrency %d, timeout %s)", session.ID, p.options.Concurrency, p.options.Timeout)

	emitted := make(chan Outcome, p.options.Concurrency)
	emitterDone := make(chan struct{})
	go func() {
		defer close(emitterDone)
		for outcome := range emitted {
			if p.options.OnResult != nil {
				p.options.OnResult(outcome)
			}
		}
	}()

	for addr := range hosts {
		if ctx.Err() != nil {
			session.skip()
			continue
		}
		if !session.reserve(addr) {
			continue
		}

		awg.Add()
		// a slot may free up only after the cancel
		if ctx.Err() != nil {
			awg.Done()
			session.unreserve(addr)
			session.skip()
			continue
		}

		go func(addr netip.Addr) {
			defer awg.Done()

			outcome := p.probe(ctx, addr)
			session.record(outcome)
			if outcome.Status != Interrupted {
				emitted <- outcome
			}
		}(addr)
	}

	awg.Wait()
	close(emitted)
	<-emitterDone

	interrupted := ctx.Err() != nil
	session.finish(interrupted)
	gologger.Verbose().Msgf("scan %s %s in %s", session.ID, session.Status, session.Elapsed())
	return session, nil
}

// probe runs up to 1+Retries attempts against addr
func (p *Prober) probe(ctx context.Context, addr netip.Addr) Outcome {
	var result Result
	for attempt := 0; attempt <= p.options.Retries; attempt++ {
		if ctx.Err() != nil {
			return Outcome{Addr: addr, Status: Interrupted}
		}
		result = p.attempt(ctx, addr)
		// results completing after the cancel are discarded
		if ctx.Err() != nil {
			return Outcome{Addr: addr, Status: Interrupted}
		}
		if result.Status != TimedOut {
			break
		}
		if attempt < p.options.Retries {
			gologger.Debug().Msgf("%s timed out, retrying (%d/%d)", addr, attempt+1, p.options.Retries)
		}
	}
	return newOutcome(addr, result)
}

// attempt enforces the deadline even on a pinger that ignores its context
func (p *Prober) attempt(ctx context.Context, addr netip.Addr) Result {
	probeCtx, cancel := context.WithTimeout(ctx, p.options.Timeout)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		done <- p.pinger.Ping(probeCtx, addr)
	}()

	select {
	case result := <-done:
		return result
	case <-probeCtx.Done():
		return fromContext(probeCtx)
	}
}
