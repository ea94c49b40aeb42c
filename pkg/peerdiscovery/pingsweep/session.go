package pingsweep

import (
	"errors"
	"net/netip"
	"slices"
	"sync/atomic"
	"time"

	mapsutil "github.com/projectdiscovery/utils/maps"
	"github.com/rs/xid"
)

// ErrInterrupted marks a session stopped by cancellation. It is a graceful
// stop, the session still holds every outcome collected before it.
var ErrInterrupted = errors.New("scan interrupted")

// SessionStatus is the terminal state of a scan
type SessionStatus int

const (
	Running SessionStatus = iota
	Completed
	SessionInterrupted
)

func (s SessionStatus) String() string {
	switch s {
	case Completed:
		return "completed"
	case SessionInterrupted:
		return "interrupted"
	default:
		return "running"
	}
}

// MarshalText renders the status name in JSON output
func (s SessionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Session holds all outcomes of one scan
type Session struct {
	ID         string
	Status     SessionStatus
	StartedAt  time.Time
	FinishedAt time.Time

	// one entry per launched host, written by the launcher once and by the
	// owning worker once
	results    *mapsutil.SyncLockMap[netip.Addr, Outcome]
	notStarted atomic.Uint64
}

func newSession() *Session {
	return &Session{
		ID:        xid.New().String(),
		Status:    Running,
		StartedAt: time.Now(),
		results:   mapsutil.NewSyncLockMap[netip.Addr, Outcome](),
	}
}

// reserve registers addr before its probe is launched. It reports false
// for an address already seen in this session.
func (s *Session) reserve(addr netip.Addr) bool {
	if s.results.Has(addr) {
		return false
	}
	_ = s.results.Set(addr, Outcome{Addr: addr, Status: statusPending})
	return true
}

func (s *Session) unreserve(addr netip.Addr) {
	s.results.Delete(addr)
}

func (s *Session) record(outcome Outcome) {
	_ = s.results.Set(outcome.Addr, outcome)
}

func (s *Session) skip() {
	s.notStarted.Add(1)
}

func (s *Session) finish(interrupted bool) {
	s.FinishedAt = time.Now()
	if interrupted {
		s.Status = SessionInterrupted
		return
	}
	s.Status = Completed
}

// Err returns ErrInterrupted for an interrupted session and nil otherwise
func (s *Session) Err() error {
	if s.Status == SessionInterrupted {
		return ErrInterrupted
	}
	return nil
}

// Elapsed is the wall-clock duration of the scan
func (s *Session) Elapsed() time.Duration {
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Outcomes returns the completed outcomes in ascending address order.
// Hosts abandoned by an interrupt are not included, see Interrupted.
func (s *Session) Outcomes() []Outcome {
	return s.collect(func(o Outcome) bool {
		return o.Status != statusPending && o.Status != Interrupted
	})
}

// Interrupted returns the hosts whose probe was in flight when the scan was
// cancelled, in ascending address order.
func (s *Session) Interrupted() []netip.Addr {
	outcomes := s.collect(func(o Outcome) bool {
		return o.Status == Interrupted
	})
	addrs := make([]netip.Addr, 0, len(outcomes))
	for _, outcome := range outcomes {
		addrs = append(addrs, outcome.Addr)
	}
	return addrs
}

// NotStarted is the number of hosts never probed because the scan was
// cancelled first. They count as interrupted.
func (s *Session) NotStarted() uint64 {
	return s.notStarted.Load()
}

// Get returns the outcome recorded for addr
func (s *Session) Get(addr netip.Addr) (Outcome, bool) {
	outcome, ok := s.results.Get(addr)
	if !ok || outcome.Status == statusPending {
		return Outcome{}, false
	}
	return outcome, true
}

// Counts returns the number of outcomes per status. Interrupted includes
// hosts that were never started.
func (s *Session) Counts() map[Status]int {
	counts := make(map[Status]int, len(AllStatuses))
	_ = s.results.Iterate(func(_ netip.Addr, o Outcome) error {
		if o.Status != statusPending {
			counts[o.Status]++
		}
		return nil
	})
	counts[Interrupted] += int(s.notStarted.Load())
	return counts
}

func (s *Session) collect(keep func(Outcome) bool) []Outcome {
	var res []Outcome
	_ = s.results.Iterate(func(_ netip.Addr, o Outcome) error {
		if keep(o) {
			res = append(res, o)
		}
		return nil
	})
	slices.SortFunc(res, func(a, b Outcome) int {
		return a.Addr.Compare(b.Addr)
	})
	return res
}
