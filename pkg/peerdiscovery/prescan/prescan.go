package prescan

import (
	"net/netip"
	"slices"
)

// PrioritizedIP holds an address and its priority score
type PrioritizedIP struct {
	Addr     netip.Addr
	Priority int
}

// Rank scores every host and sorts by priority (high to low), then by
// address for a stable order.
func Rank(hosts []netip.Addr, prefix netip.Prefix) []PrioritizedIP {
	ranked := make([]PrioritizedIP, 0, len(hosts))
	for _, addr := range hosts {
		ranked = append(ranked, PrioritizedIP{Addr: addr, Priority: Priority(addr, prefix)})
	}
	slices.SortStableFunc(ranked, func(a, b PrioritizedIP) int {
		if a.Priority != b.Priority {
			return b.Priority - a.Priority
		}
		return a.Addr.Compare(b.Addr)
	})
	return ranked
}

// Order returns hosts in probe order without dropping any of them
func Order(hosts []netip.Addr, prefix netip.Prefix) []netip.Addr {
	ranked := Rank(hosts, prefix)
	ordered := make([]netip.Addr, len(ranked))
	for i, p := range ranked {
		ordered[i] = p.Addr
	}
	return ordered
}
