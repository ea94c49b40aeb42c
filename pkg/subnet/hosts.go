package subnet

import (
	"fmt"
	"iter"
	"net/netip"
)

// HostRange is the ordered set of usable host addresses of a network.
// It is a value and can be iterated any number of times.
type HostRange struct {
	first uint32
	last  uint32
	empty bool
}

// Hosts returns every address strictly between the network address and the
// broadcast address of cfg. The config must be valid.
func Hosts(cfg NetworkConfig) HostRange {
	m := mask(cfg.PrefixLen)
	base := toUint32(cfg.Address) & m
	broadcast := base | ^m

	// fewer than two addresses between base and broadcast: /31 and /32
	if broadcast-base < 2 {
		return HostRange{empty: true}
	}
	return HostRange{first: base + 1, last: broadcast - 1}
}

// HostsOf validates cfg before enumerating it.
func HostsOf(cfg NetworkConfig) (HostRange, error) {
	if err := cfg.Validate(); err != nil {
		return HostRange{}, err
	}
	return Hosts(cfg), nil
}

// Len is the number of usable hosts, 2^(32-prefix)-2 for prefixes up to /30.
func (r HostRange) Len() uint64 {
	if r.empty {
		return 0
	}
	return uint64(r.last-r.first) + 1
}

// Empty reports whether the range has no usable host.
func (r HostRange) Empty() bool {
	return r.empty
}

// First returns the lowest usable host, or the zero Addr for an empty range.
func (r HostRange) First() netip.Addr {
	if r.empty {
		return netip.Addr{}
	}
	return fromUint32(r.first)
}

// Last returns the highest usable host, or the zero Addr for an empty range.
func (r HostRange) Last() netip.Addr {
	if r.empty {
		return netip.Addr{}
	}
	return fromUint32(r.last)
}

// All yields the hosts in ascending numeric order.
func (r HostRange) All() iter.Seq[netip.Addr] {
	return func(yield func(netip.Addr) bool) {
		if r.empty {
			return
		}
		for u := r.first; ; u++ {
			if !yield(fromUint32(u)) || u == r.last {
				return
			}
		}
	}
}

// Slice materializes the range. Avoid it for very short prefixes.
func (r HostRange) Slice() []netip.Addr {
	res := make([]netip.Addr, 0, r.Len())
	for addr := range r.All() {
		res = append(res, addr)
	}
	return res
}

func (r HostRange) String() string {
	if r.empty {
		return "<no usable hosts>"
	}
	return fmt.Sprintf("%s-%s (%d hosts)", r.First(), r.Last(), r.Len())
}

func mask(prefixLen int) uint32 {
	if prefixLen <= 0 {
		return 0
	}
	return ^uint32(0) << (32 - prefixLen)
}

func toUint32(addr netip.Addr) uint32 {
	b := addr.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func fromUint32(u uint32) netip.Addr {
	return netip.AddrFrom4([4]byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)})
}
