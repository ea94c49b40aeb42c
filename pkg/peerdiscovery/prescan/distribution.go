package prescan

import (
	"net/netip"

	"go4.org/netipx"
)

// DistributionPattern maps a last-octet range to a priority tier
type DistributionPattern struct {
	RangeStart  int
	RangeEnd    int
	Priority    int
	Description string
}

// Priority tiers based on real-world network patterns
const (
	PriorityTier1 = 100
	PriorityTier2 = 90
	PriorityTier3 = 80
	PriorityTier4 = 70
	PriorityTier5 = 50
	PriorityTier6 = 20
	PriorityTier7 = 0
)

// patterns are checked in order, the first match wins
var patterns = []DistributionPattern{
	{RangeStart: 1, RangeEnd: 1, Priority: PriorityTier1, Description: "Router/switch management"},
	{RangeStart: 254, RangeEnd: 254, Priority: PriorityTier1, Description: "Gateway/router"},
	{RangeStart: 2, RangeEnd: 5, Priority: PriorityTier2, Description: "Infrastructure reserved"},
	{RangeStart: 250, RangeEnd: 253, Priority: PriorityTier2, Description: "High-end reserved"},
	{RangeStart: 6, RangeEnd: 10, Priority: PriorityTier3, Description: "Early DHCP allocation"},
	{RangeStart: 50, RangeEnd: 50, Priority: PriorityTier4, Description: "DHCP peak 1"},
	{RangeStart: 100, RangeEnd: 100, Priority: PriorityTier4, Description: "DHCP peak 2"},
	{RangeStart: 150, RangeEnd: 150, Priority: PriorityTier4, Description: "DHCP peak 3"},
	{RangeStart: 51, RangeEnd: 99, Priority: PriorityTier5, Description: "DHCP range 1"},
	{RangeStart: 101, RangeEnd: 149, Priority: PriorityTier5, Description: "DHCP range 2"},
	{RangeStart: 151, RangeEnd: 200, Priority: PriorityTier5, Description: "DHCP range 3"},
	{RangeStart: 11, RangeEnd: 49, Priority: PriorityTier6, Description: "Long-tail 1"},
	{RangeStart: 201, RangeEnd: 249, Priority: PriorityTier6, Description: "Long-tail 2"},
}

// Patterns returns a copy of the distribution table
func Patterns() []DistributionPattern {
	return append([]DistributionPattern(nil), patterns...)
}

// Priority scores addr within prefix, higher means more likely online.
// Addresses outside prefix, the network and the broadcast address score 0.
// Networks other than /24 reuse the /24 last-octet table.
func Priority(addr netip.Addr, prefix netip.Prefix) int {
	if !addr.Is4() || !prefix.IsValid() {
		return PriorityTier6
	}
	prefix = prefix.Masked()
	if !prefix.Contains(addr) {
		return PriorityTier7
	}
	r := netipx.RangeOfPrefix(prefix)
	if addr == r.From() || addr == r.To() {
		return PriorityTier7
	}

	lastOctet := int(addr.As4()[3])
	for _, pattern := range patterns {
		if lastOctet >= pattern.RangeStart && lastOctet <= pattern.RangeEnd {
			return pattern.Priority
		}
	}
	// .0 and .255 inside a wider network
	return PriorityTier6
}
