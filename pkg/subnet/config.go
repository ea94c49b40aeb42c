package subnet

import (
	"errors"
	"fmt"
	"math/bits"
	"net/netip"
	"strings"

	"go4.org/netipx"
)

// ErrInvalidConfiguration is returned when an address, netmask or prefix
// length cannot be parsed or is out of range.
var ErrInvalidConfiguration = errors.New("invalid network configuration")

// NetworkConfig is the address and prefix length of a local IPv4 network.
type NetworkConfig struct {
	Address   netip.Addr
	PrefixLen int
}

// ParseNetworkConfig validates an IPv4 literal and a prefix length in [0,32]
func ParseNetworkConfig(address string, prefixLen int) (NetworkConfig, error) {
	addr, err := parseIPv4(address)
	if err != nil {
		return NetworkConfig{}, err
	}
	if prefixLen < 0 || prefixLen > 32 {
		return NetworkConfig{}, fmt.Errorf("%w: prefix length %d out of range [0,32]", ErrInvalidConfiguration, prefixLen)
	}
	return NetworkConfig{Address: addr, PrefixLen: prefixLen}, nil
}

// ParseNetworkConfigMask is ParseNetworkConfig with a dotted-quad netmask
func ParseNetworkConfigMask(address, netmask string) (NetworkConfig, error) {
	prefixLen, err := PrefixLenFromNetmask(netmask)
	if err != nil {
		return NetworkConfig{}, err
	}
	return ParseNetworkConfig(address, prefixLen)
}

// ParseCIDR parses "a.b.c.d/n" keeping the host part of the address.
func ParseCIDR(cidr string) (NetworkConfig, error) {
	prefix, err := netip.ParsePrefix(strings.TrimSpace(cidr))
	if err != nil {
		return NetworkConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if !prefix.Addr().Is4() {
		return NetworkConfig{}, fmt.Errorf("%w: %s is not an IPv4 network", ErrInvalidConfiguration, cidr)
	}
	return NetworkConfig{Address: prefix.Addr(), PrefixLen: prefix.Bits()}, nil
}

// PrefixLenFromNetmask counts the set bits across the four octets of a
// dotted-quad netmask, e.g. 255.255.255.0 -> 24.
func PrefixLenFromNetmask(netmask string) (int, error) {
	mask, err := parseIPv4(netmask)
	if err != nil {
		return 0, err
	}
	ones := 0
	for _, octet := range mask.As4() {
		ones += bits.OnesCount8(octet)
	}
	return ones, nil
}

// Validate reports whether the config could have been produced by ParseNetworkConfig.
func (c NetworkConfig) Validate() error {
	if !c.Address.Is4() {
		return fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidConfiguration, c.Address.String())
	}
	if c.PrefixLen < 0 || c.PrefixLen > 32 {
		return fmt.Errorf("%w: prefix length %d out of range [0,32]", ErrInvalidConfiguration, c.PrefixLen)
	}
	return nil
}

// Prefix returns the masked network prefix.
func (c NetworkConfig) Prefix() netip.Prefix {
	return netip.PrefixFrom(c.Address, c.PrefixLen).Masked()
}

// Network returns the all-zeros host address.
func (c NetworkConfig) Network() netip.Addr {
	return netipx.RangeOfPrefix(c.Prefix()).From()
}

// Broadcast returns the all-ones host address.
func (c NetworkConfig) Broadcast() netip.Addr {
	return netipx.RangeOfPrefix(c.Prefix()).To()
}

// Netmask renders the prefix length as a dotted quad.
func (c NetworkConfig) Netmask() string {
	return fromUint32(mask(c.PrefixLen)).String()
}

func (c NetworkConfig) String() string {
	return netip.PrefixFrom(c.Address, c.PrefixLen).String()
}

func parseIPv4(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidConfiguration, s)
	}
	return addr, nil
}
