package netinfo

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/jackpal/gateway"
	"github.com/projectdiscovery/gologger"
	psnet "github.com/shirou/gopsutil/v3/net"
	"go4.org/netipx"

	"github.com/projectdiscovery/ping-network/pkg/subnet"
)

// System reads the configuration from the running OS
type System struct {
	discoverGateway   func() (net.IP, error)
	discoverInterface func() (net.IP, error)
	interfaces        func(ctx context.Context) (psnet.InterfaceStatList, error)
}

// NewSystem returns a provider backed by the OS routing and interface tables
func NewSystem() *System {
	return &System{
		discoverGateway:   gateway.DiscoverGateway,
		discoverInterface: gateway.DiscoverInterface,
		interfaces:        psnet.InterfacesWithContext,
	}
}

// GetLocalNetworkConfig finds the interface holding the default route.
// When the gateway cannot be resolved it falls back to the first running,
// non-loopback interface with an IPv4 address.
func (s *System) GetLocalNetworkConfig(ctx context.Context) (Info, error) {
	ifaces, err := s.interfaces(ctx)
	if err != nil {
		return Info{}, fmt.Errorf("%w: failed to list interfaces: %v", ErrNoNetwork, err)
	}

	var gw, local netip.Addr
	if ip, err := s.discoverGateway(); err == nil {
		gw = toAddr(ip)
	} else {
		gologger.Verbose().Msgf("could not discover default gateway: %s", err)
	}
	if ip, err := s.discoverInterface(); err == nil {
		local = toAddr(ip)
	} else {
		gologger.Verbose().Msgf("could not discover default route interface: %s", err)
	}

	var fallback *Info
	for _, iface := range ifaces {
		if !hasFlag(iface.Flags, "up") || hasFlag(iface.Flags, "loopback") {
			continue
		}
		for _, ifaceAddr := range iface.Addrs {
			prefix, err := netip.ParsePrefix(ifaceAddr.Addr)
			if err != nil || !prefix.Addr().Is4() {
				continue
			}
			info := newInfo(iface.Name, prefix, gw)

			switch {
			case local.IsValid() && prefix.Addr() == local:
				return info, nil
			case !local.IsValid() && gw.IsValid() && prefix.Contains(gw):
				return info, nil
			case fallback == nil:
				fallback = &info
			}
		}
	}

	if fallback != nil {
		gologger.Verbose().Msgf("default route interface not found, using %s", fallback.Interface)
		return *fallback, nil
	}
	return Info{}, ErrNoNetwork
}

func newInfo(name string, prefix netip.Prefix, gw netip.Addr) Info {
	cfg := subnet.NetworkConfig{Address: prefix.Addr(), PrefixLen: prefix.Bits()}
	info := Info{
		Address:   prefix.Addr(),
		Netmask:   cfg.Netmask(),
		PrefixLen: prefix.Bits(),
		Broadcast: netipx.RangeOfPrefix(prefix.Masked()).To(),
		Interface: name,
	}
	if gw.IsValid() && prefix.Masked().Contains(gw) {
		info.Gateway = gw
	}
	return info
}

func toAddr(ip net.IP) netip.Addr {
	addr, ok := netipx.FromStdIP(ip)
	if !ok || !addr.Is4() {
		return netip.Addr{}
	}
	return addr
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, flag) {
			return true
		}
	}
	return false
}
