// Package netinfo retrieves the local machine's primary IPv4 network: the
// address and netmask of the interface holding the default route, its
// broadcast address and the default gateway.
//
// Information comes from the OS routing and interface tables rather than
// from the text output of system utilities:
//   - default gateway and its interface: jackpal/gateway
//   - interface addresses and flags: gopsutil
//
// Example:
//
//	info, err := netinfo.NewSystem().GetLocalNetworkConfig(ctx)
//	fmt.Println(info.Address, info.Netmask, info.Gateway, info.Interface)
package netinfo

import (
	"context"
	"errors"
	"fmt"
	"net/netip"

	"github.com/projectdiscovery/ping-network/pkg/subnet"
)

// ErrNoNetwork is returned when no usable IPv4 interface could be found
var ErrNoNetwork = errors.New("can't get your IPv4 interface and address, are you connected to a network?")

// Info is the primary IPv4 configuration of the local machine
type Info struct {
	Address   netip.Addr
	Netmask   string
	PrefixLen int
	Broadcast netip.Addr
	Gateway   netip.Addr
	Interface string
}

// Config returns the part of Info the host enumerator works on.
func (i Info) Config() subnet.NetworkConfig {
	return subnet.NetworkConfig{Address: i.Address, PrefixLen: i.PrefixLen}
}

func (i Info) String() string {
	gateway := "<none>"
	if i.Gateway.IsValid() {
		gateway = i.Gateway.String()
	}
	return fmt.Sprintf("%s addr=%s netmask=%s broadcast=%s gateway=%s", i.Interface, i.Address, i.Netmask, i.Broadcast, gateway)
}

// Provider supplies the local network configuration
type Provider interface {
	GetLocalNetworkConfig(ctx context.Context) (Info, error)
}

// Static is a Provider returning a fixed configuration, used when the
// network is given on the command line.
type Static struct {
	Info Info
}

// NewStatic builds a Static provider from a network config, deriving the
// netmask and broadcast address.
func NewStatic(cfg subnet.NetworkConfig) *Static {
	return &Static{Info: Info{
		Address:   cfg.Address,
		Netmask:   cfg.Netmask(),
		PrefixLen: cfg.PrefixLen,
		Broadcast: cfg.Broadcast(),
	}}
}

// GetLocalNetworkConfig returns the fixed configuration
func (s *Static) GetLocalNetworkConfig(ctx context.Context) (Info, error) {
	if err := s.Info.Config().Validate(); err != nil {
		return Info{}, err
	}
	return s.Info, nil
}
