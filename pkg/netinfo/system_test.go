package netinfo

import (
	"context"
	"errors"
	"net"
	"testing"

	psnet "github.com/shirou/gopsutil/v3/net"
)

func fakeSystem(gw, local string, ifaces psnet.InterfaceStatList) *System {
	return &System{
		discoverGateway: func() (net.IP, error) {
			if gw == "" {
				return nil, errors.New("no gateway")
			}
			return net.ParseIP(gw), nil
		},
		discoverInterface: func() (net.IP, error) {
			if local == "" {
				return nil, errors.New("no interface")
			}
			return net.ParseIP(local), nil
		},
		interfaces: func(ctx context.Context) (psnet.InterfaceStatList, error) {
			return ifaces, nil
		},
	}
}

var testInterfaces = psnet.InterfaceStatList{
	{
		Name:  "lo",
		Flags: []string{"up", "loopback"},
		Addrs: psnet.InterfaceAddrList{{Addr: "127.0.0.1/8"}, {Addr: "::1/128"}},
	},
	{
		Name:  "docker0",
		Flags: []string{"up", "broadcast", "multicast"},
		Addrs: psnet.InterfaceAddrList{{Addr: "172.17.0.1/16"}},
	},
	{
		Name:  "eth0",
		Flags: []string{"up", "broadcast", "multicast"},
		Addrs: psnet.InterfaceAddrList{{Addr: "fe80::1/64"}, {Addr: "192.168.1.12/24"}},
	},
	{
		Name:  "wlan0",
		Flags: []string{"broadcast", "multicast"},
		Addrs: psnet.InterfaceAddrList{{Addr: "10.0.0.5/8"}},
	},
}

func TestSystemGetLocalNetworkConfig(t *testing.T) {
	tests := []struct {
		name      string
		gw        string
		local     string
		wantIface string
		wantGw    string
	}{
		{name: "gateway and interface", gw: "192.168.1.1", local: "192.168.1.12", wantIface: "eth0", wantGw: "192.168.1.1"},
		{name: "gateway only", gw: "192.168.1.1", wantIface: "eth0", wantGw: "192.168.1.1"},
		{name: "nothing discovered", wantIface: "docker0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := fakeSystem(tt.gw, tt.local, testInterfaces).GetLocalNetworkConfig(context.Background())
			if err != nil {
				t.Fatalf("GetLocalNetworkConfig() error = %v", err)
			}
			if info.Interface != tt.wantIface {
				t.Errorf("Interface = %s, want %s", info.Interface, tt.wantIface)
			}
			gotGw := ""
			if info.Gateway.IsValid() {
				gotGw = info.Gateway.String()
			}
			if gotGw != tt.wantGw {
				t.Errorf("Gateway = %q, want %q", gotGw, tt.wantGw)
			}
		})
	}
}

func TestSystemDerivedFields(t *testing.T) {
	info, err := fakeSystem("192.168.1.1", "192.168.1.12", testInterfaces).GetLocalNetworkConfig(context.Background())
	if err != nil {
		t.Fatalf("GetLocalNetworkConfig() error = %v", err)
	}
	if info.Address.String() != "192.168.1.12" {
		t.Errorf("Address = %s", info.Address)
	}
	if info.Netmask != "255.255.255.0" || info.PrefixLen != 24 {
		t.Errorf("Netmask = %s PrefixLen = %d", info.Netmask, info.PrefixLen)
	}
	if info.Broadcast.String() != "192.168.1.255" {
		t.Errorf("Broadcast = %s", info.Broadcast)
	}
	if cfg := info.Config(); cfg.String() != "192.168.1.12/24" {
		t.Errorf("Config() = %s", cfg)
	}
}

func TestSystemNoNetwork(t *testing.T) {
	ifaces := psnet.InterfaceStatList{testInterfaces[0], testInterfaces[3]}
	_, err := fakeSystem("", "", ifaces).GetLocalNetworkConfig(context.Background())
	if !errors.Is(err, ErrNoNetwork) {
		t.Fatalf("GetLocalNetworkConfig() error = %v, want ErrNoNetwork", err)
	}
}
