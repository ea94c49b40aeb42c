package netinfo

import (
	"context"
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/projectdiscovery/ping-network/pkg/subnet"
)

type countingProvider struct {
	calls int
	err   error
}

func (p *countingProvider) GetLocalNetworkConfig(ctx context.Context) (Info, error) {
	p.calls++
	if p.err != nil {
		return Info{}, p.err
	}
	return Info{Address: netip.MustParseAddr("10.0.0.2"), PrefixLen: 24, Interface: "eth0"}, nil
}

func TestCachedReusesResult(t *testing.T) {
	provider := &countingProvider{}
	cached := NewCached(provider, time.Hour)

	for i := 0; i < 3; i++ {
		info, err := cached.GetLocalNetworkConfig(context.Background())
		if err != nil {
			t.Fatalf("GetLocalNetworkConfig() error = %v", err)
		}
		if info.Interface != "eth0" {
			t.Errorf("Interface = %s, want eth0", info.Interface)
		}
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1", provider.calls)
	}

	if _, err := cached.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times after refresh, want 2", provider.calls)
	}
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	provider := &countingProvider{err: ErrNoNetwork}
	cached := NewCached(provider, 0)

	for i := 0; i < 2; i++ {
		if _, err := cached.GetLocalNetworkConfig(context.Background()); !errors.Is(err, ErrNoNetwork) {
			t.Fatalf("GetLocalNetworkConfig() error = %v, want ErrNoNetwork", err)
		}
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2", provider.calls)
	}
}

func TestStatic(t *testing.T) {
	cfg, err := subnet.ParseNetworkConfig("192.168.1.10", 29)
	if err != nil {
		t.Fatal(err)
	}
	info, err := NewStatic(cfg).GetLocalNetworkConfig(context.Background())
	if err != nil {
		t.Fatalf("GetLocalNetworkConfig() error = %v", err)
	}
	if info.Netmask != "255.255.255.248" {
		t.Errorf("Netmask = %s, want 255.255.255.248", info.Netmask)
	}
	if info.Broadcast.String() != "192.168.1.15" {
		t.Errorf("Broadcast = %s, want 192.168.1.15", info.Broadcast)
	}

	_, err = (&Static{}).GetLocalNetworkConfig(context.Background())
	if !errors.Is(err, subnet.ErrInvalidConfiguration) {
		t.Errorf("empty Static error = %v, want ErrInvalidConfiguration", err)
	}
}
