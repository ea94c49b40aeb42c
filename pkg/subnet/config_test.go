package subnet

import (
	"errors"
	"testing"
)

func TestParseNetworkConfig(t *testing.T) {
	tests := []struct {
		name      string
		address   string
		prefixLen int
		wantErr   bool
	}{
		{name: "valid /24", address: "192.168.1.12", prefixLen: 24},
		{name: "valid /0", address: "0.0.0.0", prefixLen: 0},
		{name: "valid /32", address: "10.0.0.1", prefixLen: 32},
		{name: "surrounding spaces", address: " 10.0.0.1 ", prefixLen: 8},
		{name: "prefix too long", address: "10.0.0.1", prefixLen: 33, wantErr: true},
		{name: "negative prefix", address: "10.0.0.1", prefixLen: -1, wantErr: true},
		{name: "not an address", address: "router.local", prefixLen: 24, wantErr: true},
		{name: "ipv6", address: "fe80::1", prefixLen: 24, wantErr: true},
		{name: "truncated", address: "192.168.1", prefixLen: 24, wantErr: true},
		{name: "empty", address: "", prefixLen: 24, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseNetworkConfig(tt.address, tt.prefixLen)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNetworkConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfiguration) {
					t.Errorf("error %v is not ErrInvalidConfiguration", err)
				}
				return
			}
			if cfg.PrefixLen != tt.prefixLen {
				t.Errorf("PrefixLen = %d, want %d", cfg.PrefixLen, tt.prefixLen)
			}
		})
	}
}

func TestPrefixLenFromNetmask(t *testing.T) {
	tests := []struct {
		netmask string
		want    int
		wantErr bool
	}{
		{netmask: "255.255.255.0", want: 24},
		{netmask: "255.255.255.248", want: 29},
		{netmask: "255.255.0.0", want: 16},
		{netmask: "255.255.255.255", want: 32},
		{netmask: "0.0.0.0", want: 0},
		{netmask: "255.255.255.252", want: 30},
		{netmask: "255.255.256.0", wantErr: true},
		{netmask: "ffff:ff00::", wantErr: true},
		{netmask: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.netmask, func(t *testing.T) {
			got, err := PrefixLenFromNetmask(tt.netmask)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PrefixLenFromNetmask() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("PrefixLenFromNetmask(%q) = %d, want %d", tt.netmask, got, tt.want)
			}
		})
	}
}

func TestParseNetworkConfigMask(t *testing.T) {
	cfg, err := ParseNetworkConfigMask("192.168.1.12", "255.255.255.0")
	if err != nil {
		t.Fatalf("ParseNetworkConfigMask failed: %v", err)
	}
	if cfg.String() != "192.168.1.12/24" {
		t.Errorf("String() = %s, want 192.168.1.12/24", cfg)
	}
	if cfg.Prefix().String() != "192.168.1.0/24" {
		t.Errorf("Prefix() = %s, want 192.168.1.0/24", cfg.Prefix())
	}
	if cfg.Netmask() != "255.255.255.0" {
		t.Errorf("Netmask() = %s, want 255.255.255.0", cfg.Netmask())
	}
}

func TestParseCIDR(t *testing.T) {
	cfg, err := ParseCIDR("10.0.0.77/29")
	if err != nil {
		t.Fatalf("ParseCIDR failed: %v", err)
	}
	if cfg.Address.String() != "10.0.0.77" || cfg.PrefixLen != 29 {
		t.Errorf("ParseCIDR = %+v", cfg)
	}

	for _, invalid := range []string{"10.0.0.1", "10.0.0.1/33", "fd00::/64", "invalid"} {
		if _, err := ParseCIDR(invalid); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("ParseCIDR(%q) error = %v, expected ErrInvalidConfiguration", invalid, err)
		}
	}
}
