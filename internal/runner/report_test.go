package runner

import (
	"bytes"
	"net/netip"
	"testing"
	"time"

	"github.com/projectdiscovery/ping-network/pkg/peerdiscovery/pingsweep"
)

func TestReporterLines(t *testing.T) {
	addr := netip.MustParseAddr("192.168.0.5")
	tests := []struct {
		outcome pingsweep.Outcome
		want    string
	}{
		{pingsweep.Outcome{Addr: addr, Status: pingsweep.Online, RTT: 1234 * time.Microsecond}, "192.168.0.5 is Online (1.2ms)"},
		{pingsweep.Outcome{Addr: addr, Status: pingsweep.Online, RTT: 345 * time.Microsecond}, "192.168.0.5 is Online (345µs)"},
		{pingsweep.Outcome{Addr: addr, Status: pingsweep.Unreachable}, "192.168.0.5 is Offline -> Destination Host Unreachable"},
		{pingsweep.Outcome{Addr: addr, Status: pingsweep.TimedOut}, "192.168.0.5 is Offline -> Request timed out"},
		{pingsweep.Outcome{Addr: addr, Status: pingsweep.ProbeError, Code: 2, Detail: "exit status 2"}, "192.168.0.5 probe error: exit status 2 (code 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.Status.String(), func(t *testing.T) {
			var buf bytes.Buffer
			r := NewReporter(&buf, &Options{NoColor: true})
			if err := r.Outcome(tt.outcome); err != nil {
				t.Fatalf("Outcome() failed: %v", err)
			}
			if got := buf.String(); got != tt.want+"\n" {
				t.Errorf("Outcome() wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReporterOnlineOnly(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, &Options{NoColor: true, OnlineOnly: true})
	_ = r.Outcome(pingsweep.Outcome{Addr: netip.MustParseAddr("10.0.0.1"), Status: pingsweep.TimedOut})
	if buf.Len() != 0 {
		t.Errorf("-online-only wrote %q", buf.String())
	}
}
