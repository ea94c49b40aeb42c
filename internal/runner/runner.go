package runner

import (
	"context"
	"errors"
	"io"
	"iter"
	"net/netip"
	"os"
	"slices"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/ping-network/pkg/netinfo"
	"github.com/projectdiscovery/ping-network/pkg/peerdiscovery/pingsweep"
	"github.com/projectdiscovery/ping-network/pkg/peerdiscovery/prescan"
	"github.com/projectdiscovery/ping-network/pkg/privilege"
	"github.com/projectdiscovery/ping-network/pkg/subnet"
	errorutil "github.com/projectdiscovery/utils/errors"
)

// maxPriorityHosts bounds the networks -priority will materialize and sort
const maxPriorityHosts = 1 << 20

// Runner contains the internal logic of the program
type Runner struct {
	options  *Options
	provider netinfo.Provider
	state    privilege.State
	out      io.Writer

	// newPinger builds the probe backend for the configured method
	newPinger func(method string, state privilege.State) (pingsweep.Pinger, error)
	pinger    pingsweep.Pinger
}

// NewRunner instance
func NewRunner(options *Options) (*Runner, error) {
	r := &Runner{
		options:   options,
		out:       os.Stdout,
		newPinger: newPinger,
	}
	if options.Target != "" {
		cfg, err := options.targetConfig()
		if err != nil {
			return nil, errorutil.NewWithErr(err).Msgf("invalid target %s", options.Target)
		}
		r.provider = netinfo.NewStatic(cfg)
	} else {
		r.provider = netinfo.NewCached(netinfo.NewSystem(), netinfo.DefaultCacheExpiration)
	}

	if options.NoPrivilegeCheck {
		r.state = privilege.Assume()
	} else {
		r.state = privilege.Detect()
	}
	return r, nil
}

func newPinger(method string, state privilege.State) (pingsweep.Pinger, error) {
	if method == MethodExec {
		return pingsweep.NewExecPinger()
	}
	return pingsweep.NewICMPPinger(state)
}

// Run the instance. Fatal errors are returned before any report output.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.state.Require(); err != nil {
		return errorutil.NewWithErr(err).Msgf("ping-network must run as superuser (use -no-privilege-check to skip)")
	}

	info, err := r.provider.GetLocalNetworkConfig(ctx)
	if err != nil {
		return errorutil.NewWithErr(err).Msgf("could not determine the network to scan")
	}
	cfg := info.Config()
	if err := cfg.Validate(); err != nil {
		return errorutil.NewWithErr(err).Msgf("invalid network %s", cfg)
	}
	gologger.Info().Msgf("Network: %s", info)

	hosts := subnet.Hosts(cfg)
	if hosts.Empty() {
		gologger.Warning().Msgf("%s has no usable host addresses", cfg.Prefix())
	} else {
		gologger.Info().Msgf("Probing %d hosts (%s) with %s, timeout %s, concurrency %d",
			hosts.Len(), hosts, r.options.Method, r.options.Timeout, r.options.Concurrency)
	}

	pinger, err := r.newPinger(r.options.Method, r.state)
	if err != nil {
		return errorutil.NewWithErr(err).Msgf("could not create %s pinger", r.options.Method)
	}
	r.pinger = pinger
	defer r.Close()

	reporter := NewReporter(r.out, r.options)
	opts := []pingsweep.Option{
		pingsweep.WithTimeout(r.options.Timeout),
		pingsweep.WithConcurrency(r.options.Concurrency),
		pingsweep.WithRetries(r.options.Retries),
	}
	if r.options.Stream {
		opts = append(opts, pingsweep.WithOnResult(func(o pingsweep.Outcome) {
			if err := reporter.Outcome(o); err != nil {
				gologger.Warning().Msgf("could not write result for %s: %s", o.Addr, err)
			}
		}))
	}

	prober := pingsweep.New(pinger, opts...)
	session, err := prober.Scan(ctx, r.probeOrder(cfg, hosts))
	if err != nil {
		return errorutil.NewWithErr(err).Msgf("scan failed")
	}

	if !r.options.Stream {
		if err := reporter.Outcomes(session); err != nil {
			return err
		}
	}
	if errors.Is(session.Err(), pingsweep.ErrInterrupted) {
		gologger.Warning().Msgf("Scan interrupted: %d hosts in flight, %d not started",
			len(session.Interrupted()), session.NotStarted())
	}
	return reporter.Summary(cfg.Prefix().String(), session)
}

// probeOrder yields the hosts in launch order
func (r *Runner) probeOrder(cfg subnet.NetworkConfig, hosts subnet.HostRange) iter.Seq[netip.Addr] {
	if !r.options.Priority {
		return hosts.All()
	}
	if hosts.Len() > maxPriorityHosts {
		gologger.Warning().Msgf("-priority ignored for %d hosts, probing in address order", hosts.Len())
		return hosts.All()
	}
	return slices.Values(prescan.Order(hosts.Slice(), cfg.Prefix()))
}

// Close the runner instance
func (r *Runner) Close() {
	if closer, ok := r.pinger.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			gologger.Verbose().Msgf("could not close pinger: %s", err)
		}
	}
}
