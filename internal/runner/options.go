package runner

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/logrusorgru/aurora/v4"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	"github.com/projectdiscovery/ping-network/pkg/peerdiscovery/pingsweep"
	"github.com/projectdiscovery/ping-network/pkg/subnet"
	"github.com/projectdiscovery/ping-network/pkg/version"
	envutil "github.com/projectdiscovery/utils/env"
	fileutil "github.com/projectdiscovery/utils/file"
)

var au = aurora.New(aurora.WithColors(true))

var (
	TimeoutEnv     = envutil.GetEnvOrDefault("PING_NETWORK_TIMEOUT", "")
	ConcurrencyEnv = envutil.GetEnvOrDefault("PING_NETWORK_CONCURRENCY", "")
	MethodEnv      = envutil.GetEnvOrDefault("PING_NETWORK_METHOD", MethodICMP)
)

// Probe methods
const (
	MethodICMP = "icmp"
	MethodExec = "exec"
)

// Options contains the configuration options for tuning the scan
type Options struct {
	ConfigFile string

	Target  string
	Netmask string

	Method           string
	Timeout          time.Duration
	Concurrency      int
	Retries          int
	Priority         bool
	NoPrivilegeCheck bool

	JSON       bool
	OnlineOnly bool
	Stream     bool
	NoColor    bool

	Verbose bool
	Silent  bool
	Version bool
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{}
	flagSet := options.flagSet()

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	if options.ConfigFile != "" {
		if !fileutil.FileExists(options.ConfigFile) {
			gologger.Fatal().Msgf("config file %s does not exist\n", options.ConfigFile)
		}
		if err := flagSet.MergeConfigFile(options.ConfigFile); err != nil {
			gologger.Fatal().Msgf("could not read config file: %s\n", err)
		}
	}

	options.configureOutput()

	showBanner()

	if options.Version {
		gologger.Info().Msgf("Current Version: %s\n", version.Version)
		os.Exit(0)
	}

	if err := options.Validate(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}
	return options
}

func (options *Options) flagSet() *goflags.FlagSet {
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`ping-network discovers the local IPv4 network and reports which hosts answer a ping`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&options.Target, "target", "t", "", "network to scan as ip/prefix or ip with -netmask (default: local network)"),
		flagSet.StringVarP(&options.Netmask, "netmask", "nm", "", "dotted-quad netmask for -target"),
	)

	flagSet.CreateGroup("probe", "Probe",
		flagSet.StringVarP(&options.Method, "method", "m", MethodEnv, "probe method (icmp, exec)"),
		flagSet.DurationVar(&options.Timeout, "timeout", envDuration(TimeoutEnv, pingsweep.DefaultTimeout), "per-host probe timeout"),
		flagSet.IntVarP(&options.Concurrency, "concurrency", "c", envInt(ConcurrencyEnv, pingsweep.DefaultConcurrency), "number of concurrent probes"),
		flagSet.IntVarP(&options.Retries, "retries", "r", 0, "number of retries for hosts that time out"),
		flagSet.BoolVarP(&options.Priority, "priority", "p", false, "probe likely-live hosts first (gateways, early dhcp)"),
		flagSet.BoolVarP(&options.NoPrivilegeCheck, "no-privilege-check", "npc", false, "skip the superuser precondition"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVarP(&options.JSON, "json", "j", false, "write results as json lines"),
		flagSet.BoolVarP(&options.OnlineOnly, "online-only", "oo", false, "only report online hosts"),
		flagSet.BoolVar(&options.Stream, "stream", false, "report hosts as they complete instead of in address order"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable output content coloring (ANSI escape codes)"),
	)

	flagSet.CreateGroup("config", "Config",
		flagSet.StringVar(&options.ConfigFile, "config", "", "cli flag configuration file"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVar(&options.Version, "version", false, "show version of the project"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only results in output"),
	)
	return flagSet
}

// Validate checks the options for consistency
func (options *Options) Validate() error {
	options.Method = strings.ToLower(strings.TrimSpace(options.Method))
	switch options.Method {
	case MethodICMP, MethodExec:
	default:
		return fmt.Errorf("unknown probe method %q (icmp, exec)", options.Method)
	}
	if options.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", options.Timeout)
	}
	if options.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", options.Concurrency)
	}
	if options.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", options.Retries)
	}
	if options.Netmask != "" && options.Target == "" {
		return fmt.Errorf("-netmask requires -target")
	}
	if options.Target != "" {
		if _, err := options.targetConfig(); err != nil {
			return err
		}
	}
	return nil
}

// targetConfig parses -target and -netmask into a network
func (options *Options) targetConfig() (subnet.NetworkConfig, error) {
	switch {
	case strings.Contains(options.Target, "/"):
		if options.Netmask != "" {
			return subnet.NetworkConfig{}, fmt.Errorf("-netmask can not be combined with a cidr target")
		}
		return subnet.ParseCIDR(options.Target)
	case options.Netmask != "":
		return subnet.ParseNetworkConfigMask(options.Target, options.Netmask)
	default:
		return subnet.NetworkConfig{}, fmt.Errorf("%w: target %q needs a prefix length or -netmask", subnet.ErrInvalidConfiguration, options.Target)
	}
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
		au = aurora.New(aurora.WithColors(false))
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}

func envInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		gologger.Warning().Msgf("ignoring invalid integer %q, using %d", value, fallback)
		return fallback
	}
	return n
}

func envDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		// plain numbers are seconds
		if secs, convErr := strconv.ParseFloat(value, 64); convErr == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
		gologger.Warning().Msgf("ignoring invalid duration %q, using %s", value, fallback)
		return fallback
	}
	if d <= 0 {
		return fallback
	}
	return d
}
