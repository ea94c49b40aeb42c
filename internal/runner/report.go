package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/logrusorgru/aurora/v4"
	"github.com/projectdiscovery/ping-network/pkg/peerdiscovery/pingsweep"
)

// Reporter writes one line per host and a session summary
type Reporter struct {
	w          io.Writer
	au         *aurora.Aurora
	json       bool
	onlineOnly bool

	mu sync.Mutex
}

// NewReporter creates a reporter for the output options
func NewReporter(w io.Writer, options *Options) *Reporter {
	return &Reporter{
		w:          w,
		au:         aurora.New(aurora.WithColors(!options.NoColor && !options.JSON)),
		json:       options.JSON,
		onlineOnly: options.OnlineOnly,
	}
}

// jsonSummary is the last json line of a report
type jsonSummary struct {
	Session     string                   `json:"session"`
	Network     string                   `json:"network"`
	Status      pingsweep.SessionStatus  `json:"status"`
	Counts      map[pingsweep.Status]int `json:"counts"`
	Interrupted []string                 `json:"interrupted,omitempty"`
	Elapsed     string                   `json:"elapsed"`
}

// Outcome writes the line for a single host
func (r *Reporter) Outcome(o pingsweep.Outcome) error {
	if r.onlineOnly && o.Status != pingsweep.Online {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.json {
		return json.NewEncoder(r.w).Encode(o)
	}
	_, err := fmt.Fprintln(r.w, r.line(o))
	return err
}

// Outcomes writes every completed outcome of a session in address order
func (r *Reporter) Outcomes(session *pingsweep.Session) error {
	for _, o := range session.Outcomes() {
		if err := r.Outcome(o); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) line(o pingsweep.Outcome) string {
	switch o.Status {
	case pingsweep.Online:
		return fmt.Sprintf("%s is %s (%s)", o.Addr, r.au.Green("Online"), roundRTT(o.RTT))
	case pingsweep.Unreachable:
		return fmt.Sprintf("%s is %s -> Destination Host Unreachable", o.Addr, r.au.Red("Offline"))
	case pingsweep.TimedOut:
		return fmt.Sprintf("%s is %s -> Request timed out", o.Addr, r.au.Red("Offline"))
	case pingsweep.ProbeError:
		return fmt.Sprintf("%s %s: %s (code %d)", o.Addr, r.au.Yellow("probe error"), o.Detail, o.Code)
	default:
		return fmt.Sprintf("%s %s", o.Addr, o.Status)
	}
}

// Summary writes the session footer
func (r *Reporter) Summary(network string, session *pingsweep.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := session.Counts()
	if r.json {
		var interrupted []string
		for _, addr := range session.Interrupted() {
			interrupted = append(interrupted, addr.String())
		}
		return json.NewEncoder(r.w).Encode(jsonSummary{
			Session:     session.ID,
			Network:     network,
			Status:      session.Status,
			Counts:      counts,
			Interrupted: interrupted,
			Elapsed:     session.Elapsed().Round(time.Millisecond).String(),
		})
	}

	status := r.au.Green("completed")
	if session.Status == pingsweep.SessionInterrupted {
		status = r.au.Yellow("interrupted")
	}
	parts := make([]string, 0, len(pingsweep.AllStatuses))
	total := 0
	for _, s := range pingsweep.AllStatuses {
		total += counts[s]
		parts = append(parts, fmt.Sprintf("%d %s", counts[s], s))
	}
	_, err := fmt.Fprintf(r.w, "\nScan %s of %s %s in %s: %d hosts, %s\n",
		session.ID, network, status, session.Elapsed().Round(time.Millisecond), total, strings.Join(parts, ", "))
	return err
}

func roundRTT(rtt time.Duration) time.Duration {
	if rtt >= time.Millisecond {
		return rtt.Round(100 * time.Microsecond)
	}
	return rtt.Round(time.Microsecond)
}
