// Package pingsweep probes every usable host of an IPv4 network and
// classifies each one as online, unreachable, timed out, interrupted or
// failed.
//
// Discovery is performed by:
//   - Enumerating the usable hosts of the network (see package subnet)
//   - Probing each host once, in parallel, through a bounded adaptive waitgroup
//   - Bounding every probe with its own deadline so a silent host only holds
//     its own worker slot
//   - Collecting exactly one Outcome per host into a Session
//
// Example usage:
//
//	pinger, err := pingsweep.NewICMPPinger(privilege.Detect())
//	if err != nil {
//		return err
//	}
//	defer pinger.Close()
//
//	prober := pingsweep.New(pinger, pingsweep.WithConcurrency(64), pingsweep.WithTimeout(time.Second))
//	session, err := prober.Scan(ctx, subnet.Hosts(cfg).All())
//	for _, outcome := range session.Outcomes() {
//		fmt.Println(outcome.Addr, outcome.Status)
//	}
//
// Cancelling ctx stops launching probes, abandons the in-flight ones and
// leaves the session in the Interrupted state with every outcome collected
// so far.
//
// Privilege Requirements:
//   - Raw ICMP sockets require root/admin privileges on most systems
//   - ExecPinger delegates to the OS ping utility and classifies its exit status
package pingsweep
