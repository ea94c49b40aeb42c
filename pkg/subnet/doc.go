// Package subnet computes the usable host addresses of an IPv4 network.
//
// A network is described by a NetworkConfig (address plus prefix length).
// Hosts returns every address strictly between the network address and the
// broadcast address, in ascending order:
//
//	cfg, err := subnet.ParseNetworkConfig("192.168.1.10", 29)
//	for ip := range subnet.Hosts(cfg).All() {
//		// 192.168.1.9 ... 192.168.1.14
//	}
//
// /31 and /32 networks have no usable hosts and yield an empty range.
// Only IPv4 is supported.
package subnet
