// Package prescan orders the hosts of a network so the ones most likely to
// be online are probed first, based on real-world allocation patterns.
// An interrupted scan then holds the most useful partial results.
//
// Priority tiers (0-100), by last octet:
//   - 100: .1, .254 (routers/gateways)
//   - 90:  .2-.5, .250-.253 (reserved infrastructure)
//   - 80:  .6-.10 (early DHCP)
//   - 70:  .50, .100, .150 (DHCP peaks)
//   - 50:  .51-.99, .101-.149, .151-.200 (main DHCP pool)
//   - 20:  .11-.49, .201-.249 (long-tail)
//   - 0:   network and broadcast addresses
//
// Example:
//
//	ordered := prescan.Order(subnet.Hosts(cfg).Slice(), cfg.Prefix())
package prescan
