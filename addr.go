package netx

import "strings"

// StripIPv4MappedPrefix removes the IPv4-mapped ("::ffff:") or
// IPv4-compatible ("::") prefix from a textual address, exposing the
// embedded IPv4 literal. The IPv6 loopback "::1" is returned
// untouched. Kernels without a hard separation between IPv4 and IPv6
// report IPv4 peers using these notations.
func StripIPv4MappedPrefix(addr string) string {
	if strings.HasPrefix(addr, "::ffff:") {
		return strings.TrimPrefix(addr, "::ffff:")
	}
	if strings.HasPrefix(addr, "::") && addr != "::1" {
		return strings.TrimPrefix(addr, "::")
	}
	return addr
}
