//go:build unix

package netx

import (
	"context"
	"math/rand/v2"
	"net"
	"net/netip"
	"strings"

	"github.com/miekg/dns"
	"go.uber.org/zap"
)

// DialContext is the dial function used to reach a custom nameserver.
type DialContext func(ctx context.Context, network, address string) (net.Conn, error)

// ResolveConfig overrides the system resolver.
type ResolveConfig struct {
	// Nameservers to query instead of the system resolver. A
	// nameserver without a port gets the default DNS port.
	Nameservers []string
	// SearchDomains tried, in order, for relative names.
	SearchDomains []string
	// Ndots is the number of dots a name needs before it is queried
	// absolutely first. Defaults to 1.
	Ndots int
	// DialContext reaches a nameserver. If nil, a plain net.Dialer
	// is used.
	DialContext DialContext
}

func (r *ResolveConfig) lookupHost(ctx context.Context, host string) ([]string, error) {
	dial := r.DialContext
	if dial == nil {
		dial = func(ctx context.Context, network, address string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, address)
		}
	}

	resolver := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			ns := r.Nameservers[rand.IntN(len(r.Nameservers))]

			// If the nameserver does not have a port, add the default DNS port.
			if _, _, err := net.SplitHostPort(ns); err != nil {
				ns = net.JoinHostPort(ns, "53")
			}

			return dial(ctx, network, ns)
		},
	}

	ndots := r.Ndots
	if ndots <= 0 {
		ndots = 1
	}

	// Relative names go through the search list first.
	if strings.Count(host, ".") < ndots && !dns.IsFqdn(host) {
		for _, domain := range r.SearchDomains {
			addrs, err := resolver.LookupHost(ctx, host+"."+domain)
			if err == nil && len(addrs) > 0 {
				return addrs, nil
			}
		}
	}

	return resolver.LookupHost(ctx, host)
}

// Resolve maps an endpoint to its candidate addresses, requesting
// stream results for both address families. passive selects results
// suitable for binding: an empty host then yields the wildcard address
// of each family rather than the loopbacks. Resolution failure is
// logged and yields no candidates; it is never surfaced as an error.
func (n *Net) Resolve(ctx context.Context, epnt Endpoint, passive bool) []Candidate {
	n.logger.Debug("resolving endpoint",
		zap.Stringer("endpoint", epnt), zap.Bool("passive", passive))

	var addrs []netip.Addr
	switch {
	case epnt.Host == "" && passive:
		addrs = []netip.Addr{netip.IPv6Unspecified(), netip.IPv4Unspecified()}
	case epnt.Host == "":
		addrs = []netip.Addr{netip.IPv6Loopback(), netip.MustParseAddr("127.0.0.1")}
	default:
		if addr, err := netip.ParseAddr(epnt.Host); err == nil {
			addrs = []netip.Addr{addr}
			break
		}

		hosts, err := n.lookupHost(ctx, epnt.Host)
		if err != nil {
			n.logger.Error("name resolution failed",
				zap.Stringer("endpoint", epnt), zap.Error(err))
			return nil
		}

		for _, host := range hosts {
			addr, err := netip.ParseAddr(host)
			if err != nil {
				n.logger.Warn("resolver returned an unparsable address",
					zap.String("address", host), zap.Error(err))
				continue
			}
			addrs = append(addrs, addr)
		}
	}

	cands := make([]Candidate, 0, len(addrs))
	for _, addr := range addrs {
		family := FamilyINET6
		if addr.Is4() || addr.Is4In6() {
			family = FamilyINET
		}

		cand := Candidate{
			Family:   family,
			SockType: SockStream,
			Protocol: ProtoTCP,
			Addr:     netip.AddrPortFrom(addr, epnt.Port),
		}
		n.logger.Debug("resolver returned", zap.Stringer("candidate", cand))

		cands = append(cands, cand)
	}

	return cands
}

func (n *Net) lookupHost(ctx context.Context, host string) ([]string, error) {
	if n.resolve != nil && len(n.resolve.Nameservers) > 0 {
		return n.resolve.lookupHost(ctx, host)
	}
	return net.DefaultResolver.LookupHost(ctx, host)
}
