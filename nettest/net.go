package nettest

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"gvisor.dev/gvisor/pkg/tcpip"
	"gvisor.dev/gvisor/pkg/tcpip/adapters/gonet"
	"gvisor.dev/gvisor/pkg/tcpip/network/ipv4"
	"gvisor.dev/gvisor/pkg/tcpip/network/ipv6"
)

// DialContext connects through the stack to a literal address. It has
// the shape of netx.DialContext so it can stand in for the resolver's
// nameserver dialer in tests.
func (s *Stack) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, fmt.Errorf("could not parse address %s: %w", address, err)
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return nil, fmt.Errorf("could not parse IP address %s: %w", host, err)
	}

	port, err := net.LookupPort(network, portStr)
	if err != nil {
		return nil, fmt.Errorf("could not resolve port %s: %w", portStr, err)
	}

	fa, pn := s.fullAddr(netip.AddrPortFrom(addr, uint16(port)))

	switch network {
	case "tcp", "tcp4", "tcp6":
		return gonet.DialContextTCP(ctx, s.Stack, fa, pn)
	case "udp", "udp4", "udp6":
		return gonet.DialUDP(s.Stack, nil, &fa, pn)
	default:
		return nil, fmt.Errorf("unsupported network type: %s", network)
	}
}

// ListenPacket binds a UDP socket on the stack at the given literal
// address.
func (s *Stack) ListenPacket(address string) (net.PacketConn, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, fmt.Errorf("could not parse address %s: %w", address, err)
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return nil, fmt.Errorf("could not parse IP address %s: %w", host, err)
	}

	port, err := net.LookupPort("udp", portStr)
	if err != nil {
		return nil, fmt.Errorf("could not resolve port %s: %w", portStr, err)
	}

	fa, pn := s.fullAddr(netip.AddrPortFrom(addr, uint16(port)))

	return gonet.DialUDP(s.Stack, &fa, nil, pn)
}

func (s *Stack) fullAddr(addrPort netip.AddrPort) (tcpip.FullAddress, tcpip.NetworkProtocolNumber) {
	var protoNumber tcpip.NetworkProtocolNumber
	if addrPort.Addr().Is4() {
		protoNumber = ipv4.ProtocolNumber
	} else {
		protoNumber = ipv6.ProtocolNumber
	}
	return tcpip.FullAddress{
		NIC:  s.NICID,
		Addr: tcpip.AddrFromSlice(addrPort.Addr().AsSlice()),
		Port: addrPort.Port(),
	}, protoNumber
}
