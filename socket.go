//go:build unix

package netx

import (
	"net/netip"

	"golang.org/x/sys/unix"
)

// Socket owns one non-blocking stream socket. The search loops close
// every candidate socket they abandon; a Socket returned to the caller
// is the caller's to close.
type Socket struct {
	fd     int
	family Family
	sys    sysOps
}

// Fd returns the underlying file descriptor, for registration with an
// external readiness mechanism.
func (s *Socket) Fd() int { return s.fd }

// Family returns the socket's address family.
func (s *Socket) Family() Family { return s.family }

// Close releases the descriptor.
func (s *Socket) Close() error { return s.sys.Close(s.fd) }

// PeerName returns the remote endpoint. IPv4-mapped notation is
// stripped from the address, so callers never see an IPv4 peer in its
// IPv6 representation.
func (s *Socket) PeerName() (Endpoint, error) {
	sa, err := s.sys.Getpeername(s.fd)
	if err != nil {
		return Endpoint{}, err
	}
	return endpointFromSockaddr(sa), nil
}

// SockName returns the local endpoint, normalized like PeerName.
func (s *Socket) SockName() (Endpoint, error) {
	sa, err := s.sys.Getsockname(s.fd)
	if err != nil {
		return Endpoint{}, err
	}
	return endpointFromSockaddr(sa), nil
}

func endpointFromSockaddr(sa unix.Sockaddr) Endpoint {
	switch sa := sa.(type) {
	case *unix.SockaddrInet4:
		addr := netip.AddrFrom4(sa.Addr)
		return Endpoint{Host: addr.String(), Port: uint16(sa.Port)}
	case *unix.SockaddrInet6:
		addr := netip.AddrFrom16(sa.Addr)
		return Endpoint{Host: StripIPv4MappedPrefix(addr.String()), Port: uint16(sa.Port)}
	default:
		return Endpoint{}
	}
}
