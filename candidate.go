//go:build unix

package netx

import (
	"fmt"
	"net/netip"
	"sort"
	"strconv"

	"golang.org/x/sys/unix"
)

// Family is a socket address family.
type Family int

const (
	FamilyINET  Family = unix.AF_INET
	FamilyINET6 Family = unix.AF_INET6
)

// String returns the symbolic constant name, or the numeric value for
// an unrecognized family.
func (f Family) String() string {
	switch f {
	case FamilyINET:
		return "AF_INET"
	case FamilyINET6:
		return "AF_INET6"
	default:
		return strconv.Itoa(int(f))
	}
}

// SockType is a socket type.
type SockType int

const (
	SockStream SockType = unix.SOCK_STREAM
	SockDgram  SockType = unix.SOCK_DGRAM
)

func (t SockType) String() string {
	switch t {
	case SockStream:
		return "SOCK_STREAM"
	case SockDgram:
		return "SOCK_DGRAM"
	default:
		return strconv.Itoa(int(t))
	}
}

// Protocol is a transport protocol number.
type Protocol int

const (
	ProtoTCP Protocol = unix.IPPROTO_TCP
	ProtoUDP Protocol = unix.IPPROTO_UDP
)

func (p Protocol) String() string {
	switch p {
	case ProtoTCP:
		return "IPPROTO_TCP"
	case ProtoUDP:
		return "IPPROTO_UDP"
	default:
		return strconv.Itoa(int(p))
	}
}

// Candidate is one resolved address for an endpoint. Resolution yields
// zero or more candidates; order between families is not guaranteed by
// the resolver.
type Candidate struct {
	Family    Family
	SockType  SockType
	Protocol  Protocol
	CanonName string
	Addr      netip.AddrPort
}

// String renders the candidate for diagnostics. An empty canonical
// name renders as an empty quoted string.
func (c Candidate) String() string {
	name := c.CanonName
	if name == "" {
		name = `""`
	}
	return fmt.Sprintf("(%s, %s, %s, %s, %s)", c.Family, c.SockType, c.Protocol, name, c.Addr)
}

// SortByFamily orders candidates by address family: IPv6 first when
// preferIPv6 is set, IPv4 first otherwise. The sort is stable, so
// candidates of the same family keep their resolver order.
func SortByFamily(cands []Candidate, preferIPv6 bool) {
	sort.SliceStable(cands, func(i, j int) bool {
		if preferIPv6 {
			return cands[i].Family == FamilyINET6 && cands[j].Family != FamilyINET6
		}
		return cands[i].Family == FamilyINET && cands[j].Family != FamilyINET
	})
}

// sockaddr converts the candidate address for the raw socket calls.
func (c Candidate) sockaddr() unix.Sockaddr {
	if c.Family == FamilyINET6 {
		sa := &unix.SockaddrInet6{Port: int(c.Addr.Port())}
		sa.Addr = c.Addr.Addr().As16()
		return sa
	}
	sa := &unix.SockaddrInet4{Port: int(c.Addr.Port())}
	sa.Addr = c.Addr.Addr().As4()
	return sa
}
