//go:build unix

package netx_test

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neubot/netx"
)

func cand(family netx.Family, addrPort string) netx.Candidate {
	return netx.Candidate{
		Family:   family,
		SockType: netx.SockStream,
		Protocol: netx.ProtoTCP,
		Addr:     netip.MustParseAddrPort(addrPort),
	}
}

func TestSortByFamilyIsStable(t *testing.T) {
	cands := []netx.Candidate{
		cand(netx.FamilyINET, "192.0.2.1:80"),
		cand(netx.FamilyINET6, "[2001:db8::1]:80"),
		cand(netx.FamilyINET, "192.0.2.2:80"),
		cand(netx.FamilyINET6, "[2001:db8::2]:80"),
	}

	t.Run("prefer IPv6", func(t *testing.T) {
		sorted := append([]netx.Candidate(nil), cands...)
		netx.SortByFamily(sorted, true)

		assert.Equal(t, []netx.Candidate{
			cand(netx.FamilyINET6, "[2001:db8::1]:80"),
			cand(netx.FamilyINET6, "[2001:db8::2]:80"),
			cand(netx.FamilyINET, "192.0.2.1:80"),
			cand(netx.FamilyINET, "192.0.2.2:80"),
		}, sorted)
	})

	t.Run("prefer IPv4", func(t *testing.T) {
		sorted := append([]netx.Candidate(nil), cands...)
		netx.SortByFamily(sorted, false)

		assert.Equal(t, []netx.Candidate{
			cand(netx.FamilyINET, "192.0.2.1:80"),
			cand(netx.FamilyINET, "192.0.2.2:80"),
			cand(netx.FamilyINET6, "[2001:db8::1]:80"),
			cand(netx.FamilyINET6, "[2001:db8::2]:80"),
		}, sorted)
	})
}

func TestCandidateString(t *testing.T) {
	c := cand(netx.FamilyINET6, "[::1]:80")
	assert.Equal(t, `(AF_INET6, SOCK_STREAM, IPPROTO_TCP, "", [::1]:80)`, c.String())

	c = cand(netx.FamilyINET, "10.0.0.1:80")
	c.CanonName = "example.com"
	assert.Equal(t, `(AF_INET, SOCK_STREAM, IPPROTO_TCP, example.com, 10.0.0.1:80)`, c.String())
}

func TestCandidateStringUnknownConstants(t *testing.T) {
	c := netx.Candidate{
		Family:   netx.Family(99),
		SockType: netx.SockType(42),
		Protocol: netx.Protocol(7),
		Addr:     netip.MustParseAddrPort("10.0.0.1:80"),
	}
	assert.Equal(t, `(99, 42, 7, "", 10.0.0.1:80)`, c.String())
}
