// Package nettest provides an in-memory dual-stack network, so tests
// can exercise resolution and dialing without touching the host
// network stack.
package nettest

import (
	"context"
	"fmt"
	"net/netip"
	"sync"
	"syscall"

	"gvisor.dev/gvisor/pkg/buffer"
	"gvisor.dev/gvisor/pkg/tcpip"
	"gvisor.dev/gvisor/pkg/tcpip/header"
	"gvisor.dev/gvisor/pkg/tcpip/link/channel"
	"gvisor.dev/gvisor/pkg/tcpip/network/ipv4"
	"gvisor.dev/gvisor/pkg/tcpip/network/ipv6"
	"gvisor.dev/gvisor/pkg/tcpip/stack"
	"gvisor.dev/gvisor/pkg/tcpip/transport/icmp"
	"gvisor.dev/gvisor/pkg/tcpip/transport/tcp"
	"gvisor.dev/gvisor/pkg/tcpip/transport/udp"
)

// Stack is a userspace network stack with a single NIC and address.
type Stack struct {
	*stack.Stack
	NICID  tcpip.NICID
	linkEP *channel.Endpoint
}

// NewStack creates a stack owning addr. Pair two stacks with
// SplicePackets to simulate a two-host network.
func NewStack(addr netip.Addr) (*Stack, error) {
	opts := stack.Options{
		NetworkProtocols: []stack.NetworkProtocolFactory{
			ipv4.NewProtocol,
			ipv6.NewProtocol,
		},
		TransportProtocols: []stack.TransportProtocolFactory{
			tcp.NewProtocol,
			udp.NewProtocol,
			icmp.NewProtocol4,
			icmp.NewProtocol6,
		},
	}

	ipstack := stack.New(opts)

	nicID := ipstack.NextNICID()
	linkEP := channel.New(4096, 1280, "")

	if tcpipErr := ipstack.CreateNIC(nicID, linkEP); tcpipErr != nil {
		return nil, fmt.Errorf("could not create NIC: %v", tcpipErr)
	}

	ipstack.SetRouteTable([]tcpip.Route{
		{
			Destination: header.IPv4EmptySubnet,
			NIC:         nicID,
		},
		{
			Destination: header.IPv6EmptySubnet,
			NIC:         nicID,
		},
	})

	var protoNumber tcpip.NetworkProtocolNumber
	if addr.Is4() {
		protoNumber = ipv4.ProtocolNumber
	} else {
		protoNumber = ipv6.ProtocolNumber
	}
	protoAddr := tcpip.ProtocolAddress{
		Protocol:          protoNumber,
		AddressWithPrefix: tcpip.AddrFromSlice(addr.AsSlice()).WithPrefix(),
	}
	if tcpipErr := ipstack.AddProtocolAddress(nicID, protoAddr, stack.AddressProperties{}); tcpipErr != nil {
		return nil, fmt.Errorf("could not assign address: %v", tcpipErr)
	}

	return &Stack{
		Stack:  ipstack,
		NICID:  nicID,
		linkEP: linkEP,
	}, nil
}

// Close tears down the stack's NIC and link endpoint.
func (s *Stack) Close() {
	s.RemoveNIC(s.NICID)
	s.linkEP.Close()
}

// ReadPacket returns the next outbound packet, waiting until one is
// available or the context is canceled.
func (s *Stack) ReadPacket(ctx context.Context) ([]byte, error) {
	var pkt *stack.PacketBuffer
	for pkt == nil {
		pkt = s.linkEP.Read()
		if pkt == nil {
			notify := newOneshotNotification(s.linkEP)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-notify.Done():
			}
		}
	}

	view := pkt.ToView()
	pkt.DecRef()

	packet := make([]byte, s.linkEP.MTU())
	n, err := view.Read(packet)
	if err != nil {
		return nil, err
	}

	return packet[:n], nil
}

// WritePacket injects an inbound packet into the stack.
func (s *Stack) WritePacket(packet []byte) (int, error) {
	pkb := stack.NewPacketBuffer(stack.PacketBufferOptions{Payload: buffer.MakeWithData(packet)})
	switch packet[0] >> 4 {
	case 4:
		s.linkEP.InjectInbound(header.IPv4ProtocolNumber, pkb)
	case 6:
		s.linkEP.InjectInbound(header.IPv6ProtocolNumber, pkb)
	default:
		return 0, syscall.EAFNOSUPPORT
	}

	return len(packet), nil
}

type oneshotNotification struct {
	mu     sync.Mutex
	ch     chan struct{}
	ep     *channel.Endpoint
	handle *channel.NotificationHandle
}

func newOneshotNotification(ep *channel.Endpoint) *oneshotNotification {
	notify := &oneshotNotification{
		ch: make(chan struct{}),
		ep: ep,
	}

	notify.handle = ep.AddNotify(notify)
	return notify
}

func (o *oneshotNotification) WriteNotify() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ch != nil {
		close(o.ch)
		o.ch = nil
	}
	if o.handle != nil {
		o.ep.RemoveNotify(o.handle)
		o.handle = nil
	}
}

func (o *oneshotNotification) Done() <-chan struct{} {
	return o.ch
}
