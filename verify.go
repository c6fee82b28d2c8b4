//go:build unix

package netx

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// errProbeReadable is the impossible state where getpeername reported
// the socket unconnected but a read on it succeeded anyway. It has
// never been observed in practice; seeing it means an assumption about
// the platform's socket semantics no longer holds.
var errProbeReadable = errors.New("netx: probe read succeeded on an unconnected socket")

// IsConnected reports whether a non-blocking connect started by
// ConnectOne completed successfully. Call it once the socket reports
// writable. A failed connect is logged with its underlying error and
// reported as false. See http://cr.yp.to/docs/connect.html for the
// technique.
func (n *Net) IsConnected(epnt Endpoint, sock *Socket) bool {
	connected, err := n.verifyConnected(epnt, sock)
	if err != nil {
		panic(err)
	}
	return connected
}

// verifyConnected distinguishes "determined not connected" (false,
// nil) from "platform assumption violated" (false, errProbeReadable).
func (n *Net) verifyConnected(epnt Endpoint, sock *Socket) (bool, error) {
	n.logger.Debug("checking connection", zap.Stringer("endpoint", epnt))

	_, peerErr := n.sys.Getpeername(sock.fd)
	if peerErr == nil {
		n.logger.Debug("connected", zap.Stringer("endpoint", epnt))
		return true, nil
	}

	// MacOS getpeername(2) fails with EINVAL rather than ENOTCONN
	// when the connect failed.
	if !errors.Is(peerErr, unix.ENOTCONN) && !errors.Is(peerErr, unix.EINVAL) {
		n.logger.Error("connect failed",
			zap.Stringer("endpoint", epnt), zap.Error(peerErr))
		return false, nil
	}

	// The socket is not connected. Getpeername alone does not surface
	// the underlying connect error; a read does.
	buf := make([]byte, 1024)
	if _, err := n.sys.Read(sock.fd, buf); err != nil {
		n.logger.Error("connect failed",
			zap.Stringer("endpoint", epnt), zap.Error(err))
		return false, nil
	}

	return false, errProbeReadable
}
