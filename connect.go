//go:build unix

package netx

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// inProgress reports whether a connect(2) result means the attempt was
// initiated and will complete later. Winsock reports EWOULDBLOCK where
// POSIX reports EINPROGRESS.
func inProgress(err error) bool {
	return err == nil ||
		errors.Is(err, unix.EINPROGRESS) ||
		errors.Is(err, unix.EWOULDBLOCK) ||
		errors.Is(err, unix.EAGAIN)
}

// ConnectOne starts a non-blocking connect to the first workable
// candidate of the endpoint, trying IPv6 candidates first when
// preferIPv6 is set. The returned socket is connecting, not connected:
// hand it to a readiness mechanism and call IsConnected once the
// socket reports writable. Returns nil when no candidate accepts a
// connection attempt.
func (n *Net) ConnectOne(ctx context.Context, epnt Endpoint, preferIPv6 bool) *Socket {
	n.logger.Debug("trying to connect", zap.Stringer("endpoint", epnt))

	cands := n.Resolve(ctx, epnt, false)
	SortByFamily(cands, preferIPv6)

	for _, cand := range cands {
		n.logger.Debug("connect attempt", zap.Stringer("candidate", cand))

		sock, err := n.connectCandidate(cand)
		if err != nil {
			n.logger.Warn("connect attempt failed",
				zap.Stringer("candidate", cand), zap.Error(err))
			continue
		}

		n.logger.Debug("connect in progress",
			zap.Stringer("candidate", cand), zap.Int("fd", sock.Fd()))
		return sock
	}

	n.logger.Error("all connect attempts failed", zap.Stringer("endpoint", epnt))
	return nil
}

func (n *Net) connectCandidate(cand Candidate) (*Socket, error) {
	fd, err := n.sys.Socket(int(cand.Family), unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}

	if err := n.sys.SetNonblock(fd, true); err != nil {
		_ = n.sys.Close(fd)
		return nil, fmt.Errorf("set nonblocking: %w", err)
	}

	if err := n.sys.Connect(fd, cand.sockaddr()); err != nil && !inProgress(err) {
		_ = n.sys.Close(fd)
		return nil, fmt.Errorf("connect: %w", err)
	}

	return &Socket{fd: fd, family: cand.Family, sys: n.sys}, nil
}
