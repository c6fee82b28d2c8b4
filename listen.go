//go:build unix

package netx

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// listenBacklog is the backlog passed to listen(2).
const listenBacklog = 128

// ListenAll binds and listens on every candidate address of the
// endpoint, IPv4 candidates first. A dual-stack host typically yields
// one IPv4 and one IPv6 listener. Per-candidate failures are logged
// and skipped, so the result may be empty: callers must treat an empty
// result as fatal themselves, and must redo resolution by calling
// ListenAll again rather than expecting an internal retry.
func (n *Net) ListenAll(ctx context.Context, epnt Endpoint) []*Socket {
	n.logger.Debug("trying to listen", zap.Stringer("endpoint", epnt))

	cands := n.Resolve(ctx, epnt, true)
	SortByFamily(cands, false)

	var sockets []*Socket
	for _, cand := range cands {
		n.logger.Debug("listen attempt", zap.Stringer("candidate", cand))

		sock, err := n.listenCandidate(cand)
		if err != nil {
			n.logger.Warn("listen attempt failed",
				zap.Stringer("candidate", cand), zap.Error(err))
			continue
		}

		n.logger.Debug("listening",
			zap.Stringer("candidate", cand), zap.Int("fd", sock.Fd()))
		sockets = append(sockets, sock)
	}

	if len(sockets) == 0 {
		n.logger.Error("all listen attempts failed", zap.Stringer("endpoint", epnt))
	}

	return sockets
}

func (n *Net) listenCandidate(cand Candidate) (*Socket, error) {
	fd, err := n.sys.Socket(int(cand.Family), unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}

	if err := n.bindCandidate(fd, cand); err != nil {
		_ = n.sys.Close(fd)
		return nil, err
	}

	if err := n.sys.Listen(fd, listenBacklog); err != nil {
		_ = n.sys.Close(fd)
		return nil, fmt.Errorf("listen: %w", err)
	}

	return &Socket{fd: fd, family: cand.Family, sys: n.sys}, nil
}

func (n *Net) bindCandidate(fd int, cand Candidate) error {
	if err := n.sys.SetNonblock(fd, true); err != nil {
		return fmt.Errorf("set nonblocking: %w", err)
	}

	// Without SO_REUSEADDR a restart fails while the previous
	// listener lingers in TIME_WAIT.
	if err := n.sys.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fmt.Errorf("set SO_REUSEADDR: %w", err)
	}

	// Best effort: not every platform implements IPV6_V6ONLY.
	if cand.Family == FamilyINET6 {
		_ = n.sys.SetsockoptInt(fd, unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, 1)
	}

	if err := n.sys.Bind(fd, cand.sockaddr()); err != nil {
		return fmt.Errorf("bind: %w", err)
	}

	return nil
}
