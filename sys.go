//go:build unix

package netx

import "golang.org/x/sys/unix"

// sysOps abstracts the raw socket calls so tests can fail individual
// steps and observe descriptor lifetimes without touching the host
// network stack.
type sysOps interface {
	Socket(domain, typ, proto int) (int, error)
	SetNonblock(fd int, nonblocking bool) error
	SetsockoptInt(fd, level, opt, value int) error
	Bind(fd int, sa unix.Sockaddr) error
	Listen(fd, backlog int) error
	Connect(fd int, sa unix.Sockaddr) error
	Getpeername(fd int) (unix.Sockaddr, error)
	Getsockname(fd int) (unix.Sockaddr, error)
	Read(fd int, p []byte) (int, error)
	Close(fd int) error
}

var _ sysOps = osSys{}

// osSys is the production implementation of sysOps.
type osSys struct{}

func (osSys) Socket(domain, typ, proto int) (int, error) {
	return unix.Socket(domain, typ, proto)
}

func (osSys) SetNonblock(fd int, nonblocking bool) error {
	return unix.SetNonblock(fd, nonblocking)
}

func (osSys) SetsockoptInt(fd, level, opt, value int) error {
	return unix.SetsockoptInt(fd, level, opt, value)
}

func (osSys) Bind(fd int, sa unix.Sockaddr) error {
	return unix.Bind(fd, sa)
}

func (osSys) Listen(fd, backlog int) error {
	return unix.Listen(fd, backlog)
}

func (osSys) Connect(fd int, sa unix.Sockaddr) error {
	return unix.Connect(fd, sa)
}

func (osSys) Getpeername(fd int) (unix.Sockaddr, error) {
	return unix.Getpeername(fd)
}

func (osSys) Getsockname(fd int) (unix.Sockaddr, error) {
	return unix.Getsockname(fd)
}

func (osSys) Read(fd int, p []byte) (int, error) {
	return unix.Read(fd, p)
}

func (osSys) Close(fd int) error {
	return unix.Close(fd)
}
