//go:build unix

package netx

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sys/unix"
)

// fakeSys implements sysOps in memory. Hook fields left nil make the
// corresponding call succeed.
type fakeSys struct {
	nextFD   int
	opened   []int
	closed   []int
	families map[int]int
	sockopts []sockoptCall
	backlogs []int
	reads    int

	socketErr   error
	nonblockErr error
	sockoptErr  func(fd, level, opt int) error
	bindErr     func(fd int, sa unix.Sockaddr) error
	listenErr   func(fd int) error
	connectErr  func(fd int, sa unix.Sockaddr) error
	peerSA      unix.Sockaddr
	peerErr     error
	sockSA      unix.Sockaddr
	sockErr     error
	readN       int
	readErr     error
}

type sockoptCall struct {
	fd, level, opt, value int
}

var _ sysOps = (*fakeSys)(nil)

func newFakeSys() *fakeSys {
	return &fakeSys{nextFD: 3, families: make(map[int]int)}
}

func (f *fakeSys) Socket(domain, typ, proto int) (int, error) {
	if f.socketErr != nil {
		return -1, f.socketErr
	}
	fd := f.nextFD
	f.nextFD++
	f.opened = append(f.opened, fd)
	f.families[fd] = domain
	return fd, nil
}

func (f *fakeSys) SetNonblock(fd int, nonblocking bool) error {
	return f.nonblockErr
}

func (f *fakeSys) SetsockoptInt(fd, level, opt, value int) error {
	if f.sockoptErr != nil {
		if err := f.sockoptErr(fd, level, opt); err != nil {
			return err
		}
	}
	f.sockopts = append(f.sockopts, sockoptCall{fd, level, opt, value})
	return nil
}

func (f *fakeSys) Bind(fd int, sa unix.Sockaddr) error {
	if f.bindErr != nil {
		return f.bindErr(fd, sa)
	}
	return nil
}

func (f *fakeSys) Listen(fd, backlog int) error {
	if f.listenErr != nil {
		if err := f.listenErr(fd); err != nil {
			return err
		}
	}
	f.backlogs = append(f.backlogs, backlog)
	return nil
}

func (f *fakeSys) Connect(fd int, sa unix.Sockaddr) error {
	if f.connectErr != nil {
		return f.connectErr(fd, sa)
	}
	return nil
}

func (f *fakeSys) Getpeername(fd int) (unix.Sockaddr, error) {
	return f.peerSA, f.peerErr
}

func (f *fakeSys) Getsockname(fd int) (unix.Sockaddr, error) {
	return f.sockSA, f.sockErr
}

func (f *fakeSys) Read(fd int, p []byte) (int, error) {
	f.reads++
	if f.readErr != nil {
		return 0, f.readErr
	}
	return f.readN, nil
}

func (f *fakeSys) Close(fd int) error {
	f.closed = append(f.closed, fd)
	return nil
}

// fdsOfFamily returns the created descriptors of one address family,
// in creation order.
func (f *fakeSys) fdsOfFamily(family int) []int {
	var fds []int
	for _, fd := range f.opened {
		if f.families[fd] == family {
			fds = append(fds, fd)
		}
	}
	return fds
}

// newTestNet wires a Net to the fake syscall layer and an observable
// logger.
func newTestNet(sys sysOps, conf *Config) (*Net, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	if conf == nil {
		conf = &Config{}
	}
	conf.Logger = zap.New(core)

	n := New(conf)
	n.sys = sys
	return n, logs
}
