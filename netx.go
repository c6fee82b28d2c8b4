//go:build unix

// Package netx sets up dual-stack TCP sockets for reactor-style I/O.
//
// A [Net] resolves an [Endpoint] to one or more candidate addresses,
// orders them by address family, and walks the candidates with
// non-blocking sockets: [Net.ListenAll] binds and listens on every
// workable candidate, while [Net.ConnectOne] returns the first socket
// whose connect was initiated. Completion of a non-blocking connect is
// checked later with [Net.IsConnected], once an external readiness
// mechanism reports the socket writable.
//
// Per-candidate failures are absorbed: they are logged through the
// configured logger and the search moves on. Only total exhaustion is
// surfaced, as an empty or nil result, never as an error.
package netx

import (
	"go.uber.org/zap"
)

// Config configures a [Net].
type Config struct {
	// Logger receives per-step diagnostics. If nil, logging is
	// disabled.
	Logger *zap.Logger
	// Resolve overrides the system resolver. If nil, the system
	// default resolver is used.
	Resolve *ResolveConfig
}

// Net resolves endpoints and sets up non-blocking dual-stack sockets.
// A Net holds no mutable state; its methods may be called concurrently
// for different endpoints.
type Net struct {
	logger  *zap.Logger
	resolve *ResolveConfig
	sys     sysOps
}

// New creates a Net with the given configuration. A nil conf selects
// the defaults: no logging and the system resolver.
func New(conf *Config) *Net {
	if conf == nil {
		conf = &Config{}
	}

	logger := conf.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Net{
		logger:  logger,
		resolve: conf.Resolve,
		sys:     osSys{},
	}
}
