package netx

import (
	"strconv"
	"strings"
)

// Endpoint is a host/port pair identifying a connect destination or a
// bind target. An empty Host means the wildcard address when listening
// and the resolver default when connecting.
type Endpoint struct {
	Host string
	Port uint16
}

// String renders the endpoint as host:port, wrapping literal IPv6
// hosts in brackets. An empty host renders as ":port".
func (e Endpoint) String() string {
	host := e.Host
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return host + ":" + strconv.Itoa(int(e.Port))
}

// Web100String renders the endpoint in the web100 legacy text form,
// which joins host and port with a dot when the host is a literal
// IPv6 address and with a colon otherwise.
func (e Endpoint) Web100String() string {
	sep := ":"
	if strings.Contains(e.Host, ":") {
		sep = "."
	}
	return e.Host + sep + strconv.Itoa(int(e.Port))
}
