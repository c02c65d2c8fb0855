package reporting

import (
	"fmt"
	"net"
	"strconv"
)

// Endpoint is where payloads are delivered: a TCP address or a named pipe
type Endpoint struct {
	Network string // "tcp" or "unix"
	Address string
}

// TCP returns the endpoint for host:port
func TCP(host string, port int) Endpoint {
	return Endpoint{Network: "tcp", Address: net.JoinHostPort(host, strconv.Itoa(port))}
}

// Pipe returns the endpoint for a named pipe (a unix domain socket)
func Pipe(path string) Endpoint {
	return Endpoint{Network: "unix", Address: path}
}

// Host is the value of the Host header for requests sent to e
func (e Endpoint) Host() string {
	if e.Network == "unix" {
		return "localhost"
	}
	return e.Address
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s://%s", e.Network, e.Address)
}
