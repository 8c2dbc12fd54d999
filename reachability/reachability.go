// Package reachability answers whether outbound connectivity is available
// at this moment. Every call queries the route state afresh; nothing is
// cached, so callers should check immediately before sending.
package reachability

import (
	"context"
	"fmt"
	"net"
)

// DefaultProbeAddress is a TEST-NET-1 address. Resolving a route to it
// exercises the default route without sending any traffic.
const DefaultProbeAddress = "192.0.2.1:9"

// Flags is the route state reported by a Source.
type Flags struct {
	// Reachable is set when a route to the default destination exists.
	Reachable bool

	// ConnectionRequired is set when the route exists but another step
	// (bringing up an interface, dialing on demand) is needed before use.
	ConnectionRequired bool
}

// Usable reports whether traffic can be sent right away.
func (f Flags) Usable() bool {
	return f.Reachable && !f.ConnectionRequired
}

// Source reports the current route state.
type Source interface {
	Flags(ctx context.Context) (Flags, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (Flags, error)

// Flags calls f(ctx).
func (f SourceFunc) Flags(ctx context.Context) (Flags, error) { return f(ctx) }

// Static is a Source with a fixed answer.
type Static bool

// Flags reports a usable route when s is true and no route otherwise.
func (s Static) Flags(context.Context) (Flags, error) {
	return Flags{Reachable: bool(s)}, nil
}

// Checker turns a Source into a yes/no answer.
type Checker struct {
	source Source
}

// Option configures a Checker.
type Option func(*Checker)

// WithSource replaces the default RouteProbe.
func WithSource(source Source) Option {
	return func(c *Checker) {
		if source != nil {
			c.source = source
		}
	}
}

// WithProbeAddress points the default RouteProbe at address.
func WithProbeAddress(address string) Option {
	return func(c *Checker) {
		c.source = &RouteProbe{Address: address}
	}
}

// New creates a Checker backed by a RouteProbe unless configured otherwise.
func New(opts ...Option) *Checker {
	c := &Checker{source: &RouteProbe{Address: DefaultProbeAddress}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports true only when a route exists and no further
// connection step is required. A failed query counts as unavailable.
func (c *Checker) Available(ctx context.Context) bool {
	flags, err := c.source.Flags(ctx)
	if err != nil {
		return false
	}
	return flags.Usable()
}

// RouteProbe asks the operating system to choose a route to Address by
// connecting an unbound UDP socket. Connecting a UDP socket sends nothing.
type RouteProbe struct {
	// Address is a host:port literal, DefaultProbeAddress when empty.
	Address string

	// Dial opens the probe socket; net.Dialer.DialContext when nil.
	Dial func(ctx context.Context, network, address string) (net.Conn, error)
}

// Flags reports Reachable when the kernel found a route. A route whose
// chosen local address is loopback or unspecified has no usable
// interface behind it and is reported as ConnectionRequired.
func (p *RouteProbe) Flags(ctx context.Context) (Flags, error) {
	address := p.Address
	if address == "" {
		address = DefaultProbeAddress
	}

	dial := p.Dial
	if dial == nil {
		var d net.Dialer
		dial = d.DialContext
	}

	conn, err := dial(ctx, "udp", address)
	if err != nil {
		return Flags{}, fmt.Errorf("probe route to %s: %w", address, err)
	}
	defer conn.Close()

	local, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || local.IP == nil {
		return Flags{Reachable: true, ConnectionRequired: true}, nil
	}

	return Flags{
		Reachable:          true,
		ConnectionRequired: local.IP.IsLoopback() || local.IP.IsUnspecified(),
	}, nil
}
