// Package portfinder picks a free local TCP port for the Argo CD tunnel.
package portfinder

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/argoboot/pkg/utils/logging"
	psnet "github.com/shirou/gopsutil/v4/net"
)

// ErrNoFreePort is returned when every port in the window is taken.
var ErrNoFreePort = errors.New("no free port")

// DefaultWindow is how far above the base port the scan goes.
const DefaultWindow = v1alpha1.PortWindow

const listenStatus = "LISTEN"

// Finder scans base..base+Window for a port that both binds and is absent from the
// listen table.
type Finder struct {
	Window int
	// CanBind reports whether a listener can be opened on port.
	CanBind func(port int) bool
	// Listening returns the ports currently in LISTEN state.
	Listening func(ctx context.Context) (map[int]bool, error)
}

// NewFinder returns a Finder probing the local host.
func NewFinder() *Finder {
	return &Finder{Window: DefaultWindow, CanBind: canBind, Listening: listeningPorts}
}

// Find returns the first port p in [base, base+Window] free by both checks.
func (f *Finder) Find(ctx context.Context, base int) (int, error) {
	listening, err := f.Listening(ctx)
	if err != nil {
		logging.For("portfinder").Warnf("listen table unavailable, relying on bind probe: %v", err)

		listening = map[int]bool{}
	}

	last := base + f.Window
	for port := base; port <= last; port++ {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("port scan cancelled: %w", ctx.Err())
		}

		if listening[port] {
			continue
		}

		if f.CanBind(port) {
			return port, nil
		}
	}

	return 0, fmt.Errorf("%w in %d-%d", ErrNoFreePort, base, last)
}

func canBind(port int) bool {
	listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		return false
	}

	_ = listener.Close()

	return true
}

func listeningPorts(ctx context.Context) (map[int]bool, error) {
	conns, err := psnet.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}

	ports := make(map[int]bool)

	for _, conn := range conns {
		if conn.Status == listenStatus {
			ports[int(conn.Laddr.Port)] = true
		}
	}

	return ports, nil
}
