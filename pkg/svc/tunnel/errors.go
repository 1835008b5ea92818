package tunnel

import "errors"

var (
	// ErrTunnelFailed is returned when the tunnel never answered a probe.
	ErrTunnelFailed = errors.New("tunnel failed")
	// ErrTunnelLost is returned by Hold when the tunnel died again after re-establishing.
	ErrTunnelLost = errors.New("tunnel lost")
)
