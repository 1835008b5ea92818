package tunnel

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/devantler-tech/argoboot/pkg/utils/logging"
)

// DefaultBinary runs the forwarder.
const DefaultBinary = "kubectl"

// Options describe the forwarded service and the probing budget.
type Options struct {
	Kubeconfig string
	Context    string
	Namespace  string
	Service    string
	LocalPort  int
	RemotePort int

	Attempts     int
	RetryDelay   time.Duration
	ProbeTimeout time.Duration
}

// ProbeFunc checks that addr answers within timeout.
type ProbeFunc func(ctx context.Context, addr string, timeout time.Duration) error

// Supervisor owns one port-forward process.
type Supervisor struct {
	opts   Options
	binary string
	start  StartFunc
	probe  ProbeFunc
	sleep  func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	proc  Process
	state State
}

// NewSupervisor returns a Supervisor running kubectl.
func NewSupervisor(opts Options) *Supervisor {
	return &Supervisor{
		opts:   opts,
		binary: DefaultBinary,
		start:  StartProcess,
		probe:  ProbeTLS,
		sleep:  sleepContext,
	}
}

// WithStarter replaces how the forwarder is launched.
func (s *Supervisor) WithStarter(start StartFunc) *Supervisor {
	s.start = start

	return s
}

// WithProbe replaces the liveness probe.
func (s *Supervisor) WithProbe(probe ProbeFunc) *Supervisor {
	s.probe = probe

	return s
}

// WithSleep replaces the wait between probes.
func (s *Supervisor) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Supervisor {
	s.sleep = sleep

	return s
}

// Args returns the kubectl arguments of the forwarder.
func (s *Supervisor) Args() []string {
	args := []string{
		"port-forward",
		"svc/" + s.opts.Service,
		"-n", s.opts.Namespace,
		fmt.Sprintf("%d:%d", s.opts.LocalPort, s.opts.RemotePort),
	}

	if s.opts.Kubeconfig != "" {
		args = append(args, "--kubeconfig", s.opts.Kubeconfig)
	}

	if s.opts.Context != "" {
		args = append(args, "--context", s.opts.Context)
	}

	return args
}

// Addr is the local address the tunnel listens on.
func (s *Supervisor) Addr() string {
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(s.opts.LocalPort))
}

// State returns the current state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Establish starts the forwarder and probes it until it answers. A forwarder that exits
// between probes is restarted without resetting the attempt count. When every attempt
// fails the forwarder is stopped and ErrTunnelFailed returned.
func (s *Supervisor) Establish(ctx context.Context) error {
	log := logging.For("tunnel")
	attempts := max(s.opts.Attempts, 1)

	s.setState(StateProbing)

	err := s.restart(ctx)
	if err != nil {
		s.setState(StateFailed)

		return fmt.Errorf("%w: %w", ErrTunnelFailed, err)
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		if s.exited() {
			log.Debugf("forwarder exited, restarting (attempt %d/%d)", attempt, attempts)

			err = s.restart(ctx)
			if err != nil {
				log.Debugf("restart failed: %v", err)
			}
		}

		err = s.probe(ctx, s.Addr(), s.opts.ProbeTimeout)
		if err == nil {
			s.setState(StateStable)
			log.Debugf("tunnel on %s stable after %d attempt(s)", s.Addr(), attempt)

			return nil
		}

		log.Debugf("probe %d/%d on %s failed: %v", attempt, attempts, s.Addr(), err)

		if attempt == attempts {
			break
		}

		sleepErr := s.sleep(ctx, s.opts.RetryDelay)
		if sleepErr != nil {
			_ = s.Close()
			s.setState(StateFailed)

			return fmt.Errorf("%w: %w", ErrTunnelFailed, sleepErr)
		}
	}

	_ = s.Close()
	s.setState(StateFailed)

	return fmt.Errorf("%w: no response on %s after %d attempts: %w", ErrTunnelFailed, s.Addr(), attempts, err)
}

// Hold blocks until ctx is cancelled. If the forwarder exits meanwhile it is
// re-established once; a second exit returns ErrTunnelLost.
func (s *Supervisor) Hold(ctx context.Context) error {
	reestablished := false

	for {
		done := s.doneChan()

		select {
		case <-ctx.Done():
			return nil
		case <-done:
		}

		if reestablished {
			s.setState(StateFailed)

			return fmt.Errorf("%w: forwarder on %s exited", ErrTunnelLost, s.Addr())
		}

		logging.For("tunnel").Warnf("forwarder on %s exited, re-establishing", s.Addr())

		reestablished = true

		err := s.Establish(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return err
		}
	}
}

// Close stops the forwarder if one is running. It is safe to call repeatedly.
func (s *Supervisor) Close() error {
	s.mu.Lock()
	proc := s.proc
	s.proc = nil
	s.mu.Unlock()

	if proc == nil {
		return nil
	}

	err := proc.Stop()
	if err != nil {
		return fmt.Errorf("stop forwarder: %w", err)
	}

	return nil
}

// Pid of the running forwarder, or 0.
func (s *Supervisor) Pid() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.proc == nil {
		return 0
	}

	return s.proc.Pid()
}

func (s *Supervisor) restart(ctx context.Context) error {
	_ = s.Close()

	proc, err := s.start(ctx, s.binary, s.Args()...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.proc = proc
	s.mu.Unlock()

	return nil
}

func (s *Supervisor) exited() bool {
	done := s.doneChan()
	if done == nil {
		return true
	}

	select {
	case <-done:
		return true
	default:
		return false
	}
}

// doneChan returns nil when no forwarder is tracked; receiving from it blocks forever.
func (s *Supervisor) doneChan() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.proc == nil {
		return nil
	}

	return s.proc.Done()
}

func (s *Supervisor) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// ProbeTLS completes a TLS handshake with addr. The Argo CD server certificate is
// self-signed, so verification is skipped.
func ProbeTLS(ctx context.Context, addr string, timeout time.Duration) error {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: timeout},
		Config:    &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // self-signed server certificate
	}

	conn, err := dialer.DialContext(probeCtx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("tls handshake with %s: %w", addr, err)
	}

	_ = conn.Close()

	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
