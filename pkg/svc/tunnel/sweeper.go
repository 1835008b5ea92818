package tunnel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/devantler-tech/argoboot/pkg/utils/logging"
	"github.com/shirou/gopsutil/v4/process"
)

// ProcessHandle is the view of an OS process the Sweeper needs.
type ProcessHandle interface {
	Pid() int32
	Cmdline(ctx context.Context) (string, error)
	Terminate(ctx context.Context) error
	Kill(ctx context.Context) error
	IsRunning(ctx context.Context) (bool, error)
}

// Sweeper terminates forwarders whose command line contains every pattern.
type Sweeper struct {
	Patterns []string
	Grace    time.Duration
	List     func(ctx context.Context) ([]ProcessHandle, error)
}

// ForwarderPatterns match a kubectl port-forward to service.
func ForwarderPatterns(service string) []string {
	return []string{"port-forward", "svc/" + service}
}

// NewSweeper returns a Sweeper over the host process table.
func NewSweeper(patterns ...string) *Sweeper {
	return &Sweeper{Patterns: patterns, Grace: 2 * time.Second, List: listProcesses} //nolint:mnd
}

// KillMatching terminates every matching process other than the current one and
// returns their pids. Processes that ignore SIGTERM past Grace are killed.
func (s *Sweeper) KillMatching(ctx context.Context) ([]int32, error) {
	if len(s.Patterns) == 0 {
		return nil, nil
	}

	procs, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	log := logging.For("sweeper")
	self := int32(os.Getpid()) //nolint:gosec // pids fit in int32

	var (
		killed []int32
		errs   []error
	)

	for _, proc := range procs {
		if proc.Pid() == self {
			continue
		}

		cmdline, err := proc.Cmdline(ctx)
		if err != nil || !s.matches(cmdline) {
			continue
		}

		log.Debugf("terminating pid %d: %s", proc.Pid(), cmdline)

		err = s.terminate(ctx, proc)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		killed = append(killed, proc.Pid())
	}

	return killed, errors.Join(errs...)
}

func (s *Sweeper) matches(cmdline string) bool {
	for _, pattern := range s.Patterns {
		if !strings.Contains(cmdline, pattern) {
			return false
		}
	}

	return true
}

func (s *Sweeper) terminate(ctx context.Context, proc ProcessHandle) error {
	err := proc.Terminate(ctx)
	if err != nil {
		running, runErr := proc.IsRunning(ctx)
		if runErr == nil && !running {
			return nil
		}

		return fmt.Errorf("terminate pid %d: %w", proc.Pid(), err)
	}

	deadline := time.Now().Add(s.Grace)
	for time.Now().Before(deadline) {
		running, err := proc.IsRunning(ctx)
		if err == nil && !running {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("terminate pid %d: %w", proc.Pid(), ctx.Err())
		case <-time.After(100 * time.Millisecond): //nolint:mnd
		}
	}

	err = proc.Kill(ctx)
	if err != nil {
		return fmt.Errorf("kill pid %d: %w", proc.Pid(), err)
	}

	return nil
}

type gopsutilProcess struct {
	*process.Process
}

func (p gopsutilProcess) Pid() int32 { return p.Process.Pid }

func (p gopsutilProcess) Cmdline(ctx context.Context) (string, error) {
	return p.CmdlineWithContext(ctx) //nolint:wrapcheck
}

func (p gopsutilProcess) Terminate(ctx context.Context) error {
	return p.TerminateWithContext(ctx) //nolint:wrapcheck
}

func (p gopsutilProcess) Kill(ctx context.Context) error {
	return p.KillWithContext(ctx) //nolint:wrapcheck
}

func (p gopsutilProcess) IsRunning(ctx context.Context) (bool, error) {
	return p.IsRunningWithContext(ctx) //nolint:wrapcheck
}

func listProcesses(ctx context.Context) ([]ProcessHandle, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	handles := make([]ProcessHandle, 0, len(procs))
	for _, proc := range procs {
		handles = append(handles, gopsutilProcess{Process: proc})
	}

	return handles, nil
}
