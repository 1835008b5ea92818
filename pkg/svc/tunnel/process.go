package tunnel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/devantler-tech/argoboot/pkg/utils/logging"
	"github.com/sirupsen/logrus"
)

const stopGrace = 5 * time.Second

// Process is a running forwarder.
type Process interface {
	Pid() int
	// Done is closed when the process exits.
	Done() <-chan struct{}
	Stop() error
}

// StartFunc launches name with args in the background.
type StartFunc func(ctx context.Context, name string, args ...string) (Process, error)

type execProcess struct {
	cmd      *exec.Cmd
	done     chan struct{}
	output   io.WriteCloser
	stopOnce sync.Once
}

// StartProcess runs name detached from ctx so it outlives the step that started it.
// Output goes to the debug log.
func StartProcess(_ context.Context, name string, args ...string) (Process, error) {
	output := logging.For("port-forward").WriterLevel(logrus.DebugLevel)

	cmd := exec.Command(name, args...) //nolint:noctx // lifetime is managed by Stop
	cmd.Stdout = output
	cmd.Stderr = output

	err := cmd.Start()
	if err != nil {
		_ = output.Close()

		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	proc := &execProcess{cmd: cmd, done: make(chan struct{}), output: output}

	go func() {
		_ = cmd.Wait()
		_ = output.Close()

		close(proc.done)
	}()

	return proc, nil
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Done() <-chan struct{} {
	return p.done
}

// Stop interrupts the process, killing it if it has not exited within stopGrace.
func (p *execProcess) Stop() error {
	var err error

	p.stopOnce.Do(func() {
		select {
		case <-p.done:
			return
		default:
		}

		err = p.cmd.Process.Signal(os.Interrupt)
		if err != nil && !errors.Is(err, os.ErrProcessDone) {
			err = fmt.Errorf("signal pid %d: %w", p.Pid(), err)
		} else {
			err = nil
		}

		select {
		case <-p.done:
		case <-time.After(stopGrace):
			killErr := p.cmd.Process.Kill()
			if killErr != nil && !errors.Is(killErr, os.ErrProcessDone) {
				err = fmt.Errorf("kill pid %d: %w", p.Pid(), killErr)
			}

			<-p.done
		}
	})

	return err
}
