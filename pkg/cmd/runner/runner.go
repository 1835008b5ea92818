// Package runner executes commands on behalf of the provisioners and the Argo CD client:
// cobra commands linked into the binary (k3d, kind) and external binaries (argocd, kubectl).
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// CommandResult captures the output collected while a command ran, including output
// produced before a failure.
type CommandResult struct {
	Stdout string
	Stderr string
}

// CommandRunner executes cobra commands in-process.
type CommandRunner interface {
	Run(ctx context.Context, cmd *cobra.Command, args []string) (CommandResult, error)
}

// CobraCommandRunner streams a cobra command's output to the console while capturing it.
type CobraCommandRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewCobraCommandRunner returns a runner writing to stdout and stderr, defaulting to the
// process streams when nil.
func NewCobraCommandRunner(stdout, stderr io.Writer) *CobraCommandRunner {
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return &CobraCommandRunner{stdout: stdout, stderr: stderr}
}

// Run executes cmd with args. Usage and error printing are silenced; the caller reports.
func (r *CobraCommandRunner) Run(
	ctx context.Context,
	cmd *cobra.Command,
	args []string,
) (CommandResult, error) {
	var outBuf, errBuf bytes.Buffer

	cmd.SetOut(io.MultiWriter(&outBuf, r.stdout))
	cmd.SetErr(io.MultiWriter(&errBuf, r.stderr))
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(ctx)

	result := CommandResult{Stdout: outBuf.String(), Stderr: errBuf.String()}
	if err != nil {
		return result, fmt.Errorf("command execution failed: %w", err)
	}

	return result, nil
}
