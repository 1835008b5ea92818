package runner_test

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/devantler-tech/argoboot/pkg/cmd/runner"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCommandFailed = errors.New("boom")

func TestCobraCommandRunnerCapturesAndStreams(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	cmdRunner := runner.NewCobraCommandRunner(&stdout, &stderr)

	cmd := &cobra.Command{
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("hello " + args[0])
		},
	}

	res, err := cmdRunner.Run(context.Background(), cmd, []string{"world"})

	require.NoError(t, err)
	assert.Equal(t, "hello world\n", res.Stdout)
	assert.Equal(t, "hello world\n", stdout.String())
}

func TestCobraCommandRunnerReturnsError(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	cmdRunner := runner.NewCobraCommandRunner(&stdout, &stderr)

	cmd := &cobra.Command{
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.PrintErrln("stderr detail")

			return errCommandFailed
		},
	}

	res, err := cmdRunner.Run(context.Background(), cmd, nil)

	require.ErrorIs(t, err, errCommandFailed)
	assert.Contains(t, res.Stderr, "stderr detail")
	assert.Contains(t, stderr.String(), "stderr detail")
}

func TestExecRunnerSuccess(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	res, err := runner.NewExecRunner().Exec(context.Background(), "sh", "-c", "echo out; echo err >&2")

	require.NoError(t, err)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestExecRunnerFailureRedactsSecrets(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	execRunner := runner.NewExecRunner()
	execRunner.AddSecret("hunter2")

	_, err := execRunner.Exec(context.Background(), "sh", "-c", "echo bad hunter2 >&2; exit 3")

	require.ErrorIs(t, err, runner.ErrBinaryFailed)
	assert.NotContains(t, err.Error(), "hunter2")
	assert.Contains(t, err.Error(), "bad ***")
}

func TestExecRunnerMissingBinary(t *testing.T) {
	t.Parallel()

	_, err := runner.NewExecRunner().Exec(context.Background(), "argoboot-definitely-missing-binary")

	require.ErrorIs(t, err, runner.ErrBinaryFailed)
}

func TestRedactIgnoresEmptySecret(t *testing.T) {
	t.Parallel()

	execRunner := runner.NewExecRunner("", "pw")

	assert.Equal(t, "login --password ***", execRunner.Redact("login --password pw"))
}
