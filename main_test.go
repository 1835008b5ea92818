package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSafelyReturnsRunnerExitCode(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer

	code := runSafely([]string{"reset"}, func(args []string) int {
		require.Equal(t, []string{"reset"}, args)

		return 3
	}, &stderr)

	assert.Equal(t, 3, code)
	assert.Empty(t, stderr.String())
}

func TestRunSafelyRecoversPanics(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer

	code := runSafely(nil, func([]string) int { panic("tunnel exploded") }, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "panic recovered: tunnel exploded")
}

func TestRunWithArgsExitCodes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, runWithArgs(context.Background(), []string{"help"}))
	assert.Equal(t, 1, runWithArgs(context.Background(), []string{"launch"}))
}
