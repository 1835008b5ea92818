package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"
	"sync"

	"github.com/devantler-tech/argoboot/pkg/utils/logging"
)

// ErrBinaryFailed is returned when an external binary exits non-zero.
var ErrBinaryFailed = errors.New("external command failed")

// Executor runs external binaries to completion.
type Executor interface {
	Exec(ctx context.Context, name string, args ...string) (CommandResult, error)
}

// SecretRedactor is implemented by executors that mask secrets in their diagnostics.
type SecretRedactor interface {
	AddSecret(secret string)
}

// ExecRunner runs binaries from PATH through os/exec.
type ExecRunner struct {
	mu sync.RWMutex
	// secrets are replaced with "***" wherever a command line is logged or reported.
	secrets []string
}

// NewExecRunner returns an ExecRunner that redacts secrets from its diagnostics.
func NewExecRunner(secrets ...string) *ExecRunner {
	return &ExecRunner{secrets: slices.Clone(secrets)}
}

// AddSecret registers another value to redact.
func (r *ExecRunner) AddSecret(secret string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.secrets = append(r.secrets, secret)
}

// Exec runs name with args and returns its captured output. A non-zero exit is
// reported as ErrBinaryFailed carrying the trimmed stderr.
func (r *ExecRunner) Exec(ctx context.Context, name string, args ...string) (CommandResult, error) {
	log := logging.For("exec")
	commandLine := r.Redact(strings.Join(append([]string{name}, args...), " "))
	log.Debugf("running %s", commandLine)

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		detail := strings.TrimSpace(r.Redact(result.Stderr))
		if detail == "" {
			detail = err.Error()
		}

		log.Debugf("%s failed: %s", commandLine, detail)

		return result, fmt.Errorf("%w: %s: %s", ErrBinaryFailed, commandLine, detail)
	}

	return result, nil
}

// Redact masks every configured secret in s.
func (r *ExecRunner) Redact(s string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, secret := range r.secrets {
		if secret != "" {
			s = strings.ReplaceAll(s, secret, "***")
		}
	}

	return s
}
