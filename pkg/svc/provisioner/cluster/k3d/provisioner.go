// Package k3dprovisioner provisions k3s clusters through the k3d cobra commands linked
// into the binary.
package k3dprovisioner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/devantler-tech/argoboot/pkg/cmd/runner"
	clustererrors "github.com/devantler-tech/argoboot/pkg/svc/provisioner/cluster/errors"
	clustercommand "github.com/k3d-io/k3d/v5/cmd/cluster"
)

// processMu serializes commands that touch process-global state: k3d resolves the
// kubeconfig from $KUBECONFIG and writes list output straight to os.Stdout.
var processMu sync.Mutex //nolint:gochecknoglobals // guards os.Stdout and $KUBECONFIG

// Options describe the cluster k3d creates.
type Options struct {
	Agents     int
	HTTPPort   int
	HTTPSPort  int
	Kubeconfig string
}

// Provisioner executes k3d lifecycle commands.
type Provisioner struct {
	opts   Options
	runner runner.CommandRunner
	quiet  runner.CommandRunner
}

// NewProvisioner returns a provisioner streaming k3d output to stdout and stderr.
func NewProvisioner(opts Options, stdout, stderr io.Writer) *Provisioner {
	return NewProvisionerWithRunners(
		opts,
		runner.NewCobraCommandRunner(stdout, stderr),
		runner.NewCobraCommandRunner(io.Discard, io.Discard),
	)
}

// NewProvisionerWithRunners is NewProvisioner with explicit runners for lifecycle
// commands and for the silent list command.
func NewProvisionerWithRunners(opts Options, run, quiet runner.CommandRunner) *Provisioner {
	return &Provisioner{opts: opts, runner: run, quiet: quiet}
}

// CreateArgs returns the k3d cluster create arguments for name.
func (p *Provisioner) CreateArgs(name string) []string {
	return []string{
		name,
		"--agents", strconv.Itoa(p.opts.Agents),
		"--port", fmt.Sprintf("%d:80@loadbalancer", p.opts.HTTPPort),
		"--port", fmt.Sprintf("%d:443@loadbalancer", p.opts.HTTPSPort),
		"--wait",
		"--kubeconfig-update-default",
		"--kubeconfig-switch-context",
	}
}

// Create provisions cluster name with one server, the configured agents and the
// load balancer port mappings.
func (p *Provisioner) Create(ctx context.Context, name string) error {
	return p.withKubeconfig(func() error {
		_, err := p.runner.Run(ctx, clustercommand.NewCmdClusterCreate(), p.CreateArgs(name))
		if err != nil {
			return fmt.Errorf("cluster create: %w", err)
		}

		return nil
	})
}

// Delete removes cluster name and its kubeconfig entries.
func (p *Provisioner) Delete(ctx context.Context, name string) error {
	exists, err := p.Exists(ctx, name)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", clustererrors.ErrClusterNotFound, name)
	}

	return p.withKubeconfig(func() error {
		_, err := p.runner.Run(ctx, clustercommand.NewCmdClusterDelete(), []string{name})
		if err != nil {
			return fmt.Errorf("cluster delete: %w", err)
		}

		return nil
	})
}

// List returns the names of all k3d clusters.
func (p *Provisioner) List(ctx context.Context) ([]string, error) {
	var (
		result runner.CommandResult
		runErr error
	)

	leaked, err := captureStdout(func() {
		result, runErr = p.quiet.Run(ctx, clustercommand.NewCmdClusterList(), []string{"--output", "json"})
	})
	if err != nil {
		return nil, fmt.Errorf("cluster list: %w", err)
	}

	if runErr != nil {
		return nil, fmt.Errorf("cluster list: %w", runErr)
	}

	output := strings.TrimSpace(result.Stdout)
	if output == "" {
		output = strings.TrimSpace(leaked)
	}

	return ParseClusterNames(output)
}

// Exists reports whether cluster name is listed.
func (p *Provisioner) Exists(ctx context.Context, name string) (bool, error) {
	clusters, err := p.List(ctx)
	if err != nil {
		return false, err
	}

	return slices.Contains(clusters, name), nil
}

// ParseClusterNames extracts names from `k3d cluster list --output json`.
func ParseClusterNames(output string) ([]string, error) {
	if output == "" {
		return nil, nil
	}

	var entries []struct {
		Name string `json:"name"`
	}

	err := json.Unmarshal([]byte(output), &entries)
	if err != nil {
		return nil, fmt.Errorf("parse output: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Name != "" {
			names = append(names, entry.Name)
		}
	}

	return names, nil
}

// withKubeconfig runs fn with $KUBECONFIG pointing at the configured kubeconfig.
func (p *Provisioner) withKubeconfig(fn func() error) error {
	if p.opts.Kubeconfig == "" {
		return fn()
	}

	processMu.Lock()
	defer processMu.Unlock()

	previous, had := os.LookupEnv("KUBECONFIG")

	err := os.Setenv("KUBECONFIG", p.opts.Kubeconfig)
	if err != nil {
		return fmt.Errorf("set KUBECONFIG: %w", err)
	}

	defer func() {
		if had {
			_ = os.Setenv("KUBECONFIG", previous)
		} else {
			_ = os.Unsetenv("KUBECONFIG")
		}
	}()

	return fn()
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns what was written.
func captureStdout(fn func()) (string, error) {
	processMu.Lock()
	defer processMu.Unlock()

	reader, writer, err := os.Pipe()
	if err != nil {
		return "", fmt.Errorf("create stdout pipe: %w", err)
	}

	var (
		buf  bytes.Buffer
		done = make(chan struct{})
	)

	go func() {
		_, _ = io.Copy(&buf, reader)

		close(done)
	}()

	original := os.Stdout
	os.Stdout = writer

	func() {
		defer func() { os.Stdout = original }()

		fn()
	}()

	_ = writer.Close()

	<-done

	_ = reader.Close()

	return buf.String(), nil
}
