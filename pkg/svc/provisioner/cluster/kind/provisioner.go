// Package kindprovisioner provisions Kubernetes-in-Docker clusters through kind's cobra
// commands.
package kindprovisioner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/devantler-tech/argoboot/pkg/cmd/runner"
	clustererrors "github.com/devantler-tech/argoboot/pkg/svc/provisioner/cluster/errors"
	"sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
	kindcmd "sigs.k8s.io/kind/pkg/cmd"
	createcluster "sigs.k8s.io/kind/pkg/cmd/kind/create/cluster"
	deletecluster "sigs.k8s.io/kind/pkg/cmd/kind/delete/cluster"
	getclusters "sigs.k8s.io/kind/pkg/cmd/kind/get/clusters"
	"sigs.k8s.io/yaml"
)

const (
	noKindClustersMsg = "No kind clusters found."
	configFilePerms   = 0o600
	waitDuration      = "5m"
)

// Options describe the cluster kind creates.
type Options struct {
	Workers    int
	HTTPPort   int
	HTTPSPort  int
	Kubeconfig string
}

// Provisioner executes kind lifecycle commands.
type Provisioner struct {
	opts   Options
	stdout io.Writer
	stderr io.Writer
	runner runner.CommandRunner
}

// NewProvisioner returns a provisioner streaming kind output to stdout and stderr.
func NewProvisioner(opts Options, stdout, stderr io.Writer) *Provisioner {
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return NewProvisionerWithRunner(opts, stdout, stderr, runner.NewCobraCommandRunner(stdout, stderr))
}

// NewProvisionerWithRunner constructs a Provisioner with an explicit command runner.
func NewProvisionerWithRunner(
	opts Options,
	stdout, stderr io.Writer,
	run runner.CommandRunner,
) *Provisioner {
	return &Provisioner{opts: opts, stdout: stdout, stderr: stderr, runner: run}
}

// ClusterConfig renders the kind cluster: one control plane publishing ports 80 and 443
// on the configured host ports, plus the configured workers.
func (p *Provisioner) ClusterConfig(name string) *v1alpha4.Cluster {
	cfg := &v1alpha4.Cluster{
		TypeMeta: v1alpha4.TypeMeta{Kind: "Cluster", APIVersion: "kind.x-k8s.io/v1alpha4"},
		Name:     name,
	}

	cfg.Nodes = append(cfg.Nodes, v1alpha4.Node{
		Role: v1alpha4.ControlPlaneRole,
		ExtraPortMappings: []v1alpha4.PortMapping{
			{ContainerPort: 80, HostPort: int32(p.opts.HTTPPort), Protocol: v1alpha4.PortMappingProtocolTCP},   //nolint:gosec // validated port
			{ContainerPort: 443, HostPort: int32(p.opts.HTTPSPort), Protocol: v1alpha4.PortMappingProtocolTCP}, //nolint:gosec // validated port
		},
	})

	for range p.opts.Workers {
		cfg.Nodes = append(cfg.Nodes, v1alpha4.Node{Role: v1alpha4.WorkerRole})
	}

	return cfg
}

// Create creates cluster name using kind's create command.
func (p *Provisioner) Create(ctx context.Context, name string) error {
	configYAML, err := yaml.Marshal(p.ClusterConfig(name))
	if err != nil {
		return fmt.Errorf("marshal kind config: %w", err)
	}

	tmpFile, err := os.CreateTemp("", "kind-config-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}

	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_ = tmpFile.Close()

	err = os.WriteFile(tmpFile.Name(), configYAML, configFilePerms)
	if err != nil {
		return fmt.Errorf("write temp config file: %w", err)
	}

	cmd := createcluster.NewCommand(p.logger(), kindcmd.IOStreams{Out: p.stdout, ErrOut: p.stderr})

	args := []string{"--name", name, "--config", tmpFile.Name(), "--wait", waitDuration}
	args = p.appendKubeconfig(args)

	_, err = p.runner.Run(ctx, cmd, args)
	if err != nil {
		return fmt.Errorf("failed to create kind cluster: %w", err)
	}

	return nil
}

// Delete removes cluster name. It returns clustererrors.ErrClusterNotFound when the
// cluster does not exist.
func (p *Provisioner) Delete(ctx context.Context, name string) error {
	exists, err := p.Exists(ctx, name)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", clustererrors.ErrClusterNotFound, name)
	}

	cmd := deletecluster.NewCommand(p.logger(), kindcmd.IOStreams{Out: p.stdout, ErrOut: p.stderr})

	_, err = p.runner.Run(ctx, cmd, p.appendKubeconfig([]string{"--name", name}))
	if err != nil {
		return fmt.Errorf("failed to delete kind cluster: %w", err)
	}

	return nil
}

// List returns all kind clusters.
func (p *Provisioner) List(ctx context.Context) ([]string, error) {
	var outBuf bytes.Buffer

	// get clusters prints through streams.Out rather than cmd.OutOrStdout.
	cmd := getclusters.NewCommand(
		&streamLogger{writer: io.Discard},
		kindcmd.IOStreams{Out: &outBuf, ErrOut: io.Discard},
	)

	result, err := p.runner.Run(ctx, cmd, []string{})
	if err != nil {
		return nil, fmt.Errorf("failed to list kind clusters: %w", err)
	}

	output := outBuf.Bytes()
	if len(output) == 0 {
		output = []byte(result.Stdout)
	}

	return ParseClusterNames(output), nil
}

// Exists reports whether cluster name is listed.
func (p *Provisioner) Exists(ctx context.Context, name string) (bool, error) {
	clusters, err := p.List(ctx)
	if err != nil {
		return false, err
	}

	return slices.Contains(clusters, name), nil
}

// ParseClusterNames extracts cluster names from `kind get clusters` output.
func ParseClusterNames(output []byte) []string {
	var clusters []string

	for line := range bytes.SplitSeq(output, []byte("\n")) {
		name := string(bytes.TrimSpace(line))
		if name != "" && name != noKindClustersMsg {
			clusters = append(clusters, name)
		}
	}

	return clusters
}

func (p *Provisioner) logger() *streamLogger {
	return &streamLogger{writer: p.stdout}
}

func (p *Provisioner) appendKubeconfig(args []string) []string {
	if p.opts.Kubeconfig == "" {
		return args
	}

	return append(args, "--kubeconfig", p.opts.Kubeconfig)
}
