package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/argoboot/pkg/client/argocd"
	"github.com/devantler-tech/argoboot/pkg/cmd/runner"
	"github.com/devantler-tech/argoboot/pkg/fsutil"
	"github.com/devantler-tech/argoboot/pkg/k8s"
	"github.com/devantler-tech/argoboot/pkg/k8s/readiness"
	"github.com/devantler-tech/argoboot/pkg/svc/credentials"
	argocdinstaller "github.com/devantler-tech/argoboot/pkg/svc/installer/argocd"
	"github.com/devantler-tech/argoboot/pkg/svc/portfinder"
	"github.com/devantler-tech/argoboot/pkg/svc/prerequisites"
	clusterprovisioner "github.com/devantler-tech/argoboot/pkg/svc/provisioner/cluster"
	"github.com/devantler-tech/argoboot/pkg/svc/tunnel"
	"github.com/devantler-tech/argoboot/pkg/timer"
	corev1 "k8s.io/api/core/v1"
)

const (
	argoCDServerPort = 443
	clusterTimeout   = 5 * time.Minute
)

// Factory builds the Orchestrator for a loaded configuration.
type Factory interface {
	New(cfg *v1alpha1.Config, out io.Writer, tmr timer.Timer) (*Orchestrator, error)
}

// DefaultFactory wires the real collaborators.
type DefaultFactory struct {
	Provisioners clusterprovisioner.Factory
}

// New implements Factory.
func (f DefaultFactory) New(cfg *v1alpha1.Config, out io.Writer, tmr timer.Timer) (*Orchestrator, error) {
	provisioners := f.Provisioners
	if provisioners == nil {
		provisioners = clusterprovisioner.DefaultFactory{Stdout: out, Stderr: out}
	}

	provisioner, err := provisioners.Create(cfg)
	if err != nil {
		return nil, fmt.Errorf("create provisioner: %w", err)
	}

	return New(cfg, out, tmr, Dependencies{
		Prerequisites: prerequisites.NewChecker(),
		Provisioner:   provisioner,
		Connect:       ConnectCluster,
		Ports:         portfinder.NewFinder(),
		Sweeper:       tunnel.NewSweeper(tunnel.ForwarderPatterns(cfg.ArgoCD.ServerService)...),
		NewTunnel:     NewSupervisedTunnel,
		ArgoCD:        argocd.NewClient(runner.NewExecRunner(), cfg.ArgoCD.ConfigDir),
		Store: credentials.Store{
			PasswordFile:   cfg.Files.PasswordFile,
			ConnectionFile: cfg.Files.ConnectionFile,
		},
		RemoveDir: fsutil.RemoveIfExists,
	}), nil
}

// ConnectCluster builds Kubernetes clients for the provisioned cluster context.
func ConnectCluster(cfg *v1alpha1.Config) (*ClusterAccess, error) {
	clients, err := k8s.NewClients(cfg.Cluster.Kubeconfig, cfg.ContextName())
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by the caller
	}

	argoCD := cfg.ArgoCD

	return &ClusterAccess{
		Cluster: clusterWaiter{clients: clients, nodes: cfg.Cluster.Agents + 1},
		Installer: argocdinstaller.NewInstaller(clients, argocdinstaller.Options{
			Namespace:        argoCD.Namespace,
			ManifestSource:   argoCD.InstallManifest,
			ServerService:    argoCD.ServerService,
			ServerDeployment: argoCD.ServerDeployment,
			ServiceType:      corev1.ServiceType(argoCD.ServiceType),
			Timeout:          argoCD.ReadyTimeout,
		}, nil),
		Password: credentials.NewPasswordWaiter(
			clients.Clientset, argoCD.Namespace, argoCD.AdminSecret, argoCD.SecretPoll,
		),
	}, nil
}

// NewSupervisedTunnel forwards port to the Argo CD server service.
func NewSupervisedTunnel(cfg *v1alpha1.Config, port int) Tunnel {
	return tunnel.NewSupervisor(tunnel.Options{
		Kubeconfig:   cfg.Cluster.Kubeconfig,
		Context:      cfg.ContextName(),
		Namespace:    cfg.ArgoCD.Namespace,
		Service:      cfg.ArgoCD.ServerService,
		LocalPort:    port,
		RemotePort:   argoCDServerPort,
		Attempts:     cfg.Tunnel.Attempts,
		RetryDelay:   cfg.Tunnel.RetryDelay,
		ProbeTimeout: cfg.Tunnel.ProbeTimeout,
	})
}

type clusterWaiter struct {
	clients *k8s.Clients
	nodes   int
}

func (w clusterWaiter) WaitForCluster(ctx context.Context) error {
	err := readiness.WaitForAPIServerReady(ctx, w.clients.Clientset, clusterTimeout)
	if err != nil {
		return fmt.Errorf("api server: %w", err)
	}

	err = readiness.WaitForNodesReady(ctx, w.clients.Clientset, w.nodes, clusterTimeout)
	if err != nil {
		return fmt.Errorf("nodes: %w", err)
	}

	return nil
}
