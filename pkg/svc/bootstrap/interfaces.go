package bootstrap

import (
	"context"

	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/argoboot/pkg/svc/credentials"
	"github.com/devantler-tech/argoboot/pkg/svc/prerequisites"
)

// PrerequisiteChecker verifies required tools before anything is mutated.
type PrerequisiteChecker interface {
	Check(ctx context.Context) (prerequisites.Result, error)
}

// ClusterWaiter blocks until the new cluster serves requests.
type ClusterWaiter interface {
	WaitForCluster(ctx context.Context) error
}

// ArgoCDInstaller installs Argo CD and waits for it.
type ArgoCDInstaller interface {
	Install(ctx context.Context) error
	WaitForReady(ctx context.Context) error
}

// PasswordSource yields the Argo CD admin password.
type PasswordSource interface {
	WaitForAdminPassword(ctx context.Context) (string, error)
}

// ClusterAccess bundles the cluster-side collaborators, built once the cluster exists.
type ClusterAccess struct {
	Cluster   ClusterWaiter
	Installer ArgoCDInstaller
	Password  PasswordSource
}

// Connector opens ClusterAccess for a freshly provisioned cluster.
type Connector func(cfg *v1alpha1.Config) (*ClusterAccess, error)

// PortFinder picks the local tunnel port.
type PortFinder interface {
	Find(ctx context.Context, base int) (int, error)
}

// ProcessSweeper terminates stray forwarders.
type ProcessSweeper interface {
	KillMatching(ctx context.Context) ([]int32, error)
}

// Tunnel is a supervised port-forward.
type Tunnel interface {
	Establish(ctx context.Context) error
	Hold(ctx context.Context) error
	Close() error
}

// TunnelFactory builds the tunnel for port.
type TunnelFactory func(cfg *v1alpha1.Config, port int) Tunnel

// CredentialStore persists connection details.
type CredentialStore interface {
	Save(conn credentials.Connection) error
	Remove() ([]credentials.Removal, error)
}
