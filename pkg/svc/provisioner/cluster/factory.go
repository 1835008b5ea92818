package clusterprovisioner

import (
	"fmt"
	"io"

	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
	clustererrors "github.com/devantler-tech/argoboot/pkg/svc/provisioner/cluster/errors"
	k3dprovisioner "github.com/devantler-tech/argoboot/pkg/svc/provisioner/cluster/k3d"
	kindprovisioner "github.com/devantler-tech/argoboot/pkg/svc/provisioner/cluster/kind"
)

// Factory builds the provisioner for a configuration.
type Factory interface {
	Create(cfg *v1alpha1.Config) (ClusterProvisioner, error)
}

// DefaultFactory selects the k3d or kind provisioner. Provisioner output goes to Stdout
// and Stderr.
type DefaultFactory struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Create implements Factory.
func (f DefaultFactory) Create(cfg *v1alpha1.Config) (ClusterProvisioner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required: %w", clustererrors.ErrUnsupportedDistribution)
	}

	spec := cfg.Cluster

	switch spec.Distribution {
	case v1alpha1.DistributionK3d:
		return k3dprovisioner.NewProvisioner(k3dprovisioner.Options{
			Agents:     spec.Agents,
			HTTPPort:   spec.HTTPPort,
			HTTPSPort:  spec.HTTPSPort,
			Kubeconfig: spec.Kubeconfig,
		}, f.Stdout, f.Stderr), nil
	case v1alpha1.DistributionKind:
		return kindprovisioner.NewProvisioner(kindprovisioner.Options{
			Workers:    spec.Agents,
			HTTPPort:   spec.HTTPPort,
			HTTPSPort:  spec.HTTPSPort,
			Kubeconfig: spec.Kubeconfig,
		}, f.Stdout, f.Stderr), nil
	default:
		return nil, fmt.Errorf("%w: %q", clustererrors.ErrUnsupportedDistribution, spec.Distribution)
	}
}
