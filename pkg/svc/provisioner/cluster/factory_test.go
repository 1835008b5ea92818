package clusterprovisioner_test

import (
	"io"
	"testing"

	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
	clusterprovisioner "github.com/devantler-tech/argoboot/pkg/svc/provisioner/cluster"
	clustererrors "github.com/devantler-tech/argoboot/pkg/svc/provisioner/cluster/errors"
	k3dprovisioner "github.com/devantler-tech/argoboot/pkg/svc/provisioner/cluster/k3d"
	kindprovisioner "github.com/devantler-tech/argoboot/pkg/svc/provisioner/cluster/kind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFactoryCreate(t *testing.T) {
	t.Parallel()

	factory := clusterprovisioner.DefaultFactory{Stdout: io.Discard, Stderr: io.Discard}

	cfg := v1alpha1.NewConfig()

	prov, err := factory.Create(cfg)
	require.NoError(t, err)
	assert.IsType(t, &k3dprovisioner.Provisioner{}, prov)

	cfg.Cluster.Distribution = v1alpha1.DistributionKind

	prov, err = factory.Create(cfg)
	require.NoError(t, err)
	assert.IsType(t, &kindprovisioner.Provisioner{}, prov)
}

func TestDefaultFactoryRejectsUnknownDistribution(t *testing.T) {
	t.Parallel()

	factory := clusterprovisioner.DefaultFactory{}

	cfg := v1alpha1.NewConfig()
	cfg.Cluster.Distribution = "minikube"

	_, err := factory.Create(cfg)
	require.ErrorIs(t, err, clustererrors.ErrUnsupportedDistribution)

	_, err = factory.Create(nil)
	require.ErrorIs(t, err, clustererrors.ErrUnsupportedDistribution)
}
