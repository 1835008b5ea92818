package v1alpha1_test

import (
	"strings"
	"testing"

	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := v1alpha1.NewConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "k3d-argoboot", cfg.ContextName())
	assert.Equal(t, 8090, cfg.Tunnel.BasePort)
	assert.Equal(t, "guestbook", cfg.Application.Name)
	assert.Equal(t, "argocd-initial-admin-secret", cfg.ArgoCD.AdminSecret)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*v1alpha1.Config)
		wantErr error
	}{
		{
			name:    "uppercase cluster name",
			mutate:  func(c *v1alpha1.Config) { c.Cluster.Name = "Argo" },
			wantErr: v1alpha1.ErrClusterNameInvalid,
		},
		{
			name:    "cluster name too long",
			mutate:  func(c *v1alpha1.Config) { c.Cluster.Name = strings.Repeat("a", 64) },
			wantErr: v1alpha1.ErrClusterNameInvalid,
		},
		{
			name:    "unknown distribution",
			mutate:  func(c *v1alpha1.Config) { c.Cluster.Distribution = "minikube" },
			wantErr: v1alpha1.ErrInvalidDistribution,
		},
		{
			name:    "base port zero",
			mutate:  func(c *v1alpha1.Config) { c.Tunnel.BasePort = 0 },
			wantErr: v1alpha1.ErrInvalidPort,
		},
		{
			name:    "base port window overflows",
			mutate:  func(c *v1alpha1.Config) { c.Tunnel.BasePort = 65500 },
			wantErr: v1alpha1.ErrInvalidPort,
		},
		{
			name:    "missing repo url",
			mutate:  func(c *v1alpha1.Config) { c.Application.RepoURL = "" },
			wantErr: v1alpha1.ErrMissingField,
		},
		{
			name:    "no tunnel attempts",
			mutate:  func(c *v1alpha1.Config) { c.Tunnel.Attempts = 0 },
			wantErr: v1alpha1.ErrInvalidCount,
		},
		{
			name:    "negative agents",
			mutate:  func(c *v1alpha1.Config) { c.Cluster.Agents = -1 },
			wantErr: v1alpha1.ErrInvalidCount,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := v1alpha1.NewConfig()
			tc.mutate(cfg)

			require.ErrorIs(t, cfg.Validate(), tc.wantErr)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	t.Parallel()

	cfg := v1alpha1.NewConfig()
	cfg.Cluster.Name = ""
	cfg.Files.PasswordFile = ""

	err := cfg.Validate()

	require.ErrorIs(t, err, v1alpha1.ErrClusterNameInvalid)
	require.ErrorIs(t, err, v1alpha1.ErrMissingField)
	assert.Contains(t, err.Error(), "files.passwordFile")
}
