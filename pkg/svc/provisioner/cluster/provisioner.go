package clusterprovisioner

import "context"

// ClusterProvisioner manages the lifecycle of one distribution's clusters.
type ClusterProvisioner interface {
	// Create creates cluster name and writes its context into the kubeconfig.
	Create(ctx context.Context, name string) error
	// Delete removes cluster name; a missing cluster yields clustererrors.ErrClusterNotFound.
	Delete(ctx context.Context, name string) error
	// List returns the names of existing clusters.
	List(ctx context.Context) ([]string, error)
	// Exists reports whether cluster name is listed.
	Exists(ctx context.Context, name string) (bool, error)
}
