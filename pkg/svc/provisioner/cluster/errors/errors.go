// Package clustererrors holds sentinel errors shared by the cluster provisioners.
package clustererrors

import "errors"

var (
	// ErrClusterNotFound is returned when deleting a cluster that does not exist.
	ErrClusterNotFound = errors.New("cluster not found")
	// ErrUnsupportedDistribution is returned for a distribution without a provisioner.
	ErrUnsupportedDistribution = errors.New("unsupported distribution")
)
