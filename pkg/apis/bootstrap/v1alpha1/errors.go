package v1alpha1

import "errors"

var (
	// ErrInvalidDistribution is returned for an unsupported distribution.
	ErrInvalidDistribution = errors.New("invalid distribution")
	// ErrClusterNameInvalid is returned when the cluster name is not DNS-1123 compliant.
	ErrClusterNameInvalid = errors.New("cluster name is invalid")
	// ErrInvalidPort is returned for a port outside 1..65535 or a port window that overflows.
	ErrInvalidPort = errors.New("invalid port")
	// ErrMissingField is returned when a required field is empty.
	ErrMissingField = errors.New("required field is empty")
	// ErrInvalidCount is returned for a non-positive count or duration.
	ErrInvalidCount = errors.New("value must be positive")
)
