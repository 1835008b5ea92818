package v1alpha1

import (
	"fmt"
	"slices"
	"strings"
)

// Distribution selects the local cluster tool.
type Distribution string

const (
	// DistributionK3d runs k3s in Docker through k3d, with a built-in load balancer.
	DistributionK3d Distribution = "k3d"
	// DistributionKind runs upstream Kubernetes in Docker through kind.
	DistributionKind Distribution = "kind"
)

// ValidDistributions lists the supported distributions.
func ValidDistributions() []Distribution {
	return []Distribution{DistributionK3d, DistributionKind}
}

// Set implements pflag.Value.
func (d *Distribution) Set(value string) error {
	for _, dist := range ValidDistributions() {
		if strings.EqualFold(value, string(dist)) {
			*d = dist

			return nil
		}
	}

	return fmt.Errorf("%w: %q (valid options: %s)",
		ErrInvalidDistribution, value, strings.Join(d.ValidValues(), ", "))
}

// String implements pflag.Value.
func (d *Distribution) String() string {
	return string(*d)
}

// Type implements pflag.Value.
func (d *Distribution) Type() string {
	return "Distribution"
}

// IsValid reports whether d is supported.
func (d *Distribution) IsValid() bool {
	return slices.Contains(ValidDistributions(), *d)
}

// ValidValues returns the supported values as strings.
func (d *Distribution) ValidValues() []string {
	values := make([]string, 0, len(ValidDistributions()))
	for _, dist := range ValidDistributions() {
		values = append(values, string(dist))
	}

	return values
}

// ContextName returns the kubeconfig context the distribution creates for clusterName.
func (d *Distribution) ContextName(clusterName string) string {
	if clusterName == "" {
		return ""
	}

	switch *d {
	case DistributionK3d:
		return "k3d-" + clusterName
	case DistributionKind:
		return "kind-" + clusterName
	default:
		return ""
	}
}
