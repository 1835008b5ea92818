package installer

import (
	"time"

	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
)

// DefaultInstallTimeout bounds each readiness wait after an install.
const DefaultInstallTimeout = 5 * time.Minute

// GetInstallTimeout returns the configured Argo CD readiness timeout, or
// DefaultInstallTimeout when cfg is nil or the timeout is unset.
func GetInstallTimeout(cfg *v1alpha1.Config) time.Duration {
	if cfg == nil || cfg.ArgoCD.ReadyTimeout <= 0 {
		return DefaultInstallTimeout
	}

	return cfg.ArgoCD.ReadyTimeout
}
