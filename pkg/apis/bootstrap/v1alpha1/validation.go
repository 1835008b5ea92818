package v1alpha1

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"time"
)

// clusterNameRegex matches DNS-1123 labels starting with a letter.
var clusterNameRegex = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

const (
	clusterNameMaxLength = 63
	maxPort              = 65535
)

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Cluster.Name) > clusterNameMaxLength || !clusterNameRegex.MatchString(c.Cluster.Name) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrClusterNameInvalid, c.Cluster.Name))
	}

	if !c.Cluster.Distribution.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidDistribution, c.Cluster.Distribution))
	}

	errs = append(errs,
		validatePort("cluster.httpPort", c.Cluster.HTTPPort),
		validatePort("cluster.httpsPort", c.Cluster.HTTPSPort),
		validatePort("tunnel.basePort", c.Tunnel.BasePort),
	)

	if c.Tunnel.BasePort+PortWindow > maxPort {
		errs = append(errs, fmt.Errorf("%w: tunnel.basePort %d leaves no room for a %d port window",
			ErrInvalidPort, c.Tunnel.BasePort, PortWindow+1))
	}

	if c.Cluster.Agents < 0 {
		errs = append(errs, fmt.Errorf("%w: cluster.agents=%d", ErrInvalidCount, c.Cluster.Agents))
	}

	required := map[string]string{
		"argocd.namespace":          c.ArgoCD.Namespace,
		"argocd.installManifest":    c.ArgoCD.InstallManifest,
		"argocd.serverService":      c.ArgoCD.ServerService,
		"argocd.adminSecret":        c.ArgoCD.AdminSecret,
		"argocd.username":           c.ArgoCD.Username,
		"application.name":          c.Application.Name,
		"application.repoURL":       c.Application.RepoURL,
		"application.destServer":    c.Application.DestServer,
		"application.destNamespace": c.Application.DestNamespace,
		"files.passwordFile":        c.Files.PasswordFile,
		"files.connectionFile":      c.Files.ConnectionFile,
	}
	for _, key := range sortedKeys(required) {
		if required[key] == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingField, key))
		}
	}

	errs = append(errs,
		validatePositive("tunnel.attempts", c.Tunnel.Attempts),
		validatePositive("tunnel.loginAttempts", c.Tunnel.LoginAttempts),
		validateDuration("tunnel.retryDelay", c.Tunnel.RetryDelay),
		validateDuration("tunnel.probeTimeout", c.Tunnel.ProbeTimeout),
		validateDuration("argocd.readyTimeout", c.ArgoCD.ReadyTimeout),
		validateDuration("argocd.secretPoll", c.ArgoCD.SecretPoll),
	)

	return errors.Join(errs...)
}

func validatePort(field string, port int) error {
	if port < 1 || port > maxPort {
		return fmt.Errorf("%w: %s=%d", ErrInvalidPort, field, port)
	}

	return nil
}

func validatePositive(field string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%w: %s=%d", ErrInvalidCount, field, value)
	}

	return nil
}

func validateDuration(field string, value time.Duration) error {
	if value <= 0 {
		return fmt.Errorf("%w: %s=%s", ErrInvalidCount, field, value)
	}

	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}
