package v1alpha1

import (
	"os"
	"path/filepath"
	"time"
)

// Defaults for a fresh configuration.
const (
	DefaultClusterName  = "argoboot"
	DefaultAgents       = 2
	DefaultHTTPPort     = 8080
	DefaultHTTPSPort    = 8443
	DefaultDistribution = DistributionK3d

	DefaultArgoCDNamespace  = "argocd"
	DefaultInstallManifest  = "https://raw.githubusercontent.com/argoproj/argo-cd/stable/manifests/install.yaml"
	DefaultServerService    = "argocd-server"
	DefaultServerDeployment = "argocd-server"
	DefaultServiceType      = "LoadBalancer"
	//nolint:gosec // G101: secret name, not a credential
	DefaultAdminSecret  = "argocd-initial-admin-secret"
	DefaultUsername     = "admin"
	DefaultReadyTimeout = 5 * time.Minute
	DefaultSecretPoll   = 5 * time.Second

	DefaultApplicationName = "guestbook"
	DefaultRepoURL         = "https://github.com/argoproj/argocd-example-apps.git"
	DefaultAppPath         = "guestbook"
	DefaultDestServer      = "https://kubernetes.default.svc"
	DefaultDestNamespace   = "default"

	DefaultBasePort        = 8090
	PortWindow             = 50
	DefaultTunnelAttempts  = 30
	DefaultTunnelDelay     = 2 * time.Second
	DefaultProbeTimeout    = 3 * time.Second
	DefaultLoginAttempts   = 5
	DefaultLoginRetryDelay = 5 * time.Second

	DefaultPasswordFile   = "argocd-password.txt"
	DefaultConnectionFile = "argocd-connection.env"
)

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Cluster: ClusterSpec{
			Name:         DefaultClusterName,
			Distribution: DefaultDistribution,
			Agents:       DefaultAgents,
			HTTPPort:     DefaultHTTPPort,
			HTTPSPort:    DefaultHTTPSPort,
			Kubeconfig:   DefaultKubeconfigPath(),
		},
		ArgoCD: ArgoCDSpec{
			Namespace:        DefaultArgoCDNamespace,
			InstallManifest:  DefaultInstallManifest,
			ServerService:    DefaultServerService,
			ServerDeployment: DefaultServerDeployment,
			ServiceType:      DefaultServiceType,
			AdminSecret:      DefaultAdminSecret,
			Username:         DefaultUsername,
			ConfigDir:        DefaultArgoCDConfigDir(),
			ReadyTimeout:     DefaultReadyTimeout,
			SecretPoll:       DefaultSecretPoll,
		},
		Application: ApplicationSpec{
			Name:          DefaultApplicationName,
			RepoURL:       DefaultRepoURL,
			Path:          DefaultAppPath,
			DestServer:    DefaultDestServer,
			DestNamespace: DefaultDestNamespace,
		},
		Tunnel: TunnelSpec{
			BasePort:        DefaultBasePort,
			Attempts:        DefaultTunnelAttempts,
			RetryDelay:      DefaultTunnelDelay,
			ProbeTimeout:    DefaultProbeTimeout,
			LoginAttempts:   DefaultLoginAttempts,
			LoginRetryDelay: DefaultLoginRetryDelay,
		},
		Files: FilesSpec{
			PasswordFile:   DefaultPasswordFile,
			ConnectionFile: DefaultConnectionFile,
		},
	}
}

// DefaultKubeconfigPath returns $KUBECONFIG's first entry, or ~/.kube/config.
func DefaultKubeconfigPath() string {
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return filepath.SplitList(env)[0]
	}

	home, _ := os.UserHomeDir()

	return filepath.Join(home, ".kube", "config")
}

// DefaultArgoCDConfigDir returns the directory the argocd CLI stores its login state in.
func DefaultArgoCDConfigDir() string {
	home, _ := os.UserHomeDir()

	return filepath.Join(home, ".config", "argocd")
}
