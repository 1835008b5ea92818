package configmanager

import (
	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
	"github.com/spf13/viper"
)

// setDefaults registers every key so AutomaticEnv can override keys absent from the file.
func setDefaults(v *viper.Viper, cfg *v1alpha1.Config) {
	defaults := map[string]any{
		"cluster.name":         cfg.Cluster.Name,
		"cluster.distribution": string(cfg.Cluster.Distribution),
		"cluster.agents":       cfg.Cluster.Agents,
		"cluster.httpPort":     cfg.Cluster.HTTPPort,
		"cluster.httpsPort":    cfg.Cluster.HTTPSPort,
		"cluster.kubeconfig":   cfg.Cluster.Kubeconfig,

		"argocd.namespace":        cfg.ArgoCD.Namespace,
		"argocd.installManifest":  cfg.ArgoCD.InstallManifest,
		"argocd.serverService":    cfg.ArgoCD.ServerService,
		"argocd.serverDeployment": cfg.ArgoCD.ServerDeployment,
		"argocd.serviceType":      cfg.ArgoCD.ServiceType,
		"argocd.adminSecret":      cfg.ArgoCD.AdminSecret,
		"argocd.username":         cfg.ArgoCD.Username,
		"argocd.configDir":        cfg.ArgoCD.ConfigDir,
		"argocd.readyTimeout":     cfg.ArgoCD.ReadyTimeout,
		"argocd.secretPoll":       cfg.ArgoCD.SecretPoll,

		"application.name":          cfg.Application.Name,
		"application.repoURL":       cfg.Application.RepoURL,
		"application.path":          cfg.Application.Path,
		"application.destServer":    cfg.Application.DestServer,
		"application.destNamespace": cfg.Application.DestNamespace,

		"tunnel.basePort":        cfg.Tunnel.BasePort,
		"tunnel.attempts":        cfg.Tunnel.Attempts,
		"tunnel.retryDelay":      cfg.Tunnel.RetryDelay,
		"tunnel.probeTimeout":    cfg.Tunnel.ProbeTimeout,
		"tunnel.loginAttempts":   cfg.Tunnel.LoginAttempts,
		"tunnel.loginRetryDelay": cfg.Tunnel.LoginRetryDelay,

		"files.passwordFile":   cfg.Files.PasswordFile,
		"files.connectionFile": cfg.Files.ConnectionFile,
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}
