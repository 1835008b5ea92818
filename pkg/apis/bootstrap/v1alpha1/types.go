package v1alpha1

import "time"

// Config is the complete argoboot configuration.
type Config struct {
	Cluster     ClusterSpec     `json:"cluster"     mapstructure:"cluster"`
	ArgoCD      ArgoCDSpec      `json:"argocd"      mapstructure:"argocd"`
	Application ApplicationSpec `json:"application" mapstructure:"application"`
	Tunnel      TunnelSpec      `json:"tunnel"      mapstructure:"tunnel"`
	Files       FilesSpec       `json:"files"       mapstructure:"files"`
}

// ClusterSpec describes the local cluster.
type ClusterSpec struct {
	// Name of the cluster. A cluster with this name is replaced on every setup.
	Name         string       `json:"name"         mapstructure:"name"`
	Distribution Distribution `json:"distribution" mapstructure:"distribution"`
	// Agents is the number of worker nodes next to the single server node.
	Agents int `json:"agents" mapstructure:"agents"`
	// HTTPPort and HTTPSPort are host ports published through the cluster load balancer.
	HTTPPort  int `json:"httpPort"  mapstructure:"httpPort"`
	HTTPSPort int `json:"httpsPort" mapstructure:"httpsPort"`
	// Kubeconfig is the file the provisioner writes the cluster context into.
	Kubeconfig string `json:"kubeconfig" mapstructure:"kubeconfig"`
}

// ArgoCDSpec describes the Argo CD installation.
type ArgoCDSpec struct {
	Namespace string `json:"namespace" mapstructure:"namespace"`
	// InstallManifest is an http(s) URL or a local path to the install manifest.
	InstallManifest  string `json:"installManifest"  mapstructure:"installManifest"`
	ServerService    string `json:"serverService"    mapstructure:"serverService"`
	ServerDeployment string `json:"serverDeployment" mapstructure:"serverDeployment"`
	// ServiceType is patched onto the server Service so the load balancer exposes it.
	ServiceType string `json:"serviceType" mapstructure:"serviceType"`
	AdminSecret string `json:"adminSecret" mapstructure:"adminSecret"`
	Username    string `json:"username"    mapstructure:"username"`
	// ConfigDir is the local Argo CD CLI configuration directory removed on reset.
	ConfigDir    string        `json:"configDir"    mapstructure:"configDir"`
	ReadyTimeout time.Duration `json:"readyTimeout" mapstructure:"readyTimeout"`
	SecretPoll   time.Duration `json:"secretPoll"   mapstructure:"secretPoll"`
}

// ApplicationSpec is the application declared in Argo CD.
type ApplicationSpec struct {
	Name          string `json:"name"          mapstructure:"name"`
	RepoURL       string `json:"repoURL"       mapstructure:"repoURL"`
	Path          string `json:"path"          mapstructure:"path"`
	DestServer    string `json:"destServer"    mapstructure:"destServer"`
	DestNamespace string `json:"destNamespace" mapstructure:"destNamespace"`
}

// TunnelSpec configures local port discovery and tunnel supervision.
type TunnelSpec struct {
	// BasePort is the first candidate local port; the window spans BasePort..BasePort+50.
	BasePort     int           `json:"basePort"     mapstructure:"basePort"`
	Attempts     int           `json:"attempts"     mapstructure:"attempts"`
	RetryDelay   time.Duration `json:"retryDelay"   mapstructure:"retryDelay"`
	ProbeTimeout time.Duration `json:"probeTimeout" mapstructure:"probeTimeout"`
	// LoginAttempts bounds the Argo CD login retries through the tunnel.
	LoginAttempts   int           `json:"loginAttempts"   mapstructure:"loginAttempts"`
	LoginRetryDelay time.Duration `json:"loginRetryDelay" mapstructure:"loginRetryDelay"`
}

// FilesSpec names the files setup writes and reset removes.
type FilesSpec struct {
	PasswordFile   string `json:"passwordFile"   mapstructure:"passwordFile"`
	ConnectionFile string `json:"connectionFile" mapstructure:"connectionFile"`
}

// ContextName is the kubeconfig context the provisioner creates for this cluster.
func (c *Config) ContextName() string {
	return c.Cluster.Distribution.ContextName(c.Cluster.Name)
}
