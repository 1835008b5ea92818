package argocd

import "time"

// LoginOptions configures Login.
type LoginOptions struct {
	// Server is host:port of the tunnel, e.g. localhost:8090.
	Server   string
	Username string
	Password string

	// Attempts bounds the number of login tries. Values below 1 mean one try.
	Attempts int
	// RetryDelay is waited between failed tries.
	RetryDelay time.Duration
}

// ApplicationOptions declares an Argo CD Application.
type ApplicationOptions struct {
	Name          string
	RepoURL       string
	Path          string
	DestServer    string
	DestNamespace string
}
