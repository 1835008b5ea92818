package argocd

import "context"

// API is the subset of Argo CD operations used during bootstrap.
type API interface {
	Login(ctx context.Context, opts LoginOptions) error
	AddRepo(ctx context.Context, repoURL string) error
	CreateApp(ctx context.Context, opts ApplicationOptions) error
	SyncApp(ctx context.Context, name string) error
}
