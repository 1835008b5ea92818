package installer

import "context"

// Installer installs a component into the cluster. Implementations are idempotent.
type Installer interface {
	Install(ctx context.Context) error
}
