package bootstrap

import (
	"context"
	"errors"
	"fmt"

	clustererrors "github.com/devantler-tech/argoboot/pkg/svc/provisioner/cluster/errors"
	"github.com/devantler-tech/argoboot/pkg/utils/notify"
)

// Reset removes everything setup created: stray forwarders, the cluster, the credential
// files and the Argo CD CLI configuration. Anything already absent is reported and
// skipped.
func (o *Orchestrator) Reset(ctx context.Context) error {
	o.timer.Start()
	notify.Titlef(o.out, "🧹", "Reset...")

	killed, err := o.deps.Sweeper.KillMatching(ctx)
	if err != nil {
		notify.Warningf(o.out, "could not stop every port-forward: %v", err)
	}

	switch {
	case len(killed) > 0:
		notify.Activityf(o.out, "stopped %d port-forward process(es)", len(killed))
	case err == nil:
		notify.Infof(o.out, "no port-forward processes running")
	}

	err = o.deleteCluster(ctx)
	if err != nil {
		return err
	}

	removals, err := o.deps.Store.Remove()
	if err != nil {
		return fmt.Errorf("remove credential files: %w", err)
	}

	for _, removal := range removals {
		if removal.Removed {
			notify.Activityf(o.out, "removed '%s'", removal.Path)
		} else {
			notify.Infof(o.out, "'%s' not present", removal.Path)
		}
	}

	configDir := o.cfg.ArgoCD.ConfigDir
	if configDir != "" && o.deps.RemoveDir != nil {
		removed, err := o.deps.RemoveDir(configDir)
		if err != nil {
			return fmt.Errorf("remove Argo CD config: %w", err)
		}

		if removed {
			notify.Activityf(o.out, "removed '%s'", configDir)
		} else {
			notify.Infof(o.out, "'%s' not present", configDir)
		}
	}

	notify.SuccessWithTimerf(o.out, o.timer, "reset complete")

	return nil
}

func (o *Orchestrator) deleteCluster(ctx context.Context) error {
	name := o.cfg.Cluster.Name

	exists, err := o.deps.Provisioner.Exists(ctx, name)
	if err != nil {
		return fmt.Errorf("check cluster %s: %w", name, err)
	}

	if !exists {
		notify.Infof(o.out, "cluster '%s' not found", name)

		return nil
	}

	notify.Activityf(o.out, "deleting cluster '%s'", name)

	err = o.deps.Provisioner.Delete(ctx, name)
	if err != nil && !errors.Is(err, clustererrors.ErrClusterNotFound) {
		return fmt.Errorf("delete cluster %s: %w", name, err)
	}

	return nil
}
