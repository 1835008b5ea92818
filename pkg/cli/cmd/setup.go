package cmd

import (
	"fmt"

	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/argoboot/pkg/di"
	"github.com/devantler-tech/argoboot/pkg/svc/bootstrap"
	"github.com/devantler-tech/argoboot/pkg/timer"
	"github.com/devantler-tech/argoboot/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// runSetup provisions everything and blocks until the command context is cancelled.
func runSetup(cmd *cobra.Command, injector di.Injector, cfg *v1alpha1.Config) error {
	return di.WithTimer(func(cmd *cobra.Command, injector di.Injector, tmr timer.Timer) error {
		orchestrator, err := newOrchestrator(cmd, injector, cfg, tmr)
		if err != nil {
			return err
		}

		return orchestrator.Run(cmd.Context())
	})(cmd, injector)
}

func newOrchestrator(
	cmd *cobra.Command,
	injector di.Injector,
	cfg *v1alpha1.Config,
	tmr timer.Timer,
) (*bootstrap.Orchestrator, error) {
	factory, err := di.ResolveBootstrapFactory(injector)
	if err != nil {
		return nil, err
	}

	orchestrator, err := factory.New(cfg, notify.NewStageSeparatingWriter(cmd.OutOrStdout()), tmr)
	if err != nil {
		return nil, fmt.Errorf("prepare %s: %w", cmd.Name(), err)
	}

	return orchestrator, nil
}
