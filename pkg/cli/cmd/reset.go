package cmd

import (
	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/argoboot/pkg/cli/ui/confirm"
	"github.com/devantler-tech/argoboot/pkg/di"
	"github.com/devantler-tech/argoboot/pkg/timer"
	"github.com/devantler-tech/argoboot/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// runReset asks for confirmation unless yes is set and then removes everything setup
// created. Declining leaves everything in place and is not an error.
func runReset(cmd *cobra.Command, injector di.Injector, cfg *v1alpha1.Config, yes bool) error {
	return di.WithTimer(func(cmd *cobra.Command, injector di.Injector, tmr timer.Timer) error {
		out := cmd.OutOrStdout()

		if !yes {
			confirm.ShowResetPreview(out, confirm.ResetPreview{
				ClusterName:  cfg.Cluster.Name,
				Distribution: string(cfg.Cluster.Distribution),
				Files:        []string{cfg.Files.PasswordFile, cfg.Files.ConnectionFile},
				ConfigDir:    cfg.ArgoCD.ConfigDir,
			})

			if !confirm.PromptYesNo(out, "Reset everything?") {
				notify.Infof(out, "reset cancelled, nothing was removed")

				return nil
			}
		}

		orchestrator, err := newOrchestrator(cmd, injector, cfg, tmr)
		if err != nil {
			return err
		}

		return orchestrator.Reset(cmd.Context())
	})(cmd, injector)
}
