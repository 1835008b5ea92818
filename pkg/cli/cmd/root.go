package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devantler-tech/argoboot/internal/buildmeta"
	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/argoboot/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/argoboot/pkg/di"
	"github.com/devantler-tech/argoboot/pkg/io/configmanager"
	"github.com/devantler-tech/argoboot/pkg/utils/logging"
	"github.com/spf13/cobra"
)

const rootLongDesc = `Bootstrap a local Kubernetes cluster with Argo CD.

Setup creates the cluster, installs Argo CD, opens a port-forward to the Argo CD
server, logs in, registers the application repository, creates and syncs the
application and then keeps the port-forward open until interrupted.

Actions:
  setup, -s, --setup   run setup (default)
  menu, -m, --menu     same as setup
  reset, -r, --reset   remove the cluster, port-forwards, credential files and Argo CD CLI config
  help, -h, --help     show this help

Configuration is read from argoboot.yaml in the working directory or
~/.config/argoboot, then ARGOBOOT_* environment variables, then flags.`

// ErrUnknownAction is returned for positional arguments that name no action.
var ErrUnknownAction = errors.New("unknown action")

type action int

const (
	actionSetup action = iota
	actionReset
	actionHelp
)

type rootFlags struct {
	configFile   string
	distribution v1alpha1.Distribution
	setup        bool
	menu         bool
	reset        bool
	yes          bool
	verbose      bool
}

// NewRootCmd creates the root command wired to the default runtime.
func NewRootCmd(version, commit, date string) *cobra.Command {
	return NewRootCmdWithRuntime(di.NewRuntime(), version, commit, date)
}

// NewRootCmdWithRuntime creates the root command resolving its dependencies from
// runtimeContainer.
func NewRootCmdWithRuntime(runtimeContainer *di.Runtime, version, commit, date string) *cobra.Command {
	flags := &rootFlags{distribution: v1alpha1.DefaultDistribution}

	cmd := &cobra.Command{
		Use:           "argoboot [setup|menu|reset|help]",
		Short:         "Bootstrap a local Kubernetes cluster with Argo CD",
		Long:          rootLongDesc,
		Args:          cobra.ArbitraryArgs,
		Version:       buildmeta.Describe(version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, runtimeContainer, flags, args)
		},
	}

	cmd.Flags().BoolVarP(&flags.setup, "setup", "s", false, "Run setup")
	cmd.Flags().BoolVarP(&flags.menu, "menu", "m", false, "Run setup (alias)")
	cmd.Flags().BoolVarP(&flags.reset, "reset", "r", false, "Remove everything setup created")
	cmd.MarkFlagsMutuallyExclusive("setup", "menu", "reset")

	cmd.Flags().StringVar(&flags.configFile, "config", "", "Path to an argoboot config file")
	cmd.Flags().String("cluster-name", v1alpha1.DefaultClusterName, "Name of the local cluster")
	cmd.Flags().Var(
		&flags.distribution,
		"distribution",
		fmt.Sprintf("Cluster distribution (%s)", flags.distribution.ValidValues()),
	)
	cmd.Flags().String("kubeconfig", "", "Kubeconfig to write the cluster context into")
	cmd.Flags().Int("base-port", v1alpha1.DefaultBasePort, "First local port tried for the Argo CD port-forward")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Skip the reset confirmation prompt")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		_ = c.Usage()

		return err
	})

	return cmd
}

// Execute runs the root command with ctx and normalizes its errors.
func Execute(ctx context.Context, cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor()

	err := executor.Execute(ctx, cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

func runRoot(cmd *cobra.Command, runtimeContainer *di.Runtime, flags *rootFlags, args []string) error {
	act, err := resolveAction(flags, args)
	if err != nil {
		_ = cmd.Usage()

		return err
	}

	if act == actionHelp {
		return cmd.Help()
	}

	logging.Configure(cmd.ErrOrStderr(), flags.verbose)

	cfg, err := loadConfig(cmd, flags.configFile)
	if err != nil {
		return err
	}

	return runtimeContainer.Invoke(func(injector di.Injector) error {
		if act == actionReset {
			return runReset(cmd, injector, cfg, flags.yes)
		}

		return runSetup(cmd, injector, cfg)
	})
}

// resolveAction maps the positional argument and action flags to an action.
func resolveAction(flags *rootFlags, args []string) (action, error) {
	if len(args) > 1 {
		return actionHelp, fmt.Errorf("%w: %s", ErrUnknownAction, strings.Join(args, " "))
	}

	flagAction := actionSetup
	if flags.reset {
		flagAction = actionReset
	}

	// An empty argument counts as no argument.
	if len(args) == 0 || args[0] == "" {
		return flagAction, nil
	}

	if flags.setup || flags.menu || flags.reset {
		return actionHelp, fmt.Errorf("%w: %q combined with an action flag", ErrUnknownAction, args[0])
	}

	switch args[0] {
	case "setup", "menu":
		return actionSetup, nil
	case "reset":
		return actionReset, nil
	case "help":
		return actionHelp, nil
	default:
		return actionHelp, fmt.Errorf("%w: %q", ErrUnknownAction, args[0])
	}
}

func loadConfig(cmd *cobra.Command, configFile string) (*v1alpha1.Config, error) {
	manager := configmanager.NewConfigManager(cmd.OutOrStdout(), configFile)

	err := manager.BindFlags(cmd.Flags(), configmanager.DefaultFlagBindings()...)
	if err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	cfg, err := manager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}
