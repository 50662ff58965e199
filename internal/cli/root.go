package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cord-sdk/cord-cli/internal/config"
)

// skipVersionCheck marks commands that never run the update check
const skipVersionCheck = "cord/skip-version-check"

// app carries state shared by all commands of one invocation
type app struct {
	settingsPath string
	provider     *config.Provider
}

// NewRootCmd creates the root command for cord
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cord",
		Short: "cord - command line access to the Cord REST and management APIs",
		Long: `cord signs requests to the Cord APIs with locally stored credentials.

Credentials live in ~/.cord (override with --credentials-path or CORD_CONFIG_PATH):
  - PROJECT_ID and PROJECT_SECRET authorize the application REST API
  - CUSTOMER_ID and CUSTOMER_SECRET authorize the management API

Run "cord init" first.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&a.settingsPath, "settings", "s", "", "settings file path, .yaml, .json or .toml (default: $CORD_SETTINGS)")
	config.RegisterFlags(rootCmd.PersistentFlags())

	// Add subcommands
	rootCmd.AddCommand(
		newInitCmd(a),
		newAPICmd(a),
		newManagementCmd(a),
		newProjectCmd(a),
		newUserCmd(a),
		newTokenCmd(a),
		newConfigCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// setup loads configuration and runs the daily update check
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	settingsPath := a.settingsPath
	if settingsPath == "" {
		settingsPath = os.Getenv("CORD_SETTINGS")
	}

	loader, err := config.NewLoaderWithFlags(settingsPath, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := loader.Get()
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	a.provider = config.NewProvider(cfg)
	a.provider.LogOutput = cmd.ErrOrStderr()
	a.provider.NoticeOut = cmd.ErrOrStderr()

	if cfg.NoVersionCheck || skipsVersionCheck(cmd) {
		return nil
	}

	advisor, err := a.provider.VersionAdvisor()
	if err != nil {
		// the command itself will report a broken setup
		a.provider.Logger().WithError(err).Debug("Version check unavailable")
		return nil
	}
	advisor.Check(cmd.Context())
	return nil
}

func skipsVersionCheck(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[skipVersionCheck]; ok {
			return true
		}
		if c.Name() == "help" || c.Name() == cobra.ShellCompRequestCmd {
			return true
		}
	}
	return false
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
