// Package cli holds the syncsix command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/syncsix/internal/config"
)

// Version is stamped at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

type rootOptions struct {
	cfgFile string
	verbose bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "syncsix",
		Short: "SyncSix numerology and gematria scoring for athletes",
		Long: `SyncSix scores athletes against a game date.

Each player is matched on jersey number, date of birth and the gematria of
the player, team and opponent names against the six numbers derived from the
game date. Players are ranked by score.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if opts.cfgFile != "" {
				return os.Setenv(config.EnvConfigFile, opts.cfgFile)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "YAML config file (overrides $"+config.EnvConfigFile+")")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(
		newServeCmd(opts),
		newScoreCmd(opts),
		newLoadTestCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("syncsix " + Version)
		},
	}
}
