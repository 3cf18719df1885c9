package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Shadow53/hoard-sub001/pkg/logging"
)

var version = "dev"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		force     bool
	)

	rootCmd := &cobra.Command{
		Use:   "hoard",
		Short: "Back up and restore files across machines",
		Long: `hoard backs up named groups of files (hoards) to a shared store and
restores them on other machines. Which path a hoard uses on each
machine is decided by the environments you declare in the config file.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, "Skip out-of-date checks before backup and restore")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newBackupCmd(&force))
	rootCmd.AddCommand(newRestoreCmd(&force))
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newCleanupCmd())
	rootCmd.AddCommand(newUpgradeCmd())
	rootCmd.AddCommand(newEditCmd())

	return rootCmd
}
