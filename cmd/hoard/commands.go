package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Shadow53/hoard-sub001/pkg/commands"
	"github.com/Shadow53/hoard-sub001/pkg/config"
	"github.com/Shadow53/hoard-sub001/pkg/filesystem"
	"github.com/Shadow53/hoard-sub001/pkg/host"
	"github.com/Shadow53/hoard-sub001/pkg/paths"
)

// loadConfig resolves paths and loads the user config, the common
// prologue of every command that reads hoards.
func loadConfig() (*paths.Paths, filesystem.FS, *config.Config, error) {
	p := paths.New()
	fsys := filesystem.NewOS()
	cfg, err := config.Load(fsys, p)
	if err != nil {
		return nil, nil, nil, err
	}
	return p, fsys, cfg, nil
}

func reportError(err error) error {
	log.Error().Err(err).Msg("Command failed")
	pterm.Error.Println(err.Error())
	return err
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the config and data directories and this device's UUID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.Init(commands.InitOptions{
				FS:    filesystem.NewOS(),
				Paths: paths.New(),
			})
			if err != nil {
				return reportError(err)
			}
			pterm.Success.Printfln("Initialized hoard (device %s)", result.DeviceUUID)
			if result.WroteTemplate {
				pterm.Info.Printfln("Wrote default config to %s", result.ConfigFile)
			}
			return nil
		},
	}
}

func newBackupCmd(force *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [hoards...]",
		Short: "Copy hoards from this machine into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, fsys, cfg, err := loadConfig()
			if err != nil {
				return reportError(err)
			}
			result, err := commands.Backup(commands.BackupOptions{
				FS: fsys, Host: host.NewOS(), Paths: p, Config: cfg,
				Hoards: args, Force: *force,
			})
			return reportSync(result, err, "Backed up")
		},
	}
}

func newRestoreCmd(force *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [hoards...]",
		Short: "Copy hoards from the store onto this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, fsys, cfg, err := loadConfig()
			if err != nil {
				return reportError(err)
			}
			result, err := commands.Restore(commands.RestoreOptions{
				FS: fsys, Host: host.NewOS(), Paths: p, Config: cfg,
				Hoards: args, Force: *force,
			})
			return reportSync(result, err, "Restored")
		},
	}
}

func reportSync(result *commands.SyncResult, err error, verb string) error {
	if result != nil {
		for _, name := range result.Synced {
			pterm.Success.Printfln("%s %s", verb, name)
		}
		for name, hoardErr := range result.Failed {
			pterm.Error.Printfln("%s: %v", name, hoardErr)
		}
	}
	if err != nil {
		log.Error().Err(err).Msg("Command failed")
		return err
	}
	return nil
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config file for errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, cfg, err := loadConfig()
			if err != nil {
				return reportError(err)
			}
			if err := commands.Validate(commands.ValidateOptions{Config: cfg}); err != nil {
				return reportError(err)
			}
			pterm.Success.Println("Configuration is valid")
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [hoards...]",
		Short: "Show which hoards have pending changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, fsys, cfg, err := loadConfig()
			if err != nil {
				return reportError(err)
			}
			statuses, err := commands.Status(commands.StatusOptions{
				FS: fsys, Host: host.NewOS(), Paths: p, Config: cfg,
				Hoards: args,
			})
			if err != nil {
				return reportError(err)
			}
			for _, status := range statuses {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", status.Hoard, statusLine(status))
			}
			return nil
		},
	}
}

func statusLine(status commands.HoardStatus) string {
	switch status.State {
	case commands.StateUpToDate:
		return "up to date"
	case commands.StateModifiedLocal:
		return fmt.Sprintf("modified locally -- sync with `hoard backup %s`", status.Hoard)
	case commands.StateModifiedRemote:
		return fmt.Sprintf("modified remotely -- sync with `hoard restore %s`", status.Hoard)
	case commands.StateMixed:
		return fmt.Sprintf("mixed changes -- manual intervention may be required, see `hoard diff %s`", status.Hoard)
	default:
		return fmt.Sprintf("unexpected changes -- manual intervention may be required, see `hoard diff %s`", status.Hoard)
	}
}

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <hoard>",
		Short: "List files that differ between this machine and the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, fsys, cfg, err := loadConfig()
			if err != nil {
				return reportError(err)
			}
			diffs, err := commands.Diff(commands.DiffOptions{
				FS: fsys, Host: host.NewOS(), Paths: p, Config: cfg,
				Hoard: args[0],
			})
			if err != nil {
				return reportError(err)
			}
			if len(diffs) == 0 {
				pterm.Success.Printfln("%s is up to date", args[0])
				return nil
			}
			for _, diff := range diffs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", diff.SystemPath, diffLine(diff))
			}
			return nil
		},
	}
}

func diffLine(diff commands.FileDiff) string {
	switch diff.Source {
	case commands.SourceLocal:
		return fmt.Sprintf("%s locally", diff.Kind)
	case commands.SourceRemote:
		return fmt.Sprintf("%s remotely", diff.Kind)
	default:
		return fmt.Sprintf("unexpectedly %s", diff.Kind)
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print configured hoard names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, cfg, err := loadConfig()
			if err != nil {
				return reportError(err)
			}
			for _, name := range commands.List(commands.ListOptions{Config: cfg}) {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete operation log files superseded by later ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := commands.Cleanup(commands.CleanupOptions{
				FS:    filesystem.NewOS(),
				Paths: paths.New(),
			})
			pterm.Info.Printfln("Deleted %d log file(s)", count)
			if err != nil {
				return reportError(err)
			}
			return nil
		},
	}
}

func newUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Rewrite operation log files in the latest format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := commands.Upgrade(commands.UpgradeOptions{
				FS:    filesystem.NewOS(),
				Paths: paths.New(),
			})
			pterm.Info.Printfln("Upgraded %d log file(s)", count)
			if err != nil {
				return reportError(err)
			}
			return nil
		},
	}
}

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the config file in your editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := commands.Edit(commands.EditOptions{
				Host:  host.NewOS(),
				Paths: paths.New(),
			})
			if err != nil {
				return reportError(err)
			}
			return nil
		},
	}
}
