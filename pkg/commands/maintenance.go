package commands

import (
	"github.com/Shadow53/hoard-sub001/pkg/filesystem"
	"github.com/Shadow53/hoard-sub001/pkg/logging"
	"github.com/Shadow53/hoard-sub001/pkg/oplog"
	"github.com/Shadow53/hoard-sub001/pkg/paths"
)

// CleanupOptions defines the options for the Cleanup command.
type CleanupOptions struct {
	FS    filesystem.FS
	Paths *paths.Paths
}

// Cleanup deletes operation log files fully superseded by later ones.
// It returns how many were deleted; on error the count still reflects
// the deletions that happened before the failure.
func Cleanup(opts CleanupOptions) (int, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Cleanup").Msg("Executing command")

	journal, err := openJournal(opts.FS, opts.Paths)
	if err != nil {
		return 0, err
	}
	count, err := journal.Cleanup()
	log.Info().Str("command", "Cleanup").Int("deleted", count).Msg("Command finished")
	return count, err
}

// UpgradeOptions defines the options for the Upgrade command.
type UpgradeOptions struct {
	FS    filesystem.FS
	Paths *paths.Paths
}

// Upgrade rewrites old-format operation log files in the latest
// format, reporting how many were upgraded and any per-file failures.
func Upgrade(opts UpgradeOptions) (int, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Upgrade").Msg("Executing command")

	journal, err := openJournal(opts.FS, opts.Paths)
	if err != nil {
		return 0, err
	}
	count, err := journal.Upgrade()
	log.Info().Str("command", "Upgrade").Int("upgraded", count).Msg("Command finished")
	return count, err
}

func openJournal(fsys filesystem.FS, p *paths.Paths) (*oplog.Log, error) {
	device, err := p.DeviceUUID(fsys)
	if err != nil {
		return nil, err
	}
	return oplog.NewLog(fsys, p, device.String()), nil
}
