package commands

import (
	"os"

	"github.com/Shadow53/hoard-sub001/pkg/checksum"
	"github.com/Shadow53/hoard-sub001/pkg/config"
	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/filesystem"
	"github.com/Shadow53/hoard-sub001/pkg/hoard"
	"github.com/Shadow53/hoard-sub001/pkg/host"
	"github.com/Shadow53/hoard-sub001/pkg/logging"
	"github.com/Shadow53/hoard-sub001/pkg/newtypes"
	"github.com/Shadow53/hoard-sub001/pkg/oplog"
	"github.com/Shadow53/hoard-sub001/pkg/paths"
)

// BackupOptions defines the options for the Backup command.
type BackupOptions struct {
	FS     filesystem.FS
	Host   host.Host
	Paths  *paths.Paths
	Config *config.Config
	// Hoards selects which hoards to back up; empty means all.
	Hoards []string
	// Force skips the out-of-date conflict check.
	Force bool
}

// RestoreOptions defines the options for the Restore command.
type RestoreOptions struct {
	FS     filesystem.FS
	Host   host.Host
	Paths  *paths.Paths
	Config *config.Config
	Hoards []string
	Force  bool
}

// SyncResult reports the outcome of a backup or restore across hoards.
type SyncResult struct {
	Synced []newtypes.HoardName
	Failed map[newtypes.HoardName]error
}

// Backup copies each selected hoard from the host into the store and
// journals the operation. A failing hoard does not stop the others;
// the result lists both outcomes and the returned error is non-nil if
// any hoard failed.
func Backup(opts BackupOptions) (*SyncResult, error) {
	return runSync(syncOptions(opts), oplog.DirectionBackup)
}

// Restore copies each selected hoard from the store onto the host and
// journals the operation.
func Restore(opts RestoreOptions) (*SyncResult, error) {
	return runSync(syncOptions(BackupOptions(opts)), oplog.DirectionRestore)
}

type syncOptions BackupOptions

func runSync(opts syncOptions, direction oplog.Direction) (*SyncResult, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("direction", string(direction)).Msg("Executing sync command")

	hoards, err := selectHoards(opts.Config, opts.Hoards)
	if err != nil {
		return nil, err
	}

	rctx, err := newResolveContext(opts.FS, opts.Host, opts.Paths, opts.Config)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Failed: make(map[newtypes.HoardName]error)}
	for _, h := range hoards {
		if err := syncHoard(opts, rctx, h, direction); err != nil {
			log.Error().Err(err).Str("hoard", h.Name.String()).Msg("Hoard failed")
			result.Failed[h.Name] = err
			continue
		}
		result.Synced = append(result.Synced, h.Name)
	}

	log.Info().
		Str("direction", string(direction)).
		Int("synced", len(result.Synced)).
		Int("failed", len(result.Failed)).
		Msg("Sync command finished")
	return result, firstFailure(result.Failed)
}

func syncHoard(opts syncOptions, rctx *resolveContext, h *hoard.Hoard, direction oplog.Direction) error {
	resolved, err := h.Resolve(opts.Paths, rctx.declared, rctx.graph, rctx.active)
	if err != nil {
		return err
	}

	if !opts.Force {
		current, err := systemChecksums(opts.FS, resolved)
		if err != nil {
			return err
		}
		if direction == oplog.DirectionBackup {
			err = rctx.journal.CheckBackup(h.Name.String(), current)
		} else {
			err = rctx.journal.CheckRestore(h.Name.String(), current)
		}
		if err != nil {
			return err
		}
	}

	recorded := make(oplog.PileMap)
	for _, pile := range resolved {
		sums, err := syncPile(opts.FS, pile, direction)
		if err != nil {
			return err
		}
		if sums != nil {
			recorded[pile.Name.String()] = sums
		}
	}

	record := oplog.NewRecord(rctx.journal.DeviceUUID(), h.Name.String(), direction, recorded)
	return rctx.journal.Append(record)
}

// syncPile copies one pile in the given direction and returns the
// checksums of the copied files. A pile whose source side does not
// exist yet is skipped and excluded from the record. On backup the
// store side is replaced wholesale so it is an exact snapshot of the
// kept files.
func syncPile(fsys filesystem.FS, pile hoard.ResolvedPile, direction oplog.Direction) (map[string]checksum.Checksum, error) {
	srcRoot, dstRoot := pile.SystemPath, pile.StorePath
	if direction == oplog.DirectionRestore {
		srcRoot, dstRoot = pile.StorePath, pile.SystemPath
	}

	if _, err := fsys.Stat(srcRoot); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to stat %q", srcRoot)
	}
	files, err := pileFiles(fsys, srcRoot, pile.Filter)
	if err != nil {
		return nil, err
	}

	if direction == oplog.DirectionBackup {
		if err := fsys.RemoveAll(dstRoot); err != nil {
			return nil, errors.Wrapf(err, errors.ErrIO, "failed to clear store path %q", dstRoot)
		}
	}

	sums := make(map[string]checksum.Checksum, len(files))
	for _, rel := range files {
		sum, err := copyPileFile(fsys, srcRoot, dstRoot, rel)
		if err != nil {
			return nil, err
		}
		sums[rel] = sum
	}
	return sums, nil
}

// systemChecksums snapshots the current on-host content of every
// resolved pile, for the conflict check.
func systemChecksums(fsys filesystem.FS, resolved []hoard.ResolvedPile) (oplog.PileMap, error) {
	current := make(oplog.PileMap, len(resolved))
	for _, pile := range resolved {
		files, err := pileFiles(fsys, pile.SystemPath, pile.Filter)
		if err != nil {
			return nil, err
		}
		sums, err := checksumFiles(fsys, pile.SystemPath, files)
		if err != nil {
			return nil, err
		}
		current[pile.Name.String()] = sums
	}
	return current, nil
}
