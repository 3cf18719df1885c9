package oplog

import (
	"path/filepath"

	"github.com/Shadow53/hoard-sub001/pkg/errors"
)

// Cleanup removes redundant log files: within one (device, hoard)
// stream, any record fully superseded by a later one is deleted.
// Partial progress is reported even on failure; the count of deleted
// files and the first error (if any) are both returned. Running
// Cleanup twice yields the same filesystem state as running it once.
func (l *Log) Cleanup() (int, error) {
	devices, err := l.allDevices()
	if err != nil {
		return 0, err
	}

	deleted := 0
	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, device := range devices {
		hoards, err := l.deviceHoards(device)
		if err != nil {
			keep(err)
			continue
		}
		for _, hoardName := range hoards {
			count, err := l.cleanupStream(device, hoardName)
			deleted += count
			if err != nil {
				keep(err)
			}
		}
	}

	return deleted, firstErr
}

// cleanupStream prunes one (device, hoard) log stream.
func (l *Log) cleanupStream(device, hoardName string) (int, error) {
	records, err := l.hoardRecords(device, hoardName)
	if err != nil {
		return 0, err
	}

	dir := l.paths.HoardHistoryDir(device, hoardName)
	deleted := 0
	for i, record := range records {
		superseded := false
		for _, later := range records[i+1:] {
			if record.SupersededBy(later) {
				superseded = true
				break
			}
		}
		if !superseded {
			continue
		}

		path := filepath.Join(dir, record.FileName())
		if err := l.fs.Remove(path); err != nil {
			return deleted, errors.Wrapf(err, errors.ErrIO, "failed to delete redundant log %q", path)
		}
		l.logger.Debug().Str("file", path).Msg("Deleted redundant operation record")
		deleted++
	}

	return deleted, nil
}
