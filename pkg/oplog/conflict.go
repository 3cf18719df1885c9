package oplog

import (
	"sort"

	"github.com/Shadow53/hoard-sub001/pkg/errors"
)

// CheckBackup refuses a backup that would clobber changes another
// device pushed to the store. If the newest record for the hoard came
// from another device and that record disagrees with the current
// on-disk checksums on any shared path, the caller must restore first.
// current holds the checksums of the files about to be backed up.
func (l *Log) CheckBackup(hoardName string, current PileMap) error {
	remote, err := l.LatestRemote(hoardName)
	if err != nil {
		return err
	}
	if remote == nil {
		return nil
	}
	local, err := l.LatestLocal(hoardName)
	if err != nil {
		return err
	}
	if local != nil && remote.Before(local) {
		// This device has operated since the remote record was written.
		return nil
	}

	if path, ok := firstDivergence(remote.Piles, current); ok {
		return outOfDate(hoardName, path, remote.DeviceUUID)
	}
	return nil
}

// CheckRestore refuses a restore that would clobber local file changes
// no operation record has acknowledged. If this device's newest record
// is also the hoard's newest overall, the on-disk files must still
// match it; a divergence means edits were made after the last backup.
func (l *Log) CheckRestore(hoardName string, current PileMap) error {
	local, err := l.LatestLocal(hoardName)
	if err != nil {
		return err
	}
	if local == nil {
		return nil
	}
	remote, err := l.LatestRemote(hoardName)
	if err != nil {
		return err
	}
	if remote != nil && local.Before(remote) {
		// A newer remote record supersedes the local state anyway.
		return nil
	}

	if path, ok := firstDivergence(local.Piles, current); ok {
		return outOfDate(hoardName, path, local.DeviceUUID)
	}
	return nil
}

// firstDivergence finds the lexically first (pile, path) present in
// both maps whose checksums disagree. Paths present on only one side do
// not conflict.
func firstDivergence(recorded, current PileMap) (string, bool) {
	pileNames := make([]string, 0, len(recorded))
	for pile := range recorded {
		pileNames = append(pileNames, pile)
	}
	sort.Strings(pileNames)

	for _, pile := range pileNames {
		currentFiles, ok := current[pile]
		if !ok {
			continue
		}
		relPaths := make([]string, 0, len(recorded[pile]))
		for relPath := range recorded[pile] {
			relPaths = append(relPaths, relPath)
		}
		sort.Strings(relPaths)

		for _, relPath := range relPaths {
			currentSum, ok := currentFiles[relPath]
			if !ok {
				continue
			}
			if currentSum != recorded[pile][relPath] {
				if pile == "" {
					return relPath, true
				}
				return pile + "/" + relPath, true
			}
		}
	}
	return "", false
}

func outOfDate(hoardName, path, recordedBy string) error {
	return errors.Newf(errors.ErrOutOfDate,
		"hoard %q is out of date: %q changed since the record written by device %s; restore first or pass --force",
		hoardName, path, recordedBy).WithDetail("path", path)
}
