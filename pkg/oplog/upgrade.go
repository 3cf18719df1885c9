package oplog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Shadow53/hoard-sub001/pkg/errors"
)

// Upgrade rewrites every old-schema log file in the latest format. Each
// file keeps its name, so upgraded records stay in their original
// position in the stream. Files that cannot be parsed or rewritten are
// skipped and reported together; everything else is still upgraded.
// Running Upgrade on an already-current log is a no-op.
func (l *Log) Upgrade() (int, error) {
	devices, err := l.allDevices()
	if err != nil {
		return 0, err
	}

	upgraded := 0
	var failures []string
	for _, device := range devices {
		hoards, err := l.deviceHoards(device)
		if err != nil {
			failures = append(failures, err.Error())
			continue
		}
		for _, hoardName := range hoards {
			count, errs := l.upgradeStream(device, hoardName)
			upgraded += count
			failures = append(failures, errs...)
		}
	}

	if len(failures) > 0 {
		return upgraded, errors.Newf(errors.ErrLogParse,
			"failed to upgrade %d operation log file(s):\n%s",
			len(failures), strings.Join(failures, "\n"))
	}
	return upgraded, nil
}

// upgradeStream rewrites the old-schema files in one (device, hoard)
// directory. Per-file failures are collected, not fatal.
func (l *Log) upgradeStream(device, hoardName string) (int, []string) {
	dir := l.paths.HoardHistoryDir(device, hoardName)
	entries, err := l.fs.ReadDir(dir)
	if err != nil {
		return 0, nil
	}

	upgraded := 0
	var failures []string
	for _, entry := range entries {
		if entry.IsDir() || !FileIsLog(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		data, err := l.fs.ReadFile(path)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		record, err := ParseRecord(data, device)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		if !record.NeedsUpgrade() {
			continue
		}

		record.Version = LatestVersion
		out, err := record.Marshal()
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		temp := path + ".tmp"
		if err := l.fs.WriteFile(temp, out, 0644); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		if err := l.fs.Rename(temp, path); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
			continue
		}

		l.logger.Debug().Str("file", path).Msg("Upgraded operation record")
		upgraded++
	}

	return upgraded, failures
}
