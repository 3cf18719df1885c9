package oplog

import (
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/filesystem"
	"github.com/Shadow53/hoard-sub001/pkg/logging"
	"github.com/Shadow53/hoard-sub001/pkg/paths"
)

// Log reads and appends operation records for one device against a
// shared history directory.
type Log struct {
	fs     filesystem.FS
	paths  *paths.Paths
	device string
	logger zerolog.Logger
}

// NewLog binds a Log to this device's UUID.
func NewLog(fs filesystem.FS, p *paths.Paths, deviceUUID string) *Log {
	return &Log{
		fs:     fs,
		paths:  p,
		device: deviceUUID,
		logger: logging.GetLogger("oplog"),
	}
}

// DeviceUUID returns the UUID the log writes under.
func (l *Log) DeviceUUID() string { return l.device }

// Append journals a record for this device. The record is serialized
// to a temp file and atomically renamed into place, so a crash leaves
// either a complete record or nothing.
func (l *Log) Append(record *Record) error {
	dir := l.paths.HoardHistoryDir(l.device, record.Hoard)
	if err := l.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrLogAppend, "failed to create log directory %q", dir)
	}

	data, err := record.Marshal()
	if err != nil {
		return err
	}

	// Log files are write-once: each name is unique per (device,
	// timestamp), so an existing file means a duplicate timestamp and
	// must not be clobbered.
	final := filepath.Join(dir, record.FileName())
	if _, err := l.fs.Stat(final); err == nil {
		return errors.Newf(errors.ErrLogAppend, "operation record %q already exists", final)
	}
	temp := final + ".tmp"
	if err := l.fs.WriteFile(temp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrLogAppend, "failed to write operation record to %q", temp)
	}
	if err := l.fs.Rename(temp, final); err != nil {
		return errors.Wrapf(err, errors.ErrLogAppend, "failed to finalize operation record %q", final)
	}

	l.logger.Debug().
		Str("hoard", record.Hoard).
		Str("direction", string(record.Direction)).
		Str("file", final).
		Msg("Appended operation record")
	return nil
}

// hoardRecords loads every record for a hoard under one device
// directory, sorted oldest first.
func (l *Log) hoardRecords(deviceUUID, hoardName string) ([]*Record, error) {
	dir := l.paths.HoardHistoryDir(deviceUUID, hoardName)
	entries, err := l.fs.ReadDir(dir)
	if err != nil {
		// A device that never touched this hoard has no directory.
		return nil, nil
	}

	var records []*Record
	for _, entry := range entries {
		if entry.IsDir() || !FileIsLog(entry.Name()) {
			continue
		}
		data, err := l.fs.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrIO, "failed to read operation record %q", entry.Name())
		}
		record, err := ParseRecord(data, deviceUUID)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Before(records[j]) })
	return records, nil
}

// LatestLocal returns the newest record this device wrote for the
// hoard, or nil if it has none.
func (l *Log) LatestLocal(hoardName string) (*Record, error) {
	records, err := l.hoardRecords(l.device, hoardName)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[len(records)-1], nil
}

// LatestRemote returns the newest record any other device wrote for
// the hoard, or nil if there are none. Timestamp ties break on device
// UUID.
func (l *Log) LatestRemote(hoardName string) (*Record, error) {
	devices, err := l.otherDevices()
	if err != nil {
		return nil, err
	}

	var latest *Record
	for _, device := range devices {
		records, err := l.hoardRecords(device, hoardName)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			continue
		}
		candidate := records[len(records)-1]
		if latest == nil || latest.Before(candidate) {
			latest = candidate
		}
	}
	return latest, nil
}

// otherDevices lists history directories belonging to other machines.
// Only directory names that parse as UUIDs count.
func (l *Log) otherDevices() ([]string, error) {
	entries, err := l.fs.ReadDir(l.paths.HistoryDir())
	if err != nil {
		return nil, nil
	}

	var devices []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, err := uuid.Parse(name); err != nil {
			continue
		}
		if name != l.device {
			devices = append(devices, name)
		}
	}
	sort.Strings(devices)
	return devices, nil
}

// allDevices lists every device history directory, including this one.
func (l *Log) allDevices() ([]string, error) {
	entries, err := l.fs.ReadDir(l.paths.HistoryDir())
	if err != nil {
		return nil, nil
	}

	var devices []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := uuid.Parse(entry.Name()); err != nil {
			continue
		}
		devices = append(devices, entry.Name())
	}
	sort.Strings(devices)
	return devices, nil
}

// deviceHoards lists the hoard directories under one device's history.
func (l *Log) deviceHoards(deviceUUID string) ([]string, error) {
	entries, err := l.fs.ReadDir(l.paths.DeviceHistoryDir(deviceUUID))
	if err != nil {
		return nil, nil
	}

	var hoards []string
	for _, entry := range entries {
		if entry.IsDir() {
			hoards = append(hoards, entry.Name())
		}
	}
	sort.Strings(hoards)
	return hoards, nil
}
