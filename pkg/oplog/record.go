// Package oplog implements the per-hoard operation journal.
//
// Every backup or restore appends one record under
// data_dir/history/<device_uuid>/<hoard>/<timestamp>.log. Records
// carry per-file checksums so that machines sharing the store can
// detect when one of them would overwrite changes made by another.
// Log files are write-once: each is uniquely named by its timestamp
// and written via temp file + rename so a record either exists in full
// or not at all.
package oplog

import (
	"encoding/json"
	"regexp"
	"time"

	"github.com/Shadow53/hoard-sub001/pkg/checksum"
	"github.com/Shadow53/hoard-sub001/pkg/errors"
)

// LatestVersion is the current record schema version.
const LatestVersion = 2

// Direction indicates which way files were copied.
type Direction string

const (
	// DirectionBackup copies host -> store.
	DirectionBackup Direction = "backup"
	// DirectionRestore copies store -> host.
	DirectionRestore Direction = "restore"
)

// timeFilenameFormat names log files so that lexicographic order is
// chronological order.
const timeFilenameFormat = "2006_01_02-15_04_05.000000"

var logFileRegex = regexp.MustCompile(`^[0-9]{4}(_[0-9]{2}){2}-([0-9]{2}_){2}[0-9]{2}\.[0-9]{6}\.log$`)

// FileIsLog reports whether a file name matches the operation log
// naming scheme.
func FileIsLog(name string) bool {
	return logFileRegex.MatchString(name)
}

// PileMap maps pile name (empty string for the anonymous pile) to a
// map of pile-relative path to file checksum.
type PileMap map[string]map[string]checksum.Checksum

// Record is one journaled operation. Version is serialized first so
// old parsers fail fast on newer schemas.
type Record struct {
	Version    int       `json:"version"`
	Timestamp  time.Time `json:"timestamp"`
	DeviceUUID string    `json:"device_uuid"`
	Direction  Direction `json:"direction"`
	Hoard      string    `json:"hoard"`
	Piles      PileMap   `json:"piles"`
}

// recordV1 is the legacy schema: no version field, no embedded device
// UUID (it was implied by the directory), and a boolean instead of a
// direction.
type recordV1 struct {
	Timestamp time.Time `json:"timestamp"`
	IsBackup  bool      `json:"is_backup"`
	HoardName string    `json:"hoard_name"`
	Piles     PileMap   `json:"hoard"`
}

// NewRecord creates a latest-version record stamped with the current
// time.
func NewRecord(deviceUUID, hoardName string, direction Direction, piles PileMap) *Record {
	if piles == nil {
		piles = make(PileMap)
	}
	return &Record{
		Version:    LatestVersion,
		Timestamp:  time.Now().UTC(),
		DeviceUUID: deviceUUID,
		Direction:  direction,
		Hoard:      hoardName,
		Piles:      piles,
	}
}

// FileName returns the log file name derived from the record's
// timestamp.
func (r *Record) FileName() string {
	return r.Timestamp.UTC().Format(timeFilenameFormat) + ".log"
}

// NeedsUpgrade reports whether the record was parsed from an older
// schema.
func (r *Record) NeedsUpgrade() bool {
	return r.Version < LatestVersion
}

// ChecksumFor returns the recorded checksum for a file, if present.
func (r *Record) ChecksumFor(pile, relPath string) (checksum.Checksum, bool) {
	files, ok := r.Piles[pile]
	if !ok {
		return "", false
	}
	sum, ok := files[relPath]
	return sum, ok
}

// Before orders records by (timestamp, device_uuid): cross-device ties
// break lexicographically on the UUID.
func (r *Record) Before(other *Record) bool {
	if !r.Timestamp.Equal(other.Timestamp) {
		return r.Timestamp.Before(other.Timestamp)
	}
	return r.DeviceUUID < other.DeviceUUID
}

// Marshal serializes the record as JSON.
func (r *Record) Marshal() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrLogAppend, "failed to serialize operation record")
	}
	return data, nil
}

// ParseRecord deserializes a record, trying the latest schema first
// and falling back to older ones. Records from older schemas keep
// their original Version so callers can detect the need for upgrade;
// deviceUUID fills the field legacy records lack.
func ParseRecord(data []byte, deviceUUID string) (*Record, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(err, errors.ErrLogParse, "operation record is not valid JSON")
	}

	switch probe.Version {
	case LatestVersion:
		var record Record
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, errors.Wrap(err, errors.ErrLogParse, "failed to parse operation record")
		}
		if record.Direction != DirectionBackup && record.Direction != DirectionRestore {
			return nil, errors.Newf(errors.ErrLogParse, "invalid direction %q in operation record", record.Direction)
		}
		return &record, nil
	case 0:
		var legacy recordV1
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, errors.Wrap(err, errors.ErrLogParse, "record matches no known operation log version")
		}
		if legacy.Timestamp.IsZero() || legacy.HoardName == "" {
			return nil, errors.New(errors.ErrLogParse, "record matches no known operation log version")
		}
		direction := DirectionRestore
		if legacy.IsBackup {
			direction = DirectionBackup
		}
		piles := legacy.Piles
		if piles == nil {
			piles = make(PileMap)
		}
		return &Record{
			Version:    1,
			Timestamp:  legacy.Timestamp,
			DeviceUUID: deviceUUID,
			Direction:  direction,
			Hoard:      legacy.HoardName,
			Piles:      piles,
		}, nil
	default:
		return nil, errors.Newf(errors.ErrLogParse,
			"operation record version %d is newer than this version of hoard understands", probe.Version)
	}
}

// SupersededBy reports whether this record is fully covered by a later
// one: same direction and every recorded (pile, path, checksum) entry
// appears identically in the later record.
func (r *Record) SupersededBy(later *Record) bool {
	if r.Direction != later.Direction {
		return false
	}
	for pile, files := range r.Piles {
		laterFiles, ok := later.Piles[pile]
		if !ok && len(files) > 0 {
			return false
		}
		for relPath, sum := range files {
			laterSum, ok := laterFiles[relPath]
			if !ok || laterSum != sum {
				return false
			}
		}
	}
	return true
}
