package paths

import (
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/filesystem"
	"github.com/Shadow53/hoard-sub001/pkg/logging"
)

// DeviceUUID returns this machine's stable identifier, creating it on
// first use. The file is written with a create-exclusive open so two
// concurrent runs cannot race distinct UUIDs; on a lost race the
// winner's value is read back. An existing file that does not parse is
// an error: regenerating would change this device's identity and
// orphan its history stream, so the user must remove the file
// deliberately.
func (p *Paths) DeviceUUID(fs filesystem.FS) (uuid.UUID, error) {
	logger := logging.GetLogger("paths")
	file := p.UUIDFile()

	if data, err := fs.ReadFile(file); err == nil {
		return parseUUIDFile(file, data)
	}

	newID := uuid.New()
	if err := fs.MkdirAll(p.dataDir, 0755); err != nil {
		return uuid.Nil, errors.Wrapf(err, errors.ErrInit, "failed to create data directory %q", p.dataDir)
	}
	err := fs.WriteFileExclusive(file, []byte(newID.String()), 0644)
	if err == nil {
		logger.Debug().Str("uuid", newID.String()).Msg("Generated new device UUID")
		return newID, nil
	}
	if os.IsExist(err) {
		// Another process won the race; use its value.
		if data, readErr := fs.ReadFile(file); readErr == nil {
			return parseUUIDFile(file, data)
		}
	}
	return uuid.Nil, errors.Wrapf(err, errors.ErrInit, "failed to write device UUID to %q", file)
}

func parseUUIDFile(file string, data []byte) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(string(data)))
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, errors.ErrInit,
			"device UUID file %q is corrupt: remove it to generate a new identity for this device", file)
	}
	return id, nil
}
