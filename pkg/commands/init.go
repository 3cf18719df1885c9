package commands

import (
	"github.com/Shadow53/hoard-sub001/pkg/config"
	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/filesystem"
	"github.com/Shadow53/hoard-sub001/pkg/logging"
	"github.com/Shadow53/hoard-sub001/pkg/paths"
)

// InitOptions defines the options for the Init command.
type InitOptions struct {
	FS    filesystem.FS
	Paths *paths.Paths
}

// InitResult reports what Init created.
type InitResult struct {
	ConfigFile    string
	DataDir       string
	DeviceUUID    string
	WroteTemplate bool
}

// Init creates the config and data directories, the device UUID, and a
// default config file. Re-running is safe: an existing config file is
// left untouched.
func Init(opts InitOptions) (*InitResult, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Init").Msg("Executing command")

	for _, dir := range []string{
		opts.Paths.ConfigDir(),
		opts.Paths.DataDir(),
		opts.Paths.HistoryDir(),
		opts.Paths.StoreDir(),
	} {
		if err := opts.FS.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrInit, "failed to create directory %q", dir)
		}
	}

	device, err := opts.Paths.DeviceUUID(opts.FS)
	if err != nil {
		return nil, err
	}

	result := &InitResult{
		ConfigFile: opts.Paths.ConfigFile(),
		DataDir:    opts.Paths.DataDir(),
		DeviceUUID: device.String(),
	}

	if _, err := opts.FS.Stat(result.ConfigFile); err != nil {
		if err := opts.FS.WriteFile(result.ConfigFile, []byte(config.DefaultConfig), 0644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrInit, "failed to write default config to %q", result.ConfigFile)
		}
		result.WroteTemplate = true
	}

	log.Info().Str("command", "Init").Str("uuid", result.DeviceUUID).Msg("Command finished")
	return result, nil
}
