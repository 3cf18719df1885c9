// Package paths provides centralized path handling for hoard.
// It implements XDG Base Directory compliance with the macOS
// application-support fallback, and defines the layout of the data
// directory: the store, the operation-log history, and the device UUID
// file.
package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the config directory for hoard
	EnvConfigDir = "HOARD_CONFIG_DIR"

	// EnvDataDir overrides the data directory for hoard
	EnvDataDir = "HOARD_DATA_DIR"
)

// Application identifier parts, used for the macOS fallback directory.
const (
	tld     = "com"
	company = "shadow53"
	project = "hoard"
)

// Names inside the config and data directories. These define hoard's
// on-disk layout and are not user-configurable.
const (
	// ConfigFileName is the name of the user configuration file.
	ConfigFileName = "config.toml"

	// UUIDFileName holds this device's UUID in text form.
	UUIDFileName = "uuid"

	// HistoryDirName is the subdirectory for operation logs.
	HistoryDirName = "history"

	// StoreDirName is the subdirectory holding the hoarded files.
	StoreDirName = "hoards"
)

// Paths resolves every location hoard reads or writes.
type Paths struct {
	configDir string
	dataDir   string
}

// New resolves the config and data directories from the environment.
//
// Order of precedence: HOARD_CONFIG_DIR/HOARD_DATA_DIR overrides, then
// XDG_CONFIG_HOME/XDG_DATA_HOME, then the platform default
// (~/.config and ~/.local/share on non-mac unix,
// ~/Library/Application Support/com.shadow53.hoard on macOS).
func New() *Paths {
	return &Paths{
		configDir: resolveDir(EnvConfigDir, "XDG_CONFIG_HOME", xdg.ConfigHome),
		dataDir:   resolveDir(EnvDataDir, "XDG_DATA_HOME", xdg.DataHome),
	}
}

func resolveDir(overrideVar, xdgVar, xdgDefault string) string {
	if override := os.Getenv(overrideVar); override != "" {
		return override
	}
	if base := os.Getenv(xdgVar); base != "" {
		return filepath.Join(base, project)
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(macFallbackDir())
	}
	return filepath.Join(xdgDefault, project)
}

func macFallbackDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, "Library", "Application Support", tld+"."+company+"."+project)
}

// ConfigDir returns the directory holding config.toml.
func (p *Paths) ConfigDir() string { return p.configDir }

// DataDir returns the directory holding the store, history, and UUID.
func (p *Paths) DataDir() string { return p.dataDir }

// ConfigFile returns the path of the user configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// UUIDFile returns the path of the device UUID file.
func (p *Paths) UUIDFile() string {
	return filepath.Join(p.dataDir, UUIDFileName)
}

// HistoryDir returns the root of the operation-log history.
func (p *Paths) HistoryDir() string {
	return filepath.Join(p.dataDir, HistoryDirName)
}

// DeviceHistoryDir returns the history directory for one device.
func (p *Paths) DeviceHistoryDir(deviceUUID string) string {
	return filepath.Join(p.HistoryDir(), deviceUUID)
}

// HoardHistoryDir returns the log directory for one hoard on one device.
func (p *Paths) HoardHistoryDir(deviceUUID, hoardName string) string {
	return filepath.Join(p.HistoryDir(), deviceUUID, hoardName)
}

// StoreDir returns the root of the hoard store.
func (p *Paths) StoreDir() string {
	return filepath.Join(p.dataDir, StoreDirName)
}

// HoardStoreDir returns the store directory for one hoard, optionally
// narrowed to a named pile.
func (p *Paths) HoardStoreDir(hoardName, pileName string) string {
	if pileName == "" {
		return filepath.Join(p.StoreDir(), hoardName)
	}
	return filepath.Join(p.StoreDir(), hoardName, pileName)
}
