package paths

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/filesystem"
)

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv(EnvConfigDir, "/custom/config")
	t.Setenv(EnvDataDir, "/custom/data")

	p := New()
	assert.Equal(t, "/custom/config", p.ConfigDir())
	assert.Equal(t, "/custom/data", p.DataDir())
	assert.Equal(t, filepath.Join("/custom/config", "config.toml"), p.ConfigFile())
	assert.Equal(t, filepath.Join("/custom/data", "uuid"), p.UUIDFile())
}

func TestNew_XDGDirs(t *testing.T) {
	t.Setenv(EnvConfigDir, "")
	t.Setenv(EnvDataDir, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	p := New()
	assert.Equal(t, filepath.Join("/xdg/config", "hoard"), p.ConfigDir())
	assert.Equal(t, filepath.Join("/xdg/data", "hoard"), p.DataDir())
}

func TestLayout(t *testing.T) {
	t.Setenv(EnvDataDir, "/data")
	p := New()

	assert.Equal(t, filepath.Join("/data", "history"), p.HistoryDir())
	assert.Equal(t, filepath.Join("/data", "history", "abc"), p.DeviceHistoryDir("abc"))
	assert.Equal(t, filepath.Join("/data", "history", "abc", "vim"), p.HoardHistoryDir("abc", "vim"))
	assert.Equal(t, filepath.Join("/data", "hoards", "vim"), p.HoardStoreDir("vim", ""))
	assert.Equal(t, filepath.Join("/data", "hoards", "vim", "rc"), p.HoardStoreDir("vim", "rc"))
}

func TestDeviceUUID_CreatedOnceAndStable(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)
	p := New()
	fs := filesystem.NewOS()

	first, err := p.DeviceUUID(fs)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first)

	second, err := p.DeviceUUID(fs)
	require.NoError(t, err)
	assert.Equal(t, first, second, "UUID must never be rewritten")
}

func TestDeviceUUID_CorruptFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)
	p := New()
	fs := filesystem.NewOS()

	require.NoError(t, fs.WriteFile(p.UUIDFile(), []byte("not-a-uuid"), 0644))

	_, err := p.DeviceUUID(fs)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInit))
	assert.Contains(t, err.Error(), "corrupt")

	// The file is left alone so the identity is never silently replaced.
	data, readErr := fs.ReadFile(p.UUIDFile())
	require.NoError(t, readErr)
	assert.Equal(t, "not-a-uuid", string(data))
}
