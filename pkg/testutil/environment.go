package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shadow53/hoard-sub001/pkg/filesystem"
	"github.com/Shadow53/hoard-sub001/pkg/paths"
)

// Environment is an isolated config/data/home layout for one test.
// The config and data dir overrides are set via t.Setenv, so anything
// resolving paths.New() inside the test sees the temp layout.
type Environment struct {
	ConfigDir string
	DataDir   string
	Home      string
	Paths     *paths.Paths
	FS        filesystem.FS
}

// NewEnvironment creates temp config, data, and home directories and
// points hoard at them.
func NewEnvironment(t *testing.T) *Environment {
	t.Helper()
	root := t.TempDir()
	env := &Environment{
		ConfigDir: filepath.Join(root, "config"),
		DataDir:   filepath.Join(root, "data"),
		Home:      filepath.Join(root, "home"),
		FS:        filesystem.NewOS(),
	}
	require.NoError(t, os.MkdirAll(env.Home, 0755))
	t.Setenv(paths.EnvConfigDir, env.ConfigDir)
	t.Setenv(paths.EnvDataDir, env.DataDir)
	env.Paths = paths.New()
	return env
}

// WriteHomeFile creates a file under the temp home directory.
func (e *Environment) WriteHomeFile(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(e.Home, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// ReadFile reads a file, failing the test on error.
func (e *Environment) ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
