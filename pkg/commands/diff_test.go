package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shadow53/hoard-sub001/pkg/commands"
	"github.com/Shadow53/hoard-sub001/pkg/config"
	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/testutil"
)

// backedUpVim backs up a one-file vim hoard and returns its config and
// the system path of the file.
func backedUpVim(t *testing.T, env *testutil.Environment) (*config.Config, string) {
	t.Helper()
	cfg := vimConfig(t, env)
	path := env.WriteHomeFile(t, ".vim/vimrc", "set number\n")
	_, err := commands.Backup(commands.BackupOptions{
		FS: env.FS, Host: testutil.NewFakeHost(), Paths: env.Paths, Config: cfg,
	})
	require.NoError(t, err)
	return cfg, path
}

func runDiff(t *testing.T, env *testutil.Environment, cfg *config.Config) []commands.FileDiff {
	t.Helper()
	diffs, err := commands.Diff(commands.DiffOptions{
		FS: env.FS, Host: testutil.NewFakeHost(), Paths: env.Paths, Config: cfg,
		Hoard: "vim",
	})
	require.NoError(t, err)
	return diffs
}

func TestValidate_AcceptsGoodConfig(t *testing.T) {
	cfg := parseConfig(t, `
exclusivity = [["foo", "bar"]]

[envs.foo]
[envs.bar]

[hoards.h]
"foo" = "/a"
"bar" = "/b"
`)

	require.NoError(t, commands.Validate(commands.ValidateOptions{Config: cfg}))
}

func TestValidate_RejectsUndeclaredEnvironmentInPile(t *testing.T) {
	cfg := parseConfig(t, `
[envs.foo]

[hoards.h]
"ghost" = "/a"
`)

	err := commands.Validate(commands.ValidateOptions{Config: cfg})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownEnvironment))
}

func TestDiff_UpToDateAfterBackup(t *testing.T) {
	env := testutil.NewEnvironment(t)
	cfg, _ := backedUpVim(t, env)

	assert.Empty(t, runDiff(t, env, cfg))
}

func TestDiff_LocalEditIsModifiedLocally(t *testing.T) {
	env := testutil.NewEnvironment(t)
	cfg, path := backedUpVim(t, env)

	require.NoError(t, os.WriteFile(path, []byte("set relativenumber\n"), 0644))

	diffs := runDiff(t, env, cfg)
	require.Len(t, diffs, 1)
	assert.Equal(t, "vimrc", diffs[0].Path)
	assert.Equal(t, path, diffs[0].SystemPath)
	assert.Equal(t, commands.ChangeModified, diffs[0].Kind)
	assert.Equal(t, commands.SourceLocal, diffs[0].Source)
}

func TestDiff_StoreEditIsModifiedRemotely(t *testing.T) {
	env := testutil.NewEnvironment(t)
	cfg, _ := backedUpVim(t, env)

	stored := filepath.Join(env.Paths.HoardStoreDir("vim", ""), "vimrc")
	require.NoError(t, os.WriteFile(stored, []byte("set mouse=a\n"), 0644))

	diffs := runDiff(t, env, cfg)
	require.Len(t, diffs, 1)
	assert.Equal(t, commands.ChangeModified, diffs[0].Kind)
	assert.Equal(t, commands.SourceRemote, diffs[0].Source)
}

func TestDiff_NewSystemFileIsCreatedLocally(t *testing.T) {
	env := testutil.NewEnvironment(t)
	cfg, _ := backedUpVim(t, env)

	env.WriteHomeFile(t, ".vim/gvimrc", "set guifont=mono\n")

	diffs := runDiff(t, env, cfg)
	require.Len(t, diffs, 1)
	assert.Equal(t, "gvimrc", diffs[0].Path)
	assert.Equal(t, commands.ChangeCreated, diffs[0].Kind)
	assert.Equal(t, commands.SourceLocal, diffs[0].Source)
}

func TestDiff_RemovedSystemFileIsDeletedLocally(t *testing.T) {
	env := testutil.NewEnvironment(t)
	cfg, path := backedUpVim(t, env)

	require.NoError(t, os.Remove(path))

	diffs := runDiff(t, env, cfg)
	require.Len(t, diffs, 1)
	assert.Equal(t, commands.ChangeDeleted, diffs[0].Kind)
	assert.Equal(t, commands.SourceLocal, diffs[0].Source)
}

func TestDiff_StoreOnlyFileWithoutHistoryIsCreatedRemotely(t *testing.T) {
	env := testutil.NewEnvironment(t)
	cfg := vimConfig(t, env)

	// Another machine backed this hoard up; this one never synced it.
	storeRoot := env.Paths.HoardStoreDir("vim", "")
	require.NoError(t, os.MkdirAll(storeRoot, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(storeRoot, "vimrc"), []byte("set number\n"), 0644))

	diffs := runDiff(t, env, cfg)
	require.Len(t, diffs, 1)
	assert.Equal(t, commands.ChangeCreated, diffs[0].Kind)
	assert.Equal(t, commands.SourceRemote, diffs[0].Source)
}

func runStatus(t *testing.T, env *testutil.Environment, cfg *config.Config) []commands.HoardStatus {
	t.Helper()
	statuses, err := commands.Status(commands.StatusOptions{
		FS: env.FS, Host: testutil.NewFakeHost(), Paths: env.Paths, Config: cfg,
	})
	require.NoError(t, err)
	return statuses
}

func TestStatus_UpToDateAfterBackup(t *testing.T) {
	env := testutil.NewEnvironment(t)
	cfg, _ := backedUpVim(t, env)

	statuses := runStatus(t, env, cfg)
	require.Len(t, statuses, 1)
	assert.Equal(t, "vim", statuses[0].Hoard.String())
	assert.Equal(t, commands.StateUpToDate, statuses[0].State)
}

func TestStatus_LocalEditSuggestsBackup(t *testing.T) {
	env := testutil.NewEnvironment(t)
	cfg, path := backedUpVim(t, env)

	require.NoError(t, os.WriteFile(path, []byte("edited\n"), 0644))

	statuses := runStatus(t, env, cfg)
	require.Len(t, statuses, 1)
	assert.Equal(t, commands.StateModifiedLocal, statuses[0].State)
}

func TestStatus_StoreChangeSuggestsRestore(t *testing.T) {
	env := testutil.NewEnvironment(t)
	cfg, _ := backedUpVim(t, env)

	stored := filepath.Join(env.Paths.HoardStoreDir("vim", ""), "vimrc")
	require.NoError(t, os.WriteFile(stored, []byte("theirs\n"), 0644))

	statuses := runStatus(t, env, cfg)
	require.Len(t, statuses, 1)
	assert.Equal(t, commands.StateModifiedRemote, statuses[0].State)
}

func TestStatus_BothSidesChangedIsMixed(t *testing.T) {
	env := testutil.NewEnvironment(t)
	cfg := vimConfig(t, env)

	path := env.WriteHomeFile(t, ".vim/vimrc", "one\n")
	env.WriteHomeFile(t, ".vim/gvimrc", "two\n")
	_, err := commands.Backup(commands.BackupOptions{
		FS: env.FS, Host: testutil.NewFakeHost(), Paths: env.Paths, Config: cfg,
	})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("mine\n"), 0644))
	stored := filepath.Join(env.Paths.HoardStoreDir("vim", ""), "gvimrc")
	require.NoError(t, os.WriteFile(stored, []byte("theirs\n"), 0644))

	statuses := runStatus(t, env, cfg)
	require.Len(t, statuses, 1)
	assert.Equal(t, commands.StateMixed, statuses[0].State)
}
