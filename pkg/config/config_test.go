package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shadow53/hoard-sub001/pkg/environment"
	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/newtypes"
)

func TestParse_FullDocument(t *testing.T) {
	t.Setenv("HOME", "/home/user")
	data := []byte(`
exclusivity = [["neovim", "vim"]]

[envs.linux]
os = ["linux"]

[envs.laptop]
hostname = ["my-laptop", "my-laptop.local"]

[envs.vim]
exe_exists = ["vim"]

[envs.neovim]
exe_exists = ["nvim"]
env = [{ var = "EDITOR", expected = "nvim" }]
path_exists = ["/usr/bin/nvim"]

[hoards.vimrc]
"vim" = "${HOME}/.vimrc"
"neovim" = "${HOME}/.config/nvim/init.vim"

[hoards.shell.bashrc]
"linux" = "${HOME}/.bashrc"

[hoards.shell.profile]
"linux" = "${HOME}/.profile"
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	require.Len(t, cfg.Environments, 4)
	assert.True(t, cfg.DeclaredEnvironments()["laptop"])

	require.Len(t, cfg.Exclusivity, 1)
	assert.Equal(t, []newtypes.EnvironmentName{"neovim", "vim"}, cfg.Exclusivity[0])

	vimrc, err := cfg.Hoard("vimrc")
	require.NoError(t, err)
	require.NotNil(t, vimrc.Single)
	assert.Equal(t, "/home/user/.vimrc", vimrc.Single.Paths["vim"])

	shell, err := cfg.Hoard("shell")
	require.NoError(t, err)
	require.Len(t, shell.Multiple, 2)
	assert.Equal(t, "/home/user/.bashrc", shell.Multiple["bashrc"].Paths["linux"])
}

func TestParse_DefaultTemplate(t *testing.T) {
	cfg, err := Parse([]byte(DefaultConfig))
	require.NoError(t, err)
	assert.Empty(t, cfg.Environments)
	assert.Empty(t, cfg.Hoards)
}

func TestParse_UnknownTopLevelField(t *testing.T) {
	_, err := Parse([]byte(`unexpected = true`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestParse_UnknownEnvField(t *testing.T) {
	_, err := Parse([]byte(`
[envs.linux]
operating_system = ["linux"]
`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestParse_ExclusivityUndeclaredEnvironment(t *testing.T) {
	_, err := Parse([]byte(`
exclusivity = [["linux", "ghost"]]

[envs.linux]
os = ["linux"]
`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownEnvironment))
}

func TestParse_ReservedHoardName(t *testing.T) {
	_, err := Parse([]byte(`
[hoards.config]
"linux" = "/a"
`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNameDisallowed))
}

func TestParse_MixedHoardForms(t *testing.T) {
	_, err := Parse([]byte(`
[hoards.bad]
"linux" = "/a"

[hoards.bad.pile]
"linux" = "/b"
`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestParse_PileConfigFallback(t *testing.T) {
	cfg, err := Parse([]byte(`
[hoards.dots.config]
ignore = ["*.bak"]

[hoards.dots.own]
"linux" = "/a"
[hoards.dots.own.config]
ignore = ["*.log"]

[hoards.dots.inherits]
"linux" = "/b"
`))
	require.NoError(t, err)

	dots, err := cfg.Hoard("dots")
	require.NoError(t, err)
	assert.Equal(t, []string{"*.log"}, dots.Multiple["own"].Config.Ignore)
	assert.Equal(t, []string{"*.bak"}, dots.Multiple["inherits"].Config.Ignore)
}

func TestParse_UnknownPileConfigKey(t *testing.T) {
	_, err := Parse([]byte(`
[hoards.dots.config]
encrypt = "gpg"

[hoards.dots.pile]
"linux" = "/a"
`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestParse_UnsetVariableInPath(t *testing.T) {
	_ = os.Unsetenv("HOARD_TEST_MISSING")
	_, err := Parse([]byte(`
[hoards.vim]
"linux" = "${HOARD_TEST_MISSING}/.vimrc"
`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestBuildPredicates_OSListIsAnyOf(t *testing.T) {
	predicates := buildPredicates(tomlEnv{OS: []string{"linux", "freebsd"}})
	require.Len(t, predicates, 1)
	anyOf, ok := predicates[0].(environment.AnyOf)
	require.True(t, ok)
	assert.Len(t, anyOf.Alternatives, 2)
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("HOARD_TEST_A", "alpha")
	t.Setenv("HOARD_TEST_B", "beta")

	expanded, err := ExpandEnv("/x/${HOARD_TEST_A}/${HOARD_TEST_B}/y")
	require.NoError(t, err)
	assert.Equal(t, "/x/alpha/beta/y", expanded)

	unchanged, err := ExpandEnv("/no/vars/here")
	require.NoError(t, err)
	assert.Equal(t, "/no/vars/here", unchanged)
}

func TestApplyDefaults_ChainedFixpoint(t *testing.T) {
	_ = os.Unsetenv("HOARD_TEST_ROOT")
	_ = os.Unsetenv("HOARD_TEST_SUB")
	t.Cleanup(func() {
		_ = os.Unsetenv("HOARD_TEST_ROOT")
		_ = os.Unsetenv("HOARD_TEST_SUB")
	})

	// SUB depends on ROOT; map order must not matter.
	err := ApplyDefaults(map[string]string{
		"HOARD_TEST_SUB":  "${HOARD_TEST_ROOT}/sub",
		"HOARD_TEST_ROOT": "/root-dir",
	})
	require.NoError(t, err)
	assert.Equal(t, "/root-dir", os.Getenv("HOARD_TEST_ROOT"))
	assert.Equal(t, "/root-dir/sub", os.Getenv("HOARD_TEST_SUB"))
}

func TestApplyDefaults_DoesNotOverrideSetVariables(t *testing.T) {
	t.Setenv("HOARD_TEST_SET", "original")
	err := ApplyDefaults(map[string]string{"HOARD_TEST_SET": "default"})
	require.NoError(t, err)
	assert.Equal(t, "original", os.Getenv("HOARD_TEST_SET"))
}

func TestApplyDefaults_ReportsUnresolvable(t *testing.T) {
	_ = os.Unsetenv("HOARD_TEST_LOOP_A")
	_ = os.Unsetenv("HOARD_TEST_LOOP_B")

	err := ApplyDefaults(map[string]string{
		"HOARD_TEST_LOOP_A": "${HOARD_TEST_LOOP_B}",
		"HOARD_TEST_LOOP_B": "${HOARD_TEST_LOOP_A}",
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrVarDefaults))
	assert.Contains(t, err.Error(), "HOARD_TEST_LOOP_A")
	assert.Contains(t, err.Error(), "HOARD_TEST_LOOP_B")
}
