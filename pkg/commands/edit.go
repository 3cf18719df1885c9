package commands

import (
	"os"
	"os/exec"

	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/host"
	"github.com/Shadow53/hoard-sub001/pkg/logging"
	"github.com/Shadow53/hoard-sub001/pkg/paths"
)

// EditOptions defines the options for the Edit command.
type EditOptions struct {
	Host  host.Host
	Paths *paths.Paths
}

// Edit opens the config file in the user's editor, preferring VISUAL
// over EDITOR.
func Edit(opts EditOptions) error {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Edit").Msg("Executing command")

	editor, ok := opts.Host.Getenv("VISUAL")
	if !ok || editor == "" {
		editor, ok = opts.Host.Getenv("EDITOR")
	}
	if !ok || editor == "" {
		return errors.New(errors.ErrConfigValid, "neither VISUAL nor EDITOR is set")
	}

	file := opts.Paths.ConfigFile()
	cmd := exec.Command(editor, file)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "editor %q exited with an error", editor)
	}
	return nil
}
