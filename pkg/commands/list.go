package commands

import (
	"github.com/Shadow53/hoard-sub001/pkg/config"
	"github.com/Shadow53/hoard-sub001/pkg/logging"
)

// ListOptions defines the options for the List command.
type ListOptions struct {
	Config *config.Config
}

// List returns the configured hoard names, sorted lexically.
func List(opts ListOptions) []string {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "List").Msg("Executing command")

	sorted := opts.Config.SortedHoardNames()
	names := make([]string, len(sorted))
	for i, name := range sorted {
		names[i] = name.String()
	}
	return names
}
