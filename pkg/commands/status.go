package commands

import (
	"github.com/Shadow53/hoard-sub001/pkg/config"
	"github.com/Shadow53/hoard-sub001/pkg/filesystem"
	"github.com/Shadow53/hoard-sub001/pkg/host"
	"github.com/Shadow53/hoard-sub001/pkg/logging"
	"github.com/Shadow53/hoard-sub001/pkg/newtypes"
	"github.com/Shadow53/hoard-sub001/pkg/paths"
)

// HoardState is the one-line verdict for a hoard.
type HoardState string

const (
	StateUpToDate       HoardState = "up-to-date"
	StateModifiedLocal  HoardState = "modified-local"
	StateModifiedRemote HoardState = "modified-remote"
	StateMixed          HoardState = "mixed"
	StateUnknown        HoardState = "unknown"
)

// HoardStatus summarizes one hoard's pending changes.
type HoardStatus struct {
	Hoard newtypes.HoardName
	State HoardState
}

// StatusOptions defines the options for the Status command.
type StatusOptions struct {
	FS     filesystem.FS
	Host   host.Host
	Paths  *paths.Paths
	Config *config.Config
	// Hoards selects which hoards to report on; empty means all.
	Hoards []string
}

// Status reduces each hoard's file diffs to a single state so the user
// can see at a glance which hoards need a backup or a restore.
func Status(opts StatusOptions) ([]HoardStatus, error) {
	log := logging.GetLogger("commands")
	log.Debug().Msg("Executing status command")

	hoards, err := selectHoards(opts.Config, opts.Hoards)
	if err != nil {
		return nil, err
	}
	rctx, err := newResolveContext(opts.FS, opts.Host, opts.Paths, opts.Config)
	if err != nil {
		return nil, err
	}

	statuses := make([]HoardStatus, 0, len(hoards))
	for _, h := range hoards {
		diffs, err := hoardDiffs(opts.FS, opts.Paths, rctx, h)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, HoardStatus{Hoard: h.Name, State: reduceState(diffs)})
	}
	return statuses, nil
}

func reduceState(diffs []FileDiff) HoardState {
	if len(diffs) == 0 {
		return StateUpToDate
	}
	var local, remote, unknown bool
	for _, diff := range diffs {
		switch diff.Source {
		case SourceLocal:
			local = true
		case SourceRemote:
			remote = true
		default:
			unknown = true
		}
	}
	switch {
	case unknown:
		return StateUnknown
	case local && remote:
		return StateMixed
	case local:
		return StateModifiedLocal
	default:
		return StateModifiedRemote
	}
}
