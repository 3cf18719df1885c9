// Package commands implements the hoard commands as functions over
// explicit options. The CLI layer in cmd/hoard only parses flags and
// formats results; everything the commands touch (filesystem, host,
// paths, config) is injected so tests can run them against temp
// directories and fake hosts.
package commands

import (
	"sort"

	"github.com/Shadow53/hoard-sub001/pkg/config"
	"github.com/Shadow53/hoard-sub001/pkg/environment"
	"github.com/Shadow53/hoard-sub001/pkg/envtrie"
	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/filesystem"
	"github.com/Shadow53/hoard-sub001/pkg/hoard"
	"github.com/Shadow53/hoard-sub001/pkg/host"
	"github.com/Shadow53/hoard-sub001/pkg/newtypes"
	"github.com/Shadow53/hoard-sub001/pkg/oplog"
	"github.com/Shadow53/hoard-sub001/pkg/paths"
)

// resolveContext is the per-invocation state shared by every command
// that materializes hoards: the declared and active environment sets,
// the preference graph, and this device's journal.
type resolveContext struct {
	declared map[newtypes.EnvironmentName]bool
	graph    *envtrie.Graph
	active   map[newtypes.EnvironmentName]bool
	journal  *oplog.Log
}

func newResolveContext(fsys filesystem.FS, h host.Host, p *paths.Paths, cfg *config.Config) (*resolveContext, error) {
	graph, err := envtrie.NewGraph(cfg.Exclusivity)
	if err != nil {
		return nil, err
	}
	active, err := environment.ActiveSet(h, cfg.Environments)
	if err != nil {
		return nil, err
	}
	device, err := p.DeviceUUID(fsys)
	if err != nil {
		return nil, err
	}
	return &resolveContext{
		declared: cfg.DeclaredEnvironments(),
		graph:    graph,
		active:   active,
		journal:  oplog.NewLog(fsys, p, device.String()),
	}, nil
}

// selectHoards returns the hoards named in args, or every configured
// hoard when args is empty, in lexical order. An unknown name fails
// the whole command before any hoard is touched.
func selectHoards(cfg *config.Config, args []string) ([]*hoard.Hoard, error) {
	if len(args) == 0 {
		names := cfg.SortedHoardNames()
		hoards := make([]*hoard.Hoard, 0, len(names))
		for _, name := range names {
			hoards = append(hoards, cfg.Hoards[name])
		}
		return hoards, nil
	}

	seen := make(map[newtypes.HoardName]bool, len(args))
	hoards := make([]*hoard.Hoard, 0, len(args))
	for _, name := range args {
		h, err := cfg.Hoard(name)
		if err != nil {
			return nil, err
		}
		if seen[h.Name] {
			continue
		}
		seen[h.Name] = true
		hoards = append(hoards, h)
	}
	sort.Slice(hoards, func(i, j int) bool { return hoards[i].Name < hoards[j].Name })
	return hoards, nil
}

// firstFailure summarizes per-hoard failures into one error, or nil.
func firstFailure(failed map[newtypes.HoardName]error) error {
	if len(failed) == 0 {
		return nil
	}
	names := make([]newtypes.HoardName, 0, len(failed))
	for name := range failed {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return errors.Wrapf(failed[names[0]], errors.GetErrorCode(failed[names[0]]),
		"%d hoard(s) failed, first failure in %q", len(failed), names[0])
}
