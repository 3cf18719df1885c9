package commands

import (
	"sort"

	"github.com/Shadow53/hoard-sub001/pkg/checksum"
	"github.com/Shadow53/hoard-sub001/pkg/config"
	"github.com/Shadow53/hoard-sub001/pkg/filesystem"
	"github.com/Shadow53/hoard-sub001/pkg/hoard"
	"github.com/Shadow53/hoard-sub001/pkg/host"
	"github.com/Shadow53/hoard-sub001/pkg/logging"
	"github.com/Shadow53/hoard-sub001/pkg/newtypes"
	"github.com/Shadow53/hoard-sub001/pkg/oplog"
	"github.com/Shadow53/hoard-sub001/pkg/paths"
)

// ChangeKind classifies how a pile file differs between the system and
// the store.
type ChangeKind string

const (
	ChangeCreated  ChangeKind = "created"
	ChangeModified ChangeKind = "modified"
	ChangeDeleted  ChangeKind = "deleted"
)

// ChangeSource says which side made the change. Attribution compares
// both sides against this device's last journaled checksums: the side
// that still matches the record did not move, so the other one did.
// Without a usable record the source is unknown.
type ChangeSource string

const (
	SourceLocal   ChangeSource = "local"
	SourceRemote  ChangeSource = "remote"
	SourceUnknown ChangeSource = "unknown"
)

// FileDiff is one file that differs between the system and the store.
type FileDiff struct {
	Pile       newtypes.PileName
	Path       string
	SystemPath string
	Kind       ChangeKind
	Source     ChangeSource
}

// DiffOptions defines the options for the Diff command.
type DiffOptions struct {
	FS     filesystem.FS
	Host   host.Host
	Paths  *paths.Paths
	Config *config.Config
	Hoard  string
}

// Diff lists every file of one hoard that differs between the system
// and the store, with the change attributed to the side that made it.
func Diff(opts DiffOptions) ([]FileDiff, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("hoard", opts.Hoard).Msg("Executing diff command")

	h, err := opts.Config.Hoard(opts.Hoard)
	if err != nil {
		return nil, err
	}
	rctx, err := newResolveContext(opts.FS, opts.Host, opts.Paths, opts.Config)
	if err != nil {
		return nil, err
	}
	return hoardDiffs(opts.FS, opts.Paths, rctx, h)
}

func hoardDiffs(fsys filesystem.FS, p *paths.Paths, rctx *resolveContext, h *hoard.Hoard) ([]FileDiff, error) {
	resolved, err := h.Resolve(p, rctx.declared, rctx.graph, rctx.active)
	if err != nil {
		return nil, err
	}
	last, err := rctx.journal.LatestLocal(h.Name.String())
	if err != nil {
		return nil, err
	}

	var diffs []FileDiff
	for _, pile := range resolved {
		pileDiffs, err := pileDiffs(fsys, pile, last)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, pileDiffs...)
	}
	return diffs, nil
}

func pileDiffs(fsys filesystem.FS, pile hoard.ResolvedPile, last *oplog.Record) ([]FileDiff, error) {
	system, err := sideChecksums(fsys, pile.SystemPath, pile)
	if err != nil {
		return nil, err
	}
	store, err := sideChecksums(fsys, pile.StorePath, pile)
	if err != nil {
		return nil, err
	}

	var diffs []FileDiff
	for _, rel := range unionPaths(system, store) {
		sysSum, onSystem := system[rel]
		storeSum, inStore := store[rel]
		if onSystem && inStore && sysSum == storeSum {
			continue
		}
		lastSum := checksum.Checksum("")
		journaled := false
		if last != nil {
			lastSum, journaled = last.ChecksumFor(pile.Name.String(), rel)
		}
		kind, source := classify(onSystem, inStore, journaled, sysSum, storeSum, lastSum)
		diffs = append(diffs, FileDiff{
			Pile:       pile.Name,
			Path:       rel,
			SystemPath: joinPileFile(pile.SystemPath, rel),
			Kind:       kind,
			Source:     source,
		})
	}
	return diffs, nil
}

// sideChecksums snapshots one side of a pile. A side that does not
// exist yet is just empty.
func sideChecksums(fsys filesystem.FS, root string, pile hoard.ResolvedPile) (map[string]checksum.Checksum, error) {
	files, err := pileFiles(fsys, root, pile.Filter)
	if err != nil {
		return nil, err
	}
	return checksumFiles(fsys, root, files)
}

func unionPaths(system, store map[string]checksum.Checksum) []string {
	seen := make(map[string]bool, len(system)+len(store))
	var all []string
	for rel := range system {
		seen[rel] = true
		all = append(all, rel)
	}
	for rel := range store {
		if !seen[rel] {
			all = append(all, rel)
		}
	}
	sort.Strings(all)
	return all
}

// classify decides what happened to one differing file. The journal
// entry, when present, is the state both sides agreed on after the
// last sync, so whichever side still matches it is the unchanged one.
func classify(onSystem, inStore, journaled bool, sysSum, storeSum, lastSum checksum.Checksum) (ChangeKind, ChangeSource) {
	switch {
	case onSystem && !inStore:
		// A journaled file missing from the store was deleted there,
		// otherwise the file is simply new on this machine.
		if journaled {
			return ChangeDeleted, SourceRemote
		}
		return ChangeCreated, SourceLocal
	case !onSystem && inStore:
		if !journaled {
			return ChangeCreated, SourceRemote
		}
		if storeSum == lastSum {
			return ChangeDeleted, SourceLocal
		}
		return ChangeDeleted, SourceUnknown
	default:
		if !journaled {
			return ChangeModified, SourceUnknown
		}
		if sysSum == lastSum {
			return ChangeModified, SourceRemote
		}
		if storeSum == lastSum {
			return ChangeModified, SourceLocal
		}
		return ChangeModified, SourceUnknown
	}
}
