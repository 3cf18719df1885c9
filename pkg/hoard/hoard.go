// Package hoard models hoards and piles and materializes them into
// concrete (system path, store path) pairs for the current host.
package hoard

import (
	"sort"

	"github.com/Shadow53/hoard-sub001/pkg/envtrie"
	"github.com/Shadow53/hoard-sub001/pkg/filters"
	"github.com/Shadow53/hoard-sub001/pkg/logging"
	"github.com/Shadow53/hoard-sub001/pkg/newtypes"
	"github.com/Shadow53/hoard-sub001/pkg/paths"
)

// PileConfig is optional per-pile configuration.
type PileConfig struct {
	// Ignore lists glob patterns for files to exclude.
	Ignore []string
}

// Pile binds environment expressions to destination paths. Exactly one
// expression wins per host; its path is where the pile lives on the
// system.
type Pile struct {
	Config PileConfig
	// Paths maps an environment expression to the system path used
	// when that expression wins.
	Paths map[string]string
}

// Hoard is a named group of piles. Either Single or Multiple is set,
// never both.
type Hoard struct {
	Name     newtypes.HoardName
	Single   *Pile
	Multiple map[newtypes.NonEmptyPileName]*Pile
}

// namedPile pairs a pile with its (possibly anonymous) name.
type namedPile struct {
	name newtypes.PileName
	pile *Pile
}

// ResolvedPile is a pile bound to concrete paths for this host.
type ResolvedPile struct {
	Hoard      newtypes.HoardName
	Name       newtypes.PileName
	SystemPath string
	StorePath  string
	Filter     *filters.Ignore
}

// piles returns the hoard's piles in deterministic order.
func (h *Hoard) piles() []namedPile {
	if h.Single != nil {
		return []namedPile{{name: "", pile: h.Single}}
	}
	result := make([]namedPile, 0, len(h.Multiple))
	for name, pile := range h.Multiple {
		result = append(result, namedPile{name: newtypes.PileName(name), pile: pile})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].name < result[j].name })
	return result
}

// Resolve selects the winning environment expression for each pile and
// produces its path pair. Piles with no matching expression are
// skipped; an undecidable pile fails the whole hoard.
func (h *Hoard) Resolve(
	p *paths.Paths,
	declared map[newtypes.EnvironmentName]bool,
	graph *envtrie.Graph,
	active map[newtypes.EnvironmentName]bool,
) ([]ResolvedPile, error) {
	logger := logging.GetLogger("hoard")
	var resolved []ResolvedPile

	for _, entry := range h.piles() {
		expressions := make([]string, 0, len(entry.pile.Paths))
		for expr := range entry.pile.Paths {
			expressions = append(expressions, expr)
		}
		sort.Strings(expressions)

		trie, err := envtrie.New(declared, graph, expressions)
		if err != nil {
			return nil, err
		}
		winner, err := trie.Resolve(active)
		if err != nil {
			return nil, err
		}
		if winner == nil {
			logger.Debug().
				Str("hoard", h.Name.String()).
				Str("pile", entry.name.String()).
				Msg("No environment matches, skipping pile")
			continue
		}

		filter, err := filters.NewIgnore(entry.pile.Config.Ignore)
		if err != nil {
			return nil, err
		}

		resolved = append(resolved, ResolvedPile{
			Hoard:      h.Name,
			Name:       entry.name,
			SystemPath: entry.pile.Paths[winner.String()],
			StorePath:  p.HoardStoreDir(h.Name.String(), entry.name.String()),
			Filter:     filter,
		})
	}

	return resolved, nil
}
