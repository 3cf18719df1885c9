package commands

import (
	"sort"

	"github.com/Shadow53/hoard-sub001/pkg/config"
	"github.com/Shadow53/hoard-sub001/pkg/envtrie"
	"github.com/Shadow53/hoard-sub001/pkg/hoard"
	"github.com/Shadow53/hoard-sub001/pkg/logging"
	"github.com/Shadow53/hoard-sub001/pkg/newtypes"
)

// ValidateOptions defines the options for the Validate command.
type ValidateOptions struct {
	Config *config.Config
}

// Validate checks the parts of a parsed configuration that only fail
// once a hoard is used: the exclusivity graph must be acyclic and every
// pile's environment expressions must build a valid trie. Parsing
// itself happens when the file is loaded, so a Validate call that
// returns nil means the whole file is usable.
func Validate(opts ValidateOptions) error {
	log := logging.GetLogger("commands")
	log.Debug().Msg("Executing validate command")

	graph, err := envtrie.NewGraph(opts.Config.Exclusivity)
	if err != nil {
		return err
	}
	declared := opts.Config.DeclaredEnvironments()

	for _, name := range opts.Config.SortedHoardNames() {
		if err := validateHoard(opts.Config.Hoards[name], declared, graph); err != nil {
			return err
		}
	}
	return nil
}

func validateHoard(h *hoard.Hoard, declared map[newtypes.EnvironmentName]bool, graph *envtrie.Graph) error {
	piles := []*hoard.Pile{h.Single}
	if h.Single == nil {
		piles = piles[:0]
		for _, pile := range h.Multiple {
			piles = append(piles, pile)
		}
	}

	for _, pile := range piles {
		expressions := make([]string, 0, len(pile.Paths))
		for expr := range pile.Paths {
			expressions = append(expressions, expr)
		}
		sort.Strings(expressions)
		if _, err := envtrie.New(declared, graph, expressions); err != nil {
			return err
		}
	}
	return nil
}
