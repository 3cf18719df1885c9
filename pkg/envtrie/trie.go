// Package envtrie selects the best-matching environment expression for
// a hoard entry.
//
// An expression is a dot-joined combination of environment names, all
// of which must be active for the expression to match. Between
// matching expressions, higher specificity (more components) wins;
// specificity ties are broken by the user-declared preference graph.
// Remaining ties are refused, not invented: ambiguity is a
// configuration bug and is surfaced as an INDECISION error.
package envtrie

import (
	"sort"
	"strings"

	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/newtypes"
)

// Separator joins environment names into an expression.
const Separator = "."

// Expression is a parsed environment expression.
type Expression struct {
	raw        string
	components []newtypes.EnvironmentName
}

// ParseExpression splits a dot-joined expression into its components.
// Components are deduplicated and sorted; the raw form is preserved
// for display.
func ParseExpression(raw string) (Expression, error) {
	if raw == "" {
		return Expression{}, errors.New(errors.ErrEmptyEnvironment, "expression cannot be empty")
	}
	parts := strings.Split(raw, Separator)
	seen := make(map[newtypes.EnvironmentName]bool, len(parts))
	components := make([]newtypes.EnvironmentName, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return Expression{}, errors.Newf(errors.ErrEmptyEnvironment,
				"expression %q contains an empty environment name: make sure it does not start or end with %q or contain consecutive %q",
				raw, Separator, Separator)
		}
		name := newtypes.EnvironmentName(part)
		if !seen[name] {
			seen[name] = true
			components = append(components, name)
		}
	}
	sort.Slice(components, func(i, j int) bool { return components[i] < components[j] })
	return Expression{raw: raw, components: components}, nil
}

// String returns the expression as written in the configuration.
func (e Expression) String() string { return e.raw }

// Components returns the sorted, deduplicated environment names.
func (e Expression) Components() []newtypes.EnvironmentName { return e.components }

// Specificity is the number of distinct components.
func (e Expression) Specificity() int { return len(e.components) }

// key is the canonical identity of the expression: the same component
// set written in a different order is the same expression.
func (e Expression) key() string {
	parts := make([]string, len(e.components))
	for i, c := range e.components {
		parts[i] = c.String()
	}
	return strings.Join(parts, Separator)
}

type node struct {
	children map[newtypes.EnvironmentName]*node
	expr     *Expression
}

func newNode() *node {
	return &node{children: make(map[newtypes.EnvironmentName]*node)}
}

// Trie holds the expressions of one pile, keyed by sorted components,
// plus the preference graph used to break specificity ties. A Trie is
// immutable once built.
type Trie struct {
	root  *node
	graph *Graph
	exprs []Expression
}

// New builds a Trie for one pile.
//
// declared is the set of environment names from the configuration;
// expressions referencing anything else fail with UNKNOWN_ENVIRONMENT.
// Two expressions with the same component set fail with DOUBLE_DEFINE,
// and an expression combining two mutually exclusive environments
// fails with COMBINED_EXCLUSIVE.
func New(declared map[newtypes.EnvironmentName]bool, graph *Graph, expressions []string) (*Trie, error) {
	trie := &Trie{root: newNode(), graph: graph}

	for _, raw := range expressions {
		expr, err := ParseExpression(raw)
		if err != nil {
			return nil, err
		}

		components := expr.Components()
		for i, component := range components {
			if !declared[component] {
				return nil, errors.Newf(errors.ErrUnknownEnvironment,
					"%q is not an environment that exists", component)
			}
			for _, other := range components[i+1:] {
				if graph.Exclusive(component, other) {
					return nil, errors.Newf(errors.ErrCombinedExclusive,
						"expression %q combines mutually exclusive environments %q and %q",
						raw, component, other)
				}
			}
		}

		current := trie.root
		for _, component := range components {
			child, ok := current.children[component]
			if !ok {
				child = newNode()
				current.children[component] = child
			}
			current = child
		}
		if current.expr != nil {
			return nil, errors.Newf(errors.ErrDoubleDefine,
				"the same condition is defined twice as %q and %q", current.expr.raw, raw)
		}
		stored := expr
		current.expr = &stored
		trie.exprs = append(trie.exprs, expr)
	}

	return trie, nil
}

// Resolve returns the single winning expression for the given active
// environment set, or nil if no expression matches. If two surviving
// expressions cannot be ordered, an INDECISION error names them both.
func (t *Trie) Resolve(active map[newtypes.EnvironmentName]bool) (*Expression, error) {
	var survivors []Expression
	for _, expr := range t.exprs {
		if expr.matches(active) {
			survivors = append(survivors, expr)
		}
	}
	if len(survivors) == 0 {
		return nil, nil
	}

	var maximal []Expression
	for i, candidate := range survivors {
		dominated := false
		for j, other := range survivors {
			if i == j {
				continue
			}
			if t.dominates(other, candidate) {
				dominated = true
				break
			}
		}
		if !dominated {
			maximal = append(maximal, candidate)
		}
	}

	if len(maximal) == 1 {
		winner := maximal[0]
		return &winner, nil
	}

	// Deterministic error: report the two lexically smallest
	// incomparable candidates.
	if len(maximal) == 0 {
		maximal = survivors
	}
	sort.Slice(maximal, func(i, j int) bool { return maximal[i].raw < maximal[j].raw })
	return nil, errors.Newf(errors.ErrIndecision,
		"%q and %q have equal weight: consider a more specific condition for the preferred one or declare them exclusive",
		maximal[0].raw, maximal[1].raw)
}

func (e Expression) matches(active map[newtypes.EnvironmentName]bool) bool {
	for _, component := range e.components {
		if !active[component] {
			return false
		}
	}
	return true
}

// dominates implements the dominance relation: x beats y if it is more
// specific, or equally specific with a one-way preference path from
// some component of x to some component of y.
func (t *Trie) dominates(x, y Expression) bool {
	if x.Specificity() != y.Specificity() {
		return x.Specificity() > y.Specificity()
	}
	forward := t.anyPath(x, y)
	backward := t.anyPath(y, x)
	return forward && !backward
}

func (t *Trie) anyPath(from, to Expression) bool {
	for _, a := range from.components {
		for _, b := range to.components {
			if t.graph.Prefers(a, b) {
				return true
			}
		}
	}
	return false
}
