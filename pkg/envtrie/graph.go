package envtrie

import (
	"sort"

	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/newtypes"
)

// Graph is the preference graph induced by an exclusivity relation.
//
// Each inner list of the relation contributes edges earlier -> later
// ("earlier is preferred over later"). Preference composes
// transitively across lists, so Prefers is reachability in the union
// graph. The graph must be acyclic; a cycle means some environment is
// simultaneously preferred to and not preferred to another.
type Graph struct {
	edges     map[newtypes.EnvironmentName]map[newtypes.EnvironmentName]bool
	exclusive map[newtypes.EnvironmentName]map[newtypes.EnvironmentName]bool
	reach     map[newtypes.EnvironmentName]map[newtypes.EnvironmentName]bool
}

// NewGraph builds the preference graph from an exclusivity relation.
// Returns a CYCLIC_PREFERENCE error naming the environments still on a
// cycle if the relation is contradictory.
func NewGraph(exclusivity [][]newtypes.EnvironmentName) (*Graph, error) {
	g := &Graph{
		edges:     make(map[newtypes.EnvironmentName]map[newtypes.EnvironmentName]bool),
		exclusive: make(map[newtypes.EnvironmentName]map[newtypes.EnvironmentName]bool),
		reach:     make(map[newtypes.EnvironmentName]map[newtypes.EnvironmentName]bool),
	}

	for _, list := range exclusivity {
		for i, earlier := range list {
			for _, later := range list[i+1:] {
				g.addEdge(earlier, later)
			}
			for _, other := range list {
				if other != earlier {
					g.markExclusive(earlier, other)
				}
			}
		}
	}

	if cycle := g.findCycle(); len(cycle) > 0 {
		names := make([]string, len(cycle))
		for i, name := range cycle {
			names[i] = name.String()
		}
		return nil, errors.Newf(errors.ErrCyclicPreference,
			"exclusivity lists form a preference cycle involving %v", names)
	}

	return g, nil
}

func (g *Graph) addEdge(from, to newtypes.EnvironmentName) {
	if g.edges[from] == nil {
		g.edges[from] = make(map[newtypes.EnvironmentName]bool)
	}
	g.edges[from][to] = true
	if g.edges[to] == nil {
		g.edges[to] = make(map[newtypes.EnvironmentName]bool)
	}
}

func (g *Graph) markExclusive(a, b newtypes.EnvironmentName) {
	if g.exclusive[a] == nil {
		g.exclusive[a] = make(map[newtypes.EnvironmentName]bool)
	}
	g.exclusive[a][b] = true
}

// findCycle runs Kahn's algorithm; any nodes left with nonzero
// in-degree are on a cycle. Returned names are sorted for stable error
// messages.
func (g *Graph) findCycle() []newtypes.EnvironmentName {
	inDegree := make(map[newtypes.EnvironmentName]int, len(g.edges))
	for node := range g.edges {
		inDegree[node] += 0
	}
	for _, targets := range g.edges {
		for target := range targets {
			inDegree[target]++
		}
	}

	var queue []newtypes.EnvironmentName
	for node, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, node)
		}
	}

	visited := 0
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		visited++
		for target := range g.edges[node] {
			inDegree[target]--
			if inDegree[target] == 0 {
				queue = append(queue, target)
			}
		}
	}

	if visited == len(inDegree) {
		return nil
	}

	var cycle []newtypes.EnvironmentName
	for node, degree := range inDegree {
		if degree > 0 {
			cycle = append(cycle, node)
		}
	}
	sort.Slice(cycle, func(i, j int) bool { return cycle[i] < cycle[j] })
	return cycle
}

// Prefers reports whether a path from a to b exists, i.e. a is
// (transitively) preferred over b.
func (g *Graph) Prefers(a, b newtypes.EnvironmentName) bool {
	if a == b {
		return false
	}
	if memo, ok := g.reach[a]; ok {
		if result, ok := memo[b]; ok {
			return result
		}
	}
	seen := map[newtypes.EnvironmentName]bool{a: true}
	found := g.search(a, b, seen)
	if g.reach[a] == nil {
		g.reach[a] = make(map[newtypes.EnvironmentName]bool)
	}
	g.reach[a][b] = found
	return found
}

func (g *Graph) search(from, to newtypes.EnvironmentName, seen map[newtypes.EnvironmentName]bool) bool {
	for next := range g.edges[from] {
		if next == to {
			return true
		}
		if !seen[next] {
			seen[next] = true
			if g.search(next, to, seen) {
				return true
			}
		}
	}
	return false
}

// Exclusive reports whether a and b appear together in some inner list
// of the relation, i.e. they are declared mutually exclusive.
func (g *Graph) Exclusive(a, b newtypes.EnvironmentName) bool {
	return g.exclusive[a][b]
}
