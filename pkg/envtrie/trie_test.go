package envtrie

import (
	"testing"

	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/newtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func declared(names ...string) map[newtypes.EnvironmentName]bool {
	set := make(map[newtypes.EnvironmentName]bool, len(names))
	for _, name := range names {
		set[newtypes.EnvironmentName(name)] = true
	}
	return set
}

func relation(lists ...[]string) [][]newtypes.EnvironmentName {
	result := make([][]newtypes.EnvironmentName, len(lists))
	for i, list := range lists {
		inner := make([]newtypes.EnvironmentName, len(list))
		for j, name := range list {
			inner[j] = newtypes.EnvironmentName(name)
		}
		result[i] = inner
	}
	return result
}

func mustGraph(t *testing.T, lists ...[]string) *Graph {
	t.Helper()
	g, err := NewGraph(relation(lists...))
	require.NoError(t, err)
	return g
}

func TestParseExpression(t *testing.T) {
	expr, err := ParseExpression("linux.laptop")
	require.NoError(t, err)
	assert.Equal(t, "linux.laptop", expr.String())
	assert.Equal(t, 2, expr.Specificity())

	// Order of components does not change identity.
	other, err := ParseExpression("laptop.linux")
	require.NoError(t, err)
	assert.Equal(t, expr.key(), other.key())
}

func TestParseExpression_EmptyComponents(t *testing.T) {
	for _, raw := range []string{"", ".linux", "linux.", "linux..laptop"} {
		_, err := ParseExpression(raw)
		require.Error(t, err, "expected %q to fail", raw)
		assert.True(t, errors.IsErrorCode(err, errors.ErrEmptyEnvironment))
	}
}

func TestResolve_SpecificityWins(t *testing.T) {
	// Active {linux, laptop}; expressions {"linux", "linux.laptop"};
	// no preference: linux.laptop wins by specificity.
	trie, err := New(declared("linux", "laptop"), mustGraph(t), []string{"linux", "linux.laptop"})
	require.NoError(t, err)

	winner, err := trie.Resolve(declared("linux", "laptop"))
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, "linux.laptop", winner.String())
}

func TestResolve_PreferenceBreaksTie(t *testing.T) {
	// Active {foo, bar}; expressions {"foo", "bar"}; relation
	// [["foo","bar"]]: foo wins.
	trie, err := New(declared("foo", "bar"), mustGraph(t, []string{"foo", "bar"}), []string{"foo", "bar"})
	require.NoError(t, err)

	winner, err := trie.Resolve(declared("foo", "bar"))
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, "foo", winner.String())
}

func TestResolve_Indecision(t *testing.T) {
	// foo and baz are both preferred over bar but incomparable with
	// each other.
	graph := mustGraph(t, []string{"foo", "bar"}, []string{"baz", "bar"})
	trie, err := New(declared("foo", "bar", "baz"), graph, []string{"foo", "baz"})
	require.NoError(t, err)

	_, err = trie.Resolve(declared("foo", "baz"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIndecision))
	assert.Contains(t, err.Error(), "baz")
	assert.Contains(t, err.Error(), "foo")
}

func TestResolve_TransitivePreferenceAcrossLists(t *testing.T) {
	// [["a","b"],["b","c"]] implies a is preferred over c.
	graph := mustGraph(t, []string{"a", "b"}, []string{"b", "c"})
	trie, err := New(declared("a", "b", "c"), graph, []string{"a", "c"})
	require.NoError(t, err)

	winner, err := trie.Resolve(declared("a", "c"))
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, "a", winner.String())
}

func TestResolve_NoMatchReturnsNil(t *testing.T) {
	trie, err := New(declared("linux", "windows"), mustGraph(t), []string{"windows"})
	require.NoError(t, err)

	winner, err := trie.Resolve(declared("linux"))
	require.NoError(t, err)
	assert.Nil(t, winner)
}

func TestResolve_WinnerComponentsAllActive(t *testing.T) {
	trie, err := New(declared("linux", "laptop", "work"), mustGraph(t),
		[]string{"linux", "linux.laptop", "linux.laptop.work"})
	require.NoError(t, err)

	active := declared("linux", "laptop")
	winner, err := trie.Resolve(active)
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, "linux.laptop", winner.String())
	for _, component := range winner.Components() {
		assert.True(t, active[component])
	}
}

func TestNew_UnknownEnvironment(t *testing.T) {
	_, err := New(declared("linux"), mustGraph(t), []string{"linux.laptop"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownEnvironment))
}

func TestNew_DoubleDefine(t *testing.T) {
	_, err := New(declared("a", "b"), mustGraph(t), []string{"a.b", "b.a"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDoubleDefine))
}

func TestNew_CombinedExclusive(t *testing.T) {
	graph := mustGraph(t, []string{"home", "work"})
	_, err := New(declared("home", "work"), graph, []string{"home.work"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCombinedExclusive))
}

func TestNewGraph_Cycle(t *testing.T) {
	_, err := NewGraph(relation([]string{"a", "b"}, []string{"b", "c"}, []string{"c", "a"}))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCyclicPreference))
}

func TestGraph_Prefers(t *testing.T) {
	g := mustGraph(t, []string{"a", "b", "c"}, []string{"c", "d"})
	assert.True(t, g.Prefers("a", "b"))
	assert.True(t, g.Prefers("a", "c"))
	assert.True(t, g.Prefers("a", "d"))
	assert.True(t, g.Prefers("c", "d"))
	assert.False(t, g.Prefers("d", "a"))
	assert.False(t, g.Prefers("b", "a"))
	assert.False(t, g.Prefers("a", "a"))
}

// Dominance must be a strict partial order: irreflexive and
// antisymmetric over every pair drawn from a fixed expression set.
func TestDominance_StrictPartialOrder(t *testing.T) {
	graph := mustGraph(t, []string{"a", "b"}, []string{"b", "c"})
	trie, err := New(declared("a", "b", "c", "d"), graph,
		[]string{"a", "b", "c", "d", "a.d", "b.d"})
	require.NoError(t, err)

	exprs := trie.exprs
	for i := range exprs {
		assert.False(t, trie.dominates(exprs[i], exprs[i]), "dominance must be irreflexive")
		for j := range exprs {
			if i == j {
				continue
			}
			if trie.dominates(exprs[i], exprs[j]) {
				assert.False(t, trie.dominates(exprs[j], exprs[i]),
					"dominance must be antisymmetric: %s vs %s", exprs[i], exprs[j])
			}
		}
	}

	// Transitivity over the whole set.
	for i := range exprs {
		for j := range exprs {
			for k := range exprs {
				if trie.dominates(exprs[i], exprs[j]) && trie.dominates(exprs[j], exprs[k]) {
					assert.True(t, trie.dominates(exprs[i], exprs[k]),
						"dominance must be transitive: %s > %s > %s", exprs[i], exprs[j], exprs[k])
				}
			}
		}
	}
}
