package stpgen

import (
	"slices"
	"testing"

	"github.com/martinemde/steinlib/stp"
	"github.com/martinemde/steinlib/updates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evenWeights = UpdateWeights{EdgeInsertion: 1, EdgeDeletion: 1, TerminalActivation: 1, TerminalDeactivation: 1}

func baseInstance(t *testing.T) *Result {
	t.Helper()
	res, err := Generate(seeded(5), Config{Nodes: 10, Terminals: 4, VertexCover: 3, EdgeProbability: 0.6})
	require.NoError(t, err)
	return res
}

// replay applies ops to inst and checks every query snapshot against the
// replayed state.
func replay(t *testing.T, inst *stp.Instance, startEmpty bool, ops []updates.Operation) {
	t.Helper()
	edges := map[[2]int]bool{}
	active := map[int]bool{}
	if !startEmpty {
		for _, e := range inst.Edges {
			edges[edgeKey(e.From, e.To)] = true
		}
		for _, v := range inst.Terminals {
			active[v] = true
		}
	}
	for i, op := range ops {
		switch op.Kind {
		case updates.EdgeInsertion:
			k := edgeKey(op.Edge.From, op.Edge.To)
			require.False(t, edges[k], "op %d inserts present edge %v", i, k)
			edges[k] = true
		case updates.EdgeDeletion:
			k := edgeKey(op.Edge.From, op.Edge.To)
			require.True(t, edges[k], "op %d deletes absent edge %v", i, k)
			delete(edges, k)
		case updates.TerminalActivation:
			require.True(t, inst.IsTerminal(op.Vertex), "op %d activates non-terminal %d", i, op.Vertex)
			require.False(t, active[op.Vertex])
			active[op.Vertex] = true
		case updates.TerminalDeactivation:
			require.True(t, active[op.Vertex], "op %d deactivates inactive %d", i, op.Vertex)
			delete(active, op.Vertex)
		case updates.Query:
			require.NotNil(t, op.Instance)
			assert.Equal(t, inst.Nodes, op.Instance.Nodes)
			assert.Len(t, op.Instance.Edges, len(edges), "query %d", op.Query)
			for _, e := range op.Instance.Edges {
				assert.True(t, edges[edgeKey(e.From, e.To)], "query %d has stale edge %v", op.Query, e)
			}
			var want []int
			for v := range active {
				want = append(want, v)
			}
			slices.Sort(want)
			assert.Equal(t, want, op.Instance.Terminals, "query %d", op.Query)
		default:
			t.Fatalf("unexpected op %s", op)
		}
	}
}

func TestGenerateUpdatesReplays(t *testing.T) {
	base := baseInstance(t)
	for _, startEmpty := range []bool{false, true} {
		ops, err := GenerateUpdates(seeded(11), base.Instance, base.Cover, UpdateConfig{
			Weights:          evenWeights,
			QueryProbability: 0.3,
			StartEmpty:       startEmpty,
			Total:            200,
		})
		require.NoError(t, err)
		replay(t, base.Instance, startEmpty, ops)

		nonQueries, queries := 0, 0
		for _, op := range ops {
			if op.Kind == updates.Query {
				queries++
				assert.Equal(t, queries, op.Query)
			} else {
				nonQueries++
			}
		}
		assert.Equal(t, 200, nonQueries)
		assert.Equal(t, updates.Query, ops[len(ops)-1].Kind)
	}
}

func TestGenerateUpdatesKeepsCover(t *testing.T) {
	base := baseInstance(t)
	ops, err := GenerateUpdates(seeded(2), base.Instance, base.Cover, UpdateConfig{
		Weights: UpdateWeights{EdgeInsertion: 3, EdgeDeletion: 1},
		Total:   100,
	})
	require.NoError(t, err)

	last := ops[len(ops)-1]
	require.Equal(t, updates.Query, last.Kind)
	assert.Equal(t, 1, last.Query)
	for _, e := range last.Instance.Edges {
		assert.True(t, slices.Contains(base.Cover, e.From) || slices.Contains(base.Cover, e.To), "edge %v avoids the cover", e)
	}
	assert.Equal(t, base.Instance.Terminals, last.Instance.Terminals)
}

func TestGenerateUpdatesIsDeterministic(t *testing.T) {
	base := baseInstance(t)
	cfg := UpdateConfig{Weights: evenWeights, QueryProbability: 0.5, Total: 50}
	a, err := GenerateUpdates(seeded(8), base.Instance, base.Cover, cfg)
	require.NoError(t, err)
	b, err := GenerateUpdates(seeded(8), base.Instance, base.Cover, cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateUpdatesOnlyQueries(t *testing.T) {
	base := baseInstance(t)
	ops, err := GenerateUpdates(seeded(1), base.Instance, base.Cover, UpdateConfig{})
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, base.Instance.Edges, ops[0].Instance.Edges)
}

func TestGenerateUpdatesNoApplicableUpdate(t *testing.T) {
	inst := &stp.Instance{Nodes: 3}
	_, err := GenerateUpdates(seeded(1), inst, nil, UpdateConfig{
		Weights:    UpdateWeights{EdgeDeletion: 1, TerminalActivation: 1},
		StartEmpty: true,
		Total:      1,
	})
	assert.ErrorIs(t, err, ErrNoUpdate)
}

func TestGenerateUpdatesInvalidConfig(t *testing.T) {
	base := baseInstance(t)
	cases := []UpdateConfig{
		{Weights: UpdateWeights{EdgeInsertion: -1}, Total: 1},
		{Total: 1},
		{Weights: evenWeights, QueryProbability: 2},
		{Weights: evenWeights, Total: -1},
	}
	for _, cfg := range cases {
		_, err := GenerateUpdates(seeded(1), base.Instance, base.Cover, cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig, "%+v", cfg)
	}

	_, err := GenerateUpdates(seeded(1), base.Instance, []int{11}, UpdateConfig{Weights: evenWeights})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
