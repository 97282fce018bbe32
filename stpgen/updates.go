package stpgen

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/martinemde/steinlib/stp"
	"github.com/martinemde/steinlib/updates"
)

// ErrNoUpdate is returned when no operation with a positive weight can be
// applied to the current state.
var ErrNoUpdate = errors.New("stpgen: no applicable update")

// UpdateWeights are the relative frequencies of the four generated update
// kinds. They need not sum to one.
type UpdateWeights struct {
	EdgeInsertion        float64
	EdgeDeletion         float64
	TerminalActivation   float64
	TerminalDeactivation float64
}

// UpdateConfig describes a dynamic update sequence to generate.
type UpdateConfig struct {
	Weights UpdateWeights
	// QueryProbability is the chance of a query snapshot after each update.
	QueryProbability float64
	// StartEmpty starts from no edges and no active terminals instead of
	// the instance as given.
	StartEmpty bool
	Total      int
}

func (c UpdateConfig) validate() error {
	w := c.Weights
	weights := []float64{w.EdgeInsertion, w.EdgeDeletion, w.TerminalActivation, w.TerminalDeactivation}
	sum := 0.0
	for _, x := range weights {
		if x < 0 {
			return fmt.Errorf("%w: update weights must not be negative, got %v", ErrInvalidConfig, weights)
		}
		sum += x
	}
	switch {
	case sum == 0 && c.Total > 0:
		return fmt.Errorf("%w: at least one update weight must be positive", ErrInvalidConfig)
	case c.QueryProbability < 0 || c.QueryProbability > 1:
		return fmt.Errorf("%w: query probability must be in [0, 1], got %g", ErrInvalidConfig, c.QueryProbability)
	case c.Total < 0:
		return fmt.Errorf("%w: total updates must not be negative, got %d", ErrInvalidConfig, c.Total)
	}
	return nil
}

// dynamicState is the graph as modified by the updates generated so far.
type dynamicState struct {
	nodes     int
	edges     []stp.Edge
	present   map[[2]int]bool
	active    []int
	activeSet map[int]bool
}

func (s *dynamicState) snapshot() *stp.Instance {
	ts := slices.Clone(s.active)
	slices.Sort(ts)
	return &stp.Instance{
		Nodes:     s.nodes,
		Edges:     slices.Clone(s.edges),
		Terminals: ts,
	}
}

func edgeKey(u, v int) [2]int {
	if u > v {
		u, v = v, u
	}
	return [2]int{u, v}
}

// GenerateUpdates draws a sequence of edge insertions and deletions and
// terminal activations and deactivations on top of inst. Inserted edges
// have unit cost and at least one endpoint in cover, so every snapshot
// keeps cover as a vertex cover when inst was built around it. Only
// terminals of inst are ever activated. Each update is followed by a query
// with probability cfg.QueryProbability, and the sequence always ends with
// a query. Query operations carry a snapshot of the graph at that point.
func GenerateUpdates(rng *rand.Rand, inst *stp.Instance, cover []int, cfg UpdateConfig) ([]updates.Operation, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	for _, v := range cover {
		if v < 1 || v > inst.Nodes {
			return nil, fmt.Errorf("%w: cover vertex %d outside [1, %d]", ErrInvalidConfig, v, inst.Nodes)
		}
	}

	st := &dynamicState{
		nodes:     inst.Nodes,
		present:   make(map[[2]int]bool),
		activeSet: make(map[int]bool),
	}
	if !cfg.StartEmpty {
		for _, e := range inst.Edges {
			if !st.present[edgeKey(e.From, e.To)] {
				st.present[edgeKey(e.From, e.To)] = true
				st.edges = append(st.edges, e)
			}
		}
		for _, t := range inst.Terminals {
			st.active = append(st.active, t)
			st.activeSet[t] = true
		}
	}
	pool := coverPairs(inst.Nodes, cover)

	var ops []updates.Operation
	queries := 0
	query := func() {
		queries++
		ops = append(ops, updates.Operation{Kind: updates.Query, Query: queries, Instance: st.snapshot()})
	}

	for i := range cfg.Total {
		op, err := nextUpdate(rng, st, inst.Terminals, pool, cfg.Weights)
		if err != nil {
			return nil, fmt.Errorf("after %d updates: %w", i, err)
		}
		ops = append(ops, op)
		if rng.Float64() < cfg.QueryProbability {
			query()
		}
	}
	if len(ops) == 0 || ops[len(ops)-1].Kind != updates.Query {
		query()
	}
	return ops, nil
}

// nextUpdate picks an update kind by weight among the kinds that have a
// legal target, then a uniform target, and applies it to st.
func nextUpdate(rng *rand.Rand, st *dynamicState, terminals []int, pool [][2]int, w UpdateWeights) (updates.Operation, error) {
	var insertable [][2]int
	for _, k := range pool {
		if !st.present[k] {
			insertable = append(insertable, k)
		}
	}
	var activatable []int
	for _, t := range terminals {
		if !st.activeSet[t] {
			activatable = append(activatable, t)
		}
	}

	weights := [4]float64{}
	if len(insertable) > 0 {
		weights[0] = w.EdgeInsertion
	}
	if len(st.edges) > 0 {
		weights[1] = w.EdgeDeletion
	}
	if len(activatable) > 0 {
		weights[2] = w.TerminalActivation
	}
	if len(st.active) > 0 {
		weights[3] = w.TerminalDeactivation
	}
	choice, ok := weightedIndex(rng, weights[:])
	if !ok {
		return updates.Operation{}, ErrNoUpdate
	}

	switch choice {
	case 0:
		k := insertable[rng.IntN(len(insertable))]
		e := stp.Edge{From: k[0], To: k[1], Cost: 1}
		st.edges = append(st.edges, e)
		st.present[k] = true
		return updates.Operation{Kind: updates.EdgeInsertion, Edge: e}, nil
	case 1:
		i := rng.IntN(len(st.edges))
		e := st.edges[i]
		st.edges = slices.Delete(st.edges, i, i+1)
		delete(st.present, edgeKey(e.From, e.To))
		return updates.Operation{Kind: updates.EdgeDeletion, Edge: e}, nil
	case 2:
		t := activatable[rng.IntN(len(activatable))]
		st.active = append(st.active, t)
		st.activeSet[t] = true
		return updates.Operation{Kind: updates.TerminalActivation, Vertex: t}, nil
	default:
		i := rng.IntN(len(st.active))
		t := st.active[i]
		st.active = slices.Delete(st.active, i, i+1)
		delete(st.activeSet, t)
		return updates.Operation{Kind: updates.TerminalDeactivation, Vertex: t}, nil
	}
}

// weightedIndex returns i with probability weights[i] / sum(weights).
func weightedIndex(rng *rand.Rand, weights []float64) (int, bool) {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return 0, false
	}
	x := rng.Float64() * sum
	last := 0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		if x < w {
			return i, true
		}
		x -= w
		last = i
	}
	return last, true
}

// coverPairs lists the pairs u<v of [1, n] with at least one endpoint in
// cover, in lexicographic order.
func coverPairs(n int, cover []int) [][2]int {
	inCover := make([]bool, n+1)
	for _, v := range cover {
		inCover[v] = true
	}
	var pairs [][2]int
	for u := 1; u <= n; u++ {
		for v := u + 1; v <= n; v++ {
			if inCover[u] || inCover[v] {
				pairs = append(pairs, [2]int{u, v})
			}
		}
	}
	return pairs
}
