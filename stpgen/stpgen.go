// Package stpgen generates random Steiner tree instances with a bounded
// vertex cover.
//
// Edges are sampled from G(n, p) restricted to pairs with at least one
// endpoint in a randomly chosen vertex cover, so the cover bounds the
// instance's vertex cover number. Samples are redrawn until all terminals
// lie in one component.
package stpgen

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/martinemde/steinlib/stp"
)

var (
	ErrInvalidConfig = errors.New("stpgen: invalid config")
	ErrNotConnected  = errors.New("stpgen: terminals not connected")
)

// DefaultMaxAttempts bounds the number of resamples when Config.MaxAttempts
// is zero.
const DefaultMaxAttempts = 1000

// Config describes the instance to generate.
type Config struct {
	Nodes       int
	Terminals   int
	VertexCover int
	// EdgeProbability is the chance of each admissible pair becoming an edge.
	EdgeProbability float64
	MaxAttempts     int
}

func (c Config) validate() error {
	switch {
	case c.Nodes < 1:
		return fmt.Errorf("%w: nodes must be positive, got %d", ErrInvalidConfig, c.Nodes)
	case c.Terminals < 0 || c.Terminals > c.Nodes:
		return fmt.Errorf("%w: terminals must be in [0, %d], got %d", ErrInvalidConfig, c.Nodes, c.Terminals)
	case c.VertexCover < 0 || c.VertexCover > c.Nodes:
		return fmt.Errorf("%w: vertex cover must be in [0, %d], got %d", ErrInvalidConfig, c.Nodes, c.VertexCover)
	case c.EdgeProbability < 0 || c.EdgeProbability > 1:
		return fmt.Errorf("%w: edge probability must be in [0, 1], got %g", ErrInvalidConfig, c.EdgeProbability)
	case c.MaxAttempts < 0:
		return fmt.Errorf("%w: max attempts must not be negative, got %d", ErrInvalidConfig, c.MaxAttempts)
	}
	return nil
}

// Result is a generated instance and the vertex cover it was built around.
type Result struct {
	Instance *stp.Instance
	Cover    []int
	Attempts int
}

// Generate draws a random instance. The same rng seed yields the same
// instance.
func Generate(rng *rand.Rand, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	attempts := cfg.MaxAttempts
	if attempts == 0 {
		attempts = DefaultMaxAttempts
	}

	cover := Subset(rng, cfg.Nodes, cfg.VertexCover)
	terminals := Subset(rng, cfg.Nodes, cfg.Terminals)

	inCover := make([]bool, cfg.Nodes+1)
	for _, v := range cover {
		inCover[v] = true
	}

	inst := &stp.Instance{
		Nodes:     cfg.Nodes,
		Terminals: terminals,
		Metadata: stp.Metadata{
			Name:    fmt.Sprintf("random-n%d-t%d-vc%d", cfg.Nodes, cfg.Terminals, cfg.VertexCover),
			Creator: "stpgen",
			Problem: "Classical Steiner tree problem in graphs",
		},
	}
	for i := 1; i <= attempts; i++ {
		inst.Edges = sampleEdges(rng, cfg.Nodes, cfg.EdgeProbability, inCover)
		if inst.TerminalsConnected() {
			return &Result{Instance: inst, Cover: cover, Attempts: i}, nil
		}
	}
	return nil, fmt.Errorf("%w after %d attempts (n=%d, vc=%d, p=%g)",
		ErrNotConnected, attempts, cfg.Nodes, cfg.VertexCover, cfg.EdgeProbability)
}

// sampleEdges draws unit-cost edges i<j with at least one endpoint in the
// cover, each with probability p, in lexicographic order.
func sampleEdges(rng *rand.Rand, n int, p float64, inCover []bool) []stp.Edge {
	var edges []stp.Edge
	for i := 1; i <= n; i++ {
		for j := i + 1; j <= n; j++ {
			if !inCover[i] && !inCover[j] {
				continue
			}
			if rng.Float64() < p {
				edges = append(edges, stp.Edge{From: i, To: j, Cost: 1})
			}
		}
	}
	return edges
}

// Subset returns size distinct node ids from [1, n] in ascending order.
func Subset(rng *rand.Rand, n, size int) []int {
	perm := rng.Perm(n)[:size]
	out := make([]int, size)
	for i, v := range perm {
		out[i] = v + 1
	}
	slices.Sort(out)
	return out
}
