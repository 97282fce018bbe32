package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/martinemde/steinlib/stp"
	"github.com/martinemde/steinlib/stpgen"
	"github.com/martinemde/steinlib/updates"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random instance with a bounded vertex cover",
	Long:  "Generate a random Steiner tree instance whose edges all touch a random vertex cover, resampling until the terminals are connected.",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().Int("nodes", 20, "Number of nodes")
	generateCmd.Flags().Int("terminals", 5, "Number of terminals")
	generateCmd.Flags().Int("vertex-cover", 5, "Size of the vertex cover")
	generateCmd.Flags().Float64("p", 0.5, "Edge probability")
	generateCmd.Flags().Int("max-attempts", stpgen.DefaultMaxAttempts, "Resamples before giving up")
	generateCmd.Flags().Uint64("seed", 0, "Random seed (0 picks one from the clock)")
	generateCmd.Flags().Int("updates", 0, "Also generate a dynamic update sequence of this many updates")
	generateCmd.Flags().Float64Slice("update-weights", []float64{1, 1, 1, 1},
		"Relative weights of edge insertion, edge deletion, terminal activation and terminal deactivation")
	generateCmd.Flags().Float64("query-prob", 0.1, "Chance of a query after each update")
	generateCmd.Flags().Bool("start-empty", false, "Start the update sequence from no edges and no terminals")
	rootCmd.AddCommand(generateCmd)
}

type generated struct {
	Seed     uint64            `json:"seed" yaml:"seed"`
	Attempts int               `json:"attempts" yaml:"attempts"`
	Cover    []int             `json:"cover" yaml:"cover"`
	Instance *stp.Instance     `json:"instance" yaml:"instance"`
	Updates  []operationReport `json:"updates,omitempty" yaml:"updates,omitempty"`
}

// operationReport is the structured form of one update operation. Query
// operations carry their snapshot.
type operationReport struct {
	Op       string        `json:"op" yaml:"op"`
	Vertex   int           `json:"vertex,omitempty" yaml:"vertex,omitempty"`
	Edge     *stp.Edge     `json:"edge,omitempty" yaml:"edge,omitempty"`
	Query    int           `json:"query,omitempty" yaml:"query,omitempty"`
	Instance *stp.Instance `json:"instance,omitempty" yaml:"instance,omitempty"`
}

func reportOperations(ops []updates.Operation) []operationReport {
	out := make([]operationReport, len(ops))
	for i, op := range ops {
		r := operationReport{Op: op.Kind.String(), Query: op.Query, Instance: op.Instance}
		switch op.Kind {
		case updates.EdgeInsertion, updates.EdgeDeletion:
			e := op.Edge
			r.Edge = &e
		case updates.TerminalActivation, updates.TerminalDeactivation, updates.VertexDeletion:
			r.Vertex = op.Vertex
		}
		out[i] = r
	}
	return out
}

// updateConfig reads the update sequence flags.
func updateConfig(cmd *cobra.Command) (stpgen.UpdateConfig, error) {
	flags := cmd.Flags()
	total, _ := flags.GetInt("updates")
	w, _ := flags.GetFloat64Slice("update-weights")
	q, _ := flags.GetFloat64("query-prob")
	empty, _ := flags.GetBool("start-empty")
	if len(w) != 4 {
		return stpgen.UpdateConfig{}, fmt.Errorf("--update-weights needs 4 values, got %d", len(w))
	}
	return stpgen.UpdateConfig{
		Weights: stpgen.UpdateWeights{
			EdgeInsertion:        w[0],
			EdgeDeletion:         w[1],
			TerminalActivation:   w[2],
			TerminalDeactivation: w[3],
		},
		QueryProbability: q,
		StartEmpty:       empty,
		Total:            total,
	}, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	nodes, _ := flags.GetInt("nodes")
	terminals, _ := flags.GetInt("terminals")
	cover, _ := flags.GetInt("vertex-cover")
	p, _ := flags.GetFloat64("p")
	attempts, _ := flags.GetInt("max-attempts")
	seed, _ := flags.GetUint64("seed")
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	res, err := stpgen.Generate(rng, stpgen.Config{
		Nodes:           nodes,
		Terminals:       terminals,
		VertexCover:     cover,
		EdgeProbability: p,
		MaxAttempts:     attempts,
	})
	if err != nil {
		return fmt.Errorf("generating instance: %w", err)
	}
	logger.Info("generated instance", "seed", seed, "attempts", res.Attempts,
		"nodes", res.Instance.Nodes, "edges", res.Instance.EdgeCount())

	out := generated{Seed: seed, Attempts: res.Attempts, Cover: res.Cover, Instance: res.Instance}
	var ops []updates.Operation
	if n, _ := flags.GetInt("updates"); n > 0 {
		ucfg, err := updateConfig(cmd)
		if err != nil {
			return err
		}
		ops, err = stpgen.GenerateUpdates(rng, res.Instance, res.Cover, ucfg)
		if err != nil {
			return fmt.Errorf("generating updates: %w", err)
		}
		logger.Info("generated update sequence", "operations", len(ops))
		out.Updates = reportOperations(ops)
	}

	return render(cmd.OutOrStdout(), out, func(w io.Writer) {
		printInstance(w, summarize("(generated)", res.Instance), res.Instance)
		fmt.Fprintf(w, "  Vertex cover: %v\n", res.Cover)
		fmt.Fprintf(w, "  Seed: %d\n", seed)
		if len(ops) > 0 {
			fmt.Fprintf(w, "  Updates:\n")
			printOperations(w, ops)
		}
	})
}

func printOperations(w io.Writer, ops []updates.Operation) {
	for _, op := range ops {
		if op.Kind == updates.Query && op.Instance != nil {
			fmt.Fprintf(w, "    %s: %d edges, terminals %v\n", op, op.Instance.EdgeCount(), op.Instance.Terminals)
			continue
		}
		fmt.Fprintf(w, "    %s\n", op)
	}
}
