package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/martinemde/steinlib/updates"
	"github.com/spf13/cobra"
)

var updatesCmd = &cobra.Command{
	Use:   "updates <file>",
	Short: "Parse a dynamic update sequence and summarize it",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdates,
}

func init() {
	updatesCmd.Flags().StringSlice("query", nil, "Query instance files, one per Q line in order")
	rootCmd.AddCommand(updatesCmd)
}

type sequenceSummary struct {
	File       string         `json:"file" yaml:"file"`
	Operations int            `json:"operations" yaml:"operations"`
	Queries    int            `json:"queries" yaml:"queries"`
	MaxVertex  int            `json:"max_vertex" yaml:"max_vertex"`
	ByKind     map[string]int `json:"by_kind" yaml:"by_kind"`
	Snapshots  []querySummary `json:"snapshots,omitempty" yaml:"snapshots,omitempty"`
}

// querySummary describes the instance attached to one query.
type querySummary struct {
	Query              int    `json:"query" yaml:"query"`
	File               string `json:"file" yaml:"file"`
	Nodes              int    `json:"nodes" yaml:"nodes"`
	Edges              int    `json:"edges" yaml:"edges"`
	Terminals          int    `json:"terminals" yaml:"terminals"`
	TerminalsConnected bool   `json:"terminals_connected" yaml:"terminals_connected"`
}

// attachQueryFiles reads files and attaches them to the queries of seq in
// order.
func attachQueryFiles(logger *slog.Logger, seq *updates.Sequence, files []string) ([]querySummary, error) {
	srcs := make([][]byte, len(files))
	for i, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading query instance: %w", err)
		}
		srcs[i] = b
	}
	opts, err := parserOptions(logger, "query instance")
	if err != nil {
		return nil, err
	}
	if err := seq.AttachQueries(srcs, opts); err != nil {
		return nil, err
	}

	var out []querySummary
	for _, op := range seq.Ops {
		if op.Kind != updates.Query {
			continue
		}
		out = append(out, querySummary{
			Query:              op.Query,
			File:               files[len(out)],
			Nodes:              op.Instance.Nodes,
			Edges:              op.Instance.EdgeCount(),
			Terminals:          op.Instance.TerminalCount(),
			TerminalsConnected: op.Instance.TerminalsConnected(),
		})
	}
	return out, nil
}

func runUpdates(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading update sequence: %w", err)
	}
	seq, err := updates.Parse(src)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}
	logger.Debug("parsed update sequence", "file", args[0], "operations", len(seq.Ops))

	summary := sequenceSummary{
		File:       args[0],
		Operations: len(seq.Ops),
		Queries:    seq.Queries(),
		MaxVertex:  seq.MaxVertex(),
		ByKind:     make(map[string]int),
	}
	if files, _ := cmd.Flags().GetStringSlice("query"); len(files) > 0 {
		summary.Snapshots, err = attachQueryFiles(logger, seq, files)
		if err != nil {
			return fmt.Errorf("attaching queries to %s: %w", args[0], err)
		}
	}

	var order []string
	for _, op := range seq.Ops {
		k := op.Kind.String()
		if summary.ByKind[k] == 0 {
			order = append(order, k)
		}
		summary.ByKind[k]++
	}

	return render(cmd.OutOrStdout(), summary, func(w io.Writer) {
		fmt.Fprintf(w, "File: %s\n", summary.File)
		fmt.Fprintf(w, "  Operations: %d\n", summary.Operations)
		fmt.Fprintf(w, "  Queries: %d\n", summary.Queries)
		fmt.Fprintf(w, "  Max vertex: %d\n", summary.MaxVertex)
		for _, k := range order {
			fmt.Fprintf(w, "    - %s: %d\n", k, summary.ByKind[k])
		}
		for _, q := range summary.Snapshots {
			fmt.Fprintf(w, "  Query %d (%s): %d nodes, %d edges, %d terminals, connected: %t\n",
				q.Query, q.File, q.Nodes, q.Edges, q.Terminals, q.TerminalsConnected)
		}
	})
}
