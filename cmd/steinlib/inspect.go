package main

import (
	"fmt"
	"io"
	"os"

	"github.com/martinemde/steinlib/stp"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.stp>",
	Short: "Parse an STP instance and print a summary",
	Long:  "Parse an STP instance and print its size, metadata and connectivity. With --full and a structured --output, the whole instance is printed.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().Bool("full", false, "Print the full instance instead of a summary (json/yaml output)")
	rootCmd.AddCommand(inspectCmd)
}

// instanceSummary is the structured form of the inspect output.
type instanceSummary struct {
	File               string   `json:"file" yaml:"file"`
	Name               string   `json:"name,omitempty" yaml:"name,omitempty"`
	Creator            string   `json:"creator,omitempty" yaml:"creator,omitempty"`
	Nodes              int      `json:"nodes" yaml:"nodes"`
	Edges              int      `json:"edges" yaml:"edges"`
	Arcs               int      `json:"arcs" yaml:"arcs"`
	Terminals          int      `json:"terminals" yaml:"terminals"`
	Root               int      `json:"root,omitempty" yaml:"root,omitempty"`
	TotalCost          float64  `json:"total_cost" yaml:"total_cost"`
	Components         int      `json:"components" yaml:"components"`
	TerminalsConnected bool     `json:"terminals_connected" yaml:"terminals_connected"`
	SkippedSections    []string `json:"skipped_sections,omitempty" yaml:"skipped_sections,omitempty"`
}

func summarize(file string, inst *stp.Instance) instanceSummary {
	return instanceSummary{
		File:               file,
		Name:               inst.Metadata.Name,
		Creator:            inst.Metadata.Creator,
		Nodes:              inst.Nodes,
		Edges:              inst.EdgeCount(),
		Arcs:               inst.ArcCount(),
		Terminals:          inst.TerminalCount(),
		Root:               inst.Root,
		TotalCost:          inst.TotalCost(),
		Components:         len(inst.Components()),
		TerminalsConnected: inst.TerminalsConnected(),
		SkippedSections:    inst.SkippedSections,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	full, _ := cmd.Flags().GetBool("full")

	inst, err := loadInstance(logger, args[0])
	if err != nil {
		return err
	}

	summary := summarize(args[0], inst)
	if full {
		return render(cmd.OutOrStdout(), inst, func(w io.Writer) { printInstance(w, summary, inst) })
	}
	return render(cmd.OutOrStdout(), summary, func(w io.Writer) { printSummary(w, summary) })
}

// printSummary prints a summary of a parsed instance.
func printSummary(w io.Writer, s instanceSummary) {
	fmt.Fprintf(w, "File: %s\n", s.File)
	if s.Name != "" {
		fmt.Fprintf(w, "  Name: %s\n", s.Name)
	}
	if s.Creator != "" {
		fmt.Fprintf(w, "  Creator: %s\n", s.Creator)
	}
	fmt.Fprintf(w, "  Nodes: %d\n", s.Nodes)
	fmt.Fprintf(w, "  Edges: %d\n", s.Edges)
	if s.Arcs > 0 {
		fmt.Fprintf(w, "  Arcs: %d\n", s.Arcs)
	}
	fmt.Fprintf(w, "  Terminals: %d\n", s.Terminals)
	if s.Root != 0 {
		fmt.Fprintf(w, "  Root: %d\n", s.Root)
	}
	fmt.Fprintf(w, "  Total cost: %g\n", s.TotalCost)
	fmt.Fprintf(w, "  Components: %d (terminals connected: %t)\n", s.Components, s.TerminalsConnected)
	for _, name := range s.SkippedSections {
		fmt.Fprintf(w, "  Skipped section: %s\n", name)
	}
}

// printInstance prints the summary followed by every edge, arc and terminal.
func printInstance(w io.Writer, s instanceSummary, inst *stp.Instance) {
	printSummary(w, s)
	fmt.Fprintf(w, "  Edge list:\n")
	for _, e := range inst.Edges {
		fmt.Fprintf(w, "    - %d -- %d (%g)\n", e.From, e.To, e.Cost)
	}
	for _, a := range inst.Arcs {
		fmt.Fprintf(w, "    - %d -> %d (%g)\n", a.From, a.To, a.Cost)
	}
	fmt.Fprintf(w, "  Terminal list: %v\n", inst.Terminals)
}
