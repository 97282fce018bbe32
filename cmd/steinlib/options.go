package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/martinemde/steinlib/stp"
	"github.com/spf13/viper"
)

// newLogger builds the slog logger selected by --log-level and --log-format.
func newLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log_level"))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", viper.GetString("log_level"), err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch format := viper.GetString("log_format"); format {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}
}

// parserOptions maps the global flags onto stp.Options. Parser warnings are
// logged against file.
func parserOptions(logger *slog.Logger, file string) (stp.Options, error) {
	opts := stp.Options{
		Strict:          viper.GetBool("strict"),
		FoldSectionCase: viper.GetBool("fold_case"),
		MaxNodes:        viper.GetInt("max_nodes"),
		OnWarning: func(w stp.ParseWarning) {
			logger.Warn("parse warning",
				"file", file, "line", w.Line, "kind", w.Kind, "section", w.Section, "msg", w.Message)
		},
	}
	if viper.GetBool("unit_cost") {
		opts.DefaultCost = stp.UnitCost()
	}
	for _, r := range viper.GetStringSlice("reject") {
		switch strings.TrimSpace(r) {
		case "self-loops":
			opts.RejectSelfLoops = true
		case "duplicates":
			opts.RejectDuplicateEdges = true
		case "zero-cost":
			opts.RejectZeroCost = true
		case "negative-cost":
			opts.RejectNegativeCost = true
		default:
			return stp.Options{}, fmt.Errorf("unknown --reject policy %q", r)
		}
	}
	return opts, nil
}

// loadInstance reads and parses one STP file.
func loadInstance(logger *slog.Logger, path string) (*stp.Instance, error) {
	opts, err := parserOptions(logger, path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening instance: %w", err)
	}
	defer f.Close()

	inst, err := stp.NewParser(opts).ParseReader(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	logger.Debug("parsed instance", "file", path,
		"nodes", inst.Nodes, "edges", inst.EdgeCount(), "arcs", inst.ArcCount(), "terminals", inst.TerminalCount())
	return inst, nil
}
