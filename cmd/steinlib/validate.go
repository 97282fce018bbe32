package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/martinemde/steinlib/stp"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file.stp>...",
	Short: "Parse instances and run the lint rules",
	Long:  "Parse each STP instance and report parse errors and lint diagnostics. Exits non-zero if any instance fails.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().Bool("watch", false, "Re-validate whenever one of the files changes")
	rootCmd.AddCommand(validateCmd)
}

// fileReport is the structured validation result of one file.
type fileReport struct {
	File        string             `json:"file" yaml:"file"`
	Error       string             `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorKind   string             `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Line        int                `json:"line,omitempty" yaml:"line,omitempty"`
	Diagnostics []diagnosticReport `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

type diagnosticReport struct {
	Rule     string    `json:"rule" yaml:"rule"`
	Severity string    `json:"severity" yaml:"severity"`
	Message  string    `json:"message" yaml:"message"`
	Node     int       `json:"node,omitempty" yaml:"node,omitempty"`
	Edge     *stp.Edge `json:"edge,omitempty" yaml:"edge,omitempty"`
	Fix      string    `json:"fix,omitempty" yaml:"fix,omitempty"`
}

func (d diagnosticReport) String() string {
	s := fmt.Sprintf("%s %s: %s", d.Severity, d.Rule, d.Message)
	if d.Fix != "" {
		s += "; " + d.Fix
	}
	return s
}

func (r fileReport) failed() bool {
	if r.Error != "" {
		return true
	}
	for _, d := range r.Diagnostics {
		if d.Severity == stp.SeverityError.String() {
			return true
		}
	}
	return false
}

func validateFile(logger *slog.Logger, path string) fileReport {
	report := fileReport{File: path}
	inst, err := loadInstance(logger, path)
	if err != nil {
		report.Error = err.Error()
		var perr *stp.ParseError
		if errors.As(err, &perr) {
			report.ErrorKind = string(perr.Kind)
			report.Line = perr.Line
		}
		return report
	}
	for _, d := range stp.Validate(inst) {
		report.Diagnostics = append(report.Diagnostics, diagnosticReport{
			Rule:     d.Rule,
			Severity: d.Severity.String(),
			Message:  d.Message,
			Node:     d.Node,
			Edge:     d.Edge,
			Fix:      d.Fix,
		})
	}
	return report
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	watch, _ := cmd.Flags().GetBool("watch")

	run := func() error {
		reports := make([]fileReport, 0, len(args))
		failed := 0
		for _, path := range args {
			r := validateFile(logger, path)
			if r.failed() {
				failed++
			}
			reports = append(reports, r)
		}
		if err := render(cmd.OutOrStdout(), reports, func(w io.Writer) { printReports(w, reports) }); err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d instance(s) failed validation", failed, len(args))
		}
		return nil
	}

	if !watch {
		return run()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if err := run(); err != nil {
		logger.Error("validation failed", "err", err)
	}
	return watchFiles(ctx, logger, args, func() {
		if err := run(); err != nil {
			logger.Error("validation failed", "err", err)
		}
	})
}

func printReports(w io.Writer, reports []fileReport) {
	for _, r := range reports {
		switch {
		case r.Error != "":
			fmt.Fprintf(w, "%s: FAIL\n  %s\n", r.File, r.Error)
		case r.failed():
			fmt.Fprintf(w, "%s: FAIL\n", r.File)
		default:
			fmt.Fprintf(w, "%s: ok\n", r.File)
		}
		for _, d := range r.Diagnostics {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
}

// watchFiles calls onChange whenever one of files is written or recreated,
// until ctx is cancelled. Parent directories are watched so editors that
// replace files on save are still seen.
func watchFiles(ctx context.Context, logger *slog.Logger, files []string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	targets := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", f, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
	}
	logger.Info("watching for changes", "files", len(files))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(ev.Name)] || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			logger.Info("change detected", "file", ev.Name, "op", ev.Op.String())
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "err", err)
		}
	}
}
