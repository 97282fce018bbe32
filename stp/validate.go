package stp

import (
	"fmt"
	"strings"
)

// Severity grades a lint finding on a parsed instance.
type Severity int

const (
	// SeverityError marks an instance with no feasible Steiner tree.
	SeverityError Severity = iota
	// SeverityWarning marks a solvable instance that probably has a data
	// problem, such as a parallel edge or a terminal with no edges.
	SeverityWarning
	// SeverityInfo marks structure a presolver could exploit.
	SeverityInfo
)

var severityNames = map[Severity]string{
	SeverityError:   "ERROR",
	SeverityWarning: "WARNING",
	SeverityInfo:    "INFO",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Diagnostic reports one problem a lint rule found in an instance. Node is
// zero and Edge nil when the finding is about the instance as a whole.
type Diagnostic struct {
	Rule     string
	Severity Severity
	Message  string
	Node     int
	Edge     *Edge
	Fix      string
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", d.Severity, d.Rule, d.Message)
	switch {
	case d.Edge != nil:
		fmt.Fprintf(&b, " [%d-%d cost %g]", d.Edge.From, d.Edge.To, d.Edge.Cost)
	case d.Node != 0:
		fmt.Fprintf(&b, " [node %d]", d.Node)
	}
	if d.Fix != "" {
		fmt.Fprintf(&b, "; %s", d.Fix)
	}
	return b.String()
}

// Rule checks an instance. Apply must not modify it.
type Rule interface {
	Name() string
	Apply(in *Instance) []Diagnostic
}

// ValidationError lists the SeverityError diagnostics of an instance.
type ValidationError struct {
	Diagnostics []Diagnostic
}

func (e *ValidationError) Error() string {
	if len(e.Diagnostics) == 1 {
		return "infeasible instance: " + e.Diagnostics[0].String()
	}
	lines := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		lines[i] = "\n\t" + d.String()
	}
	return fmt.Sprintf("infeasible instance, %d errors:%s", len(e.Diagnostics), strings.Join(lines, ""))
}

// Validate lints in with the built-in rules followed by extra, in order.
func Validate(in *Instance, extra ...Rule) []Diagnostic {
	facts := newGraphFacts(in)
	var out []Diagnostic
	for _, r := range builtInRules(facts) {
		out = append(out, r.Apply(in)...)
	}
	for _, r := range extra {
		out = append(out, r.Apply(in)...)
	}
	return out
}

// ValidateOrError is Validate plus a *ValidationError when any diagnostic
// has SeverityError. The full diagnostic list is returned either way.
func ValidateOrError(in *Instance, extra ...Rule) ([]Diagnostic, error) {
	diags := Validate(in, extra...)
	var failed []Diagnostic
	for _, d := range diags {
		if d.Severity == SeverityError {
			failed = append(failed, d)
		}
	}
	if failed == nil {
		return diags, nil
	}
	return diags, &ValidationError{Diagnostics: failed}
}

func builtInRules(facts *graphFacts) []Rule {
	return []Rule{
		terminalsConnectedRule{facts},
		isolatedTerminalRule{facts},
		selfLoopRule{},
		duplicateEdgeRule{},
		negativeCostRule{},
		zeroCostRule{},
		trivialInstanceRule{},
	}
}

// terminals_connected: all terminals must share one component.
type terminalsConnectedRule struct{ facts *graphFacts }

func (terminalsConnectedRule) Name() string { return "terminals_connected" }

func (r terminalsConnectedRule) Apply(in *Instance) []Diagnostic {
	if len(in.Terminals) < 2 {
		return nil
	}
	groups := r.facts.terminalGroups()
	if len(groups) < 2 {
		return nil
	}
	var diags []Diagnostic
	for _, g := range groups[1:] {
		diags = append(diags, Diagnostic{
			Rule:     "terminals_connected",
			Severity: SeverityError,
			Message: fmt.Sprintf("terminals %v are disconnected from terminal %d; %d components contain terminals",
				g, groups[0][0], len(groups)),
			Node: g[0],
			Fix:  "add edges joining the components or drop the unreachable terminals",
		})
	}
	return diags
}

// isolated_terminal: a terminal without incident edges.
type isolatedTerminalRule struct{ facts *graphFacts }

func (isolatedTerminalRule) Name() string { return "isolated_terminal" }

func (r isolatedTerminalRule) Apply(in *Instance) []Diagnostic {
	if len(in.Terminals) < 2 {
		return nil
	}
	var diags []Diagnostic
	for _, t := range in.Terminals {
		if r.facts.degree(t) == 0 {
			diags = append(diags, Diagnostic{
				Rule:     "isolated_terminal",
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("terminal %d has no incident edges", t),
				Node:     t,
			})
		}
	}
	return diags
}

// self_loop: edges joining a node to itself never appear in a tree.
type selfLoopRule struct{}

func (selfLoopRule) Name() string { return "self_loop" }

func (selfLoopRule) Apply(in *Instance) []Diagnostic {
	var diags []Diagnostic
	for _, e := range in.Edges {
		if e.IsSelfLoop() {
			diags = append(diags, edgeDiagnostic("self_loop", SeverityWarning, e,
				fmt.Sprintf("self-loop on node %d", e.From), "remove the edge"))
		}
	}
	return diags
}

// duplicate_edge: parallel undirected edges; only the cheapest matters.
type duplicateEdgeRule struct{}

func (duplicateEdgeRule) Name() string { return "duplicate_edge" }

func (duplicateEdgeRule) Apply(in *Instance) []Diagnostic {
	var diags []Diagnostic
	seen := make(map[[2]int]bool, len(in.Edges))
	for _, e := range in.Edges {
		k := e.key()
		if seen[k] {
			diags = append(diags, edgeDiagnostic("duplicate_edge", SeverityWarning, e,
				fmt.Sprintf("parallel edge between %d and %d", k[0], k[1]), "keep only the cheapest parallel edge"))
			continue
		}
		seen[k] = true
	}
	return diags
}

// negative_cost: SteinLib costs are non-negative in practice.
type negativeCostRule struct{}

func (negativeCostRule) Name() string { return "negative_cost" }

func (negativeCostRule) Apply(in *Instance) []Diagnostic {
	var diags []Diagnostic
	for _, e := range append(append([]Edge(nil), in.Edges...), in.Arcs...) {
		if e.Cost < 0 {
			diags = append(diags, edgeDiagnostic("negative_cost", SeverityWarning, e,
				fmt.Sprintf("negative cost %g", e.Cost), ""))
		}
	}
	return diags
}

// zero_cost: zero-cost edges can be contracted by presolve.
type zeroCostRule struct{}

func (zeroCostRule) Name() string { return "zero_cost" }

func (zeroCostRule) Apply(in *Instance) []Diagnostic {
	var diags []Diagnostic
	for _, e := range in.Edges {
		if e.Cost == 0 {
			diags = append(diags, edgeDiagnostic("zero_cost", SeverityInfo, e, "zero-cost edge", ""))
		}
	}
	return diags
}

// trivial_instance: fewer than two terminals means the empty tree is optimal.
type trivialInstanceRule struct{}

func (trivialInstanceRule) Name() string { return "trivial_instance" }

func (trivialInstanceRule) Apply(in *Instance) []Diagnostic {
	if len(in.Terminals) >= 2 {
		return nil
	}
	return []Diagnostic{{
		Rule:     "trivial_instance",
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("instance has %d terminal(s); the optimal tree is empty", len(in.Terminals)),
	}}
}

func edgeDiagnostic(rule string, sev Severity, e Edge, msg, fix string) Diagnostic {
	return Diagnostic{Rule: rule, Severity: sev, Message: msg, Edge: &e, Fix: fix}
}
