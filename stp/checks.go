package stp

import "fmt"

// checkReferences verifies that every node id used by an edge, arc,
// terminal or the root lies in [1, Nodes]. The earliest offending line wins.
func (a *assembly) checkReferences() error {
	n := a.inst.Nodes
	var bad *ParseError
	report := func(id int, ln Line, sec section, what string) {
		if id <= n || (bad != nil && bad.Line <= ln.Number) {
			return
		}
		bad = errorAt(OutOfRangeReference, ln, "%s %d exceeds node count %d", what, id, n)
		bad.Section = sec.String()
		bad.Ref = id
	}

	for i, e := range a.inst.Edges {
		report(e.From, a.edgeSrc[i], sectionGraph, "edge endpoint")
		report(e.To, a.edgeSrc[i], sectionGraph, "edge endpoint")
	}
	for i, e := range a.inst.Arcs {
		report(e.From, a.arcSrc[i], sectionGraph, "arc tail")
		report(e.To, a.arcSrc[i], sectionGraph, "arc head")
	}
	for i, t := range a.inst.Terminals {
		report(t, a.terminalSrc[i], sectionTerminals, "terminal")
	}
	if a.inst.Root != 0 {
		report(a.inst.Root, a.rootSrc, sectionTerminals, "root")
	}

	if bad != nil {
		return bad
	}
	return nil
}

// checkEdgePolicies applies the optional Reject* options, in input order.
func (a *assembly) checkEdgePolicies() error {
	o := a.opts
	if !o.RejectSelfLoops && !o.RejectDuplicateEdges && !o.RejectZeroCost && !o.RejectNegativeCost {
		return nil
	}

	if err := a.checkEdgeList(a.inst.Edges, a.edgeSrc, Edge.key); err != nil {
		return err
	}
	directed := func(e Edge) [2]int { return [2]int{e.From, e.To} }
	return a.checkEdgeList(a.inst.Arcs, a.arcSrc, directed)
}

func (a *assembly) checkEdgeList(edges []Edge, src []Line, key func(Edge) [2]int) error {
	o := a.opts
	first := make(map[[2]int]int, len(edges))
	for i, e := range edges {
		ln := src[i]
		var reason string
		switch {
		case o.RejectSelfLoops && e.IsSelfLoop():
			reason = fmt.Sprintf("self-loop on node %d", e.From)
		case o.RejectZeroCost && e.Cost == 0:
			reason = "zero cost"
		case o.RejectNegativeCost && e.Cost < 0:
			reason = fmt.Sprintf("negative cost %g", e.Cost)
		case o.RejectDuplicateEdges:
			k := key(e)
			if prev, dup := first[k]; dup {
				reason = fmt.Sprintf("duplicate of the edge on line %d", prev)
			} else {
				first[k] = ln.Number
			}
		}
		if reason != "" {
			err := errorAt(RejectedEdge, ln, "%s", reason)
			err.Section = sectionGraph.String()
			return err
		}
	}
	return nil
}
