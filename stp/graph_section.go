package stp

import "fmt"

// header tracks one "<Keyword> <count>" line of a section.
type header struct {
	seen  bool
	value int
	line  Line
}

// graphSection parses SECTION Graph.
type graphSection struct {
	a     *assembly
	start Line

	nodes     header
	edges     header
	arcs      header
	obstacles header
	dataSeen  bool

	edgeList []Edge
	edgeSrc  []Line
	arcList  []Edge
	arcSrc   []Line
}

func (g *graphSection) record(ln Line) error {
	switch kw := ln.Keyword(); kw {
	case "Nodes":
		if err := g.header(ln, &g.nodes, 1); err != nil {
			return err
		}
		if limit := g.a.opts.nodeLimit(); g.nodes.value > limit {
			err := errorAt(InvalidHeader, ln, "Nodes %d exceeds the limit of %d", g.nodes.value, limit)
			err.Field = "Nodes"
			err.Section = sectionGraph.String()
			return err
		}
		return nil
	case "Edges":
		return g.header(ln, &g.edges, 0)
	case "Arcs":
		return g.header(ln, &g.arcs, 0)
	case "Obstacles":
		return g.header(ln, &g.obstacles, 0)
	case "E":
		return g.edge(ln, &g.edges, "Edges", &g.edgeList, &g.edgeSrc)
	case "A":
		return g.edge(ln, &g.arcs, "Arcs", &g.arcList, &g.arcSrc)
	default:
		return g.a.warn(UnsupportedDirective, ln, sectionGraph,
			"unsupported directive %q in Graph section", kw)
	}
}

func (g *graphSection) header(ln Line, h *header, least int) error {
	kw := ln.Keyword()
	if h.seen {
		err := errorAt(DuplicateHeader, ln, "header %q already declared on line %d", kw, h.line.Number)
		err.Section = sectionGraph.String()
		return err
	}
	if g.dataSeen {
		err := errorAt(InvalidHeader, ln, "header %q must precede the data records", kw)
		err.Section = sectionGraph.String()
		return err
	}
	n, err := headerValue(ln, least)
	if err != nil {
		err.Section = sectionGraph.String()
		return err
	}
	*h = header{seen: true, value: n, line: ln}
	return nil
}

func (g *graphSection) edge(ln Line, count *header, countName string, list *[]Edge, src *[]Line) error {
	g.dataSeen = true
	kw := ln.Keyword()
	if !g.nodes.seen {
		return g.missingHeader(ln, "Nodes", kw)
	}
	if !count.seen {
		return g.missingHeader(ln, countName, kw)
	}

	e, err := g.a.parseEdge(ln)
	if err != nil {
		return err
	}
	*list = append(*list, e)
	*src = append(*src, ln)
	return nil
}

func (g *graphSection) missingHeader(ln Line, name, kw string) error {
	err := errorAt(MissingHeader, ln, "%s record before the %q header", kw, name)
	err.Section = sectionGraph.String()
	err.Field = name
	return err
}

func (g *graphSection) finish(end Line) error {
	if !g.nodes.seen {
		return g.missingAtEnd("Nodes")
	}
	if !g.edges.seen && !g.arcs.seen {
		return g.missingAtEnd("Edges")
	}
	if g.edges.seen && g.edges.value != len(g.edgeList) {
		return countMismatch(EdgeCountMismatch, sectionGraph, g.edges, len(g.edgeList), "edges")
	}
	if g.arcs.seen && g.arcs.value != len(g.arcList) {
		return countMismatch(EdgeCountMismatch, sectionGraph, g.arcs, len(g.arcList), "arcs")
	}

	in := g.a.inst
	in.Nodes = g.nodes.value
	in.Obstacles = g.obstacles.value
	in.Edges = g.edgeList
	in.Arcs = g.arcList
	g.a.edgeSrc = g.edgeSrc
	g.a.arcSrc = g.arcSrc
	return nil
}

func (g *graphSection) missingAtEnd(name string) error {
	err := errorAt(MissingHeader, g.start, "Graph section has no %q header", name)
	err.Section = sectionGraph.String()
	err.Field = name
	return err
}

// parseEdge reads "E <u> <v> <cost>" or "A <u> <v> <cost>".
func (a *assembly) parseEdge(ln Line) (Edge, error) {
	toks := ln.Tokens
	kw := toks[0]
	switch {
	case len(toks) == 4:
	case len(toks) == 3 && a.opts.DefaultCost != nil:
	default:
		return Edge{}, fieldError(InvalidEdgeRecord, ln, sectionGraph, "record",
			fmt.Errorf("expected \"%s <u> <v> <cost>\", got %d field(s)", kw, len(toks)-1))
	}

	from, err := parseNodeID(toks[1])
	if err != nil {
		return Edge{}, fieldError(InvalidEdgeRecord, ln, sectionGraph, "from", err)
	}
	to, err := parseNodeID(toks[2])
	if err != nil {
		return Edge{}, fieldError(InvalidEdgeRecord, ln, sectionGraph, "to", err)
	}

	var cost float64
	if len(toks) == 4 {
		cost, err = parseCost(toks[3])
		if err != nil {
			return Edge{}, fieldError(InvalidEdgeRecord, ln, sectionGraph, "cost", err)
		}
	} else {
		cost = *a.opts.DefaultCost
	}
	return Edge{From: from, To: to, Cost: cost}, nil
}

// headerValue parses "<Keyword> <count>" with count >= least.
func headerValue(ln Line, least int) (int, *ParseError) {
	kw := ln.Keyword()
	if len(ln.Tokens) != 2 {
		err := errorAt(InvalidHeader, ln, "expected \"%s <count>\", got %d field(s)", kw, len(ln.Tokens)-1)
		err.Field = kw
		return 0, err
	}
	n, cerr := parseCount(ln.Tokens[1])
	if cerr == nil && n < least {
		cerr = fmt.Errorf("%s must be at least %d", kw, least)
	}
	if cerr != nil {
		err := errorAt(InvalidHeader, ln, "%v", cerr)
		err.Field = kw
		err.Cause = cerr
		return 0, err
	}
	return n, nil
}

func fieldError(kind ErrorKind, ln Line, sec section, field string, cause error) *ParseError {
	err := errorAt(kind, ln, "field %s: %v", field, cause)
	err.Field = field
	err.Section = sec.String()
	err.Cause = cause
	return err
}

func countMismatch(kind ErrorKind, sec section, h header, actual int, what string) *ParseError {
	err := errorAt(kind, h.line, "declared %d %s, found %d", h.value, what, actual)
	err.Section = sec.String()
	err.Field = h.line.Keyword()
	err.Declared = h.value
	err.Actual = actual
	return err
}
