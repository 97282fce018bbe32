// Package updates parses dynamic Steiner tree update sequences.
//
// A sequence file opens with SECTION UPDATES and lists one operation per
// line:
//
//	SECTION UPDATES
//	T A 4        activate terminal 4
//	T D 4        deactivate terminal 4
//	E I 1 2 3.5  insert edge 1-2 with cost 3.5
//	E D 1 2 3.5  delete edge 1-2
//	V I          insert a vertex
//	V D 7        delete vertex 7
//	Q 1          query instance 1
//	END
//
// Lines are read with the stp scanner, so blank and # comment lines are
// ignored and errors are *stp.ParseError values.
//
// Each Q line names a query instance stored next to the sequence as an STP
// file. AttachQueries parses those files into the matching operations.
package updates

import (
	"fmt"
	"math"
	"strconv"

	"github.com/martinemde/steinlib/stp"
)

// InvalidUpdateRecord is the stp.ErrorKind for malformed update lines.
const InvalidUpdateRecord stp.ErrorKind = "InvalidUpdateRecord"

// ErrInvalidUpdateRecord matches update errors with errors.Is.
var ErrInvalidUpdateRecord = &stp.ParseError{Kind: InvalidUpdateRecord}

const sectionName = "UPDATES"

// OpKind identifies an update operation.
type OpKind int

const (
	TerminalActivation OpKind = iota
	TerminalDeactivation
	EdgeInsertion
	EdgeDeletion
	VertexInsertion
	VertexDeletion
	Query
)

var opKindNames = map[OpKind]string{
	TerminalActivation:   "TerminalActivation",
	TerminalDeactivation: "TerminalDeactivation",
	EdgeInsertion:        "EdgeInsertion",
	EdgeDeletion:         "EdgeDeletion",
	VertexInsertion:      "VertexInsertion",
	VertexDeletion:       "VertexDeletion",
	Query:                "Query",
}

func (k OpKind) String() string {
	if name, ok := opKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Operation is one update. Only the fields relevant to Kind are set.
type Operation struct {
	Kind   OpKind
	Vertex int      // terminal (de)activation and vertex deletion
	Edge   stp.Edge // edge insertion and deletion
	Query  int      // query number
	Line   int      // source line, 0 for generated operations

	// Instance is the graph a query asks about. Parse leaves it nil;
	// AttachQueries and stpgen.GenerateUpdates fill it in.
	Instance *stp.Instance
}

func (op Operation) String() string {
	switch op.Kind {
	case TerminalActivation, TerminalDeactivation, VertexDeletion:
		return fmt.Sprintf("%s(%d)", op.Kind, op.Vertex)
	case EdgeInsertion, EdgeDeletion:
		return fmt.Sprintf("%s(%d, %d, %g)", op.Kind, op.Edge.From, op.Edge.To, op.Edge.Cost)
	case Query:
		return fmt.Sprintf("Query(%d)", op.Query)
	default:
		return op.Kind.String()
	}
}

// Sequence is a parsed update sequence with a replay cursor.
type Sequence struct {
	Ops []Operation
	pos int
}

// Next returns the next operation, or false when the sequence is exhausted.
func (s *Sequence) Next() (Operation, bool) {
	if s.pos >= len(s.Ops) {
		return Operation{}, false
	}
	op := s.Ops[s.pos]
	s.pos++
	return op, true
}

// Reset rewinds the cursor to the first operation.
func (s *Sequence) Reset() { s.pos = 0 }

// Remaining returns the number of operations not yet returned by Next.
func (s *Sequence) Remaining() int { return len(s.Ops) - s.pos }

// MaxVertex returns the largest vertex id touched by an edge update.
func (s *Sequence) MaxVertex() int {
	m := 0
	for _, op := range s.Ops {
		if op.Kind == EdgeInsertion || op.Kind == EdgeDeletion {
			m = max(m, op.Edge.From, op.Edge.To)
		}
	}
	return m
}

// Queries returns the number of query operations.
func (s *Sequence) Queries() int {
	n := 0
	for _, op := range s.Ops {
		if op.Kind == Query {
			n++
		}
	}
	return n
}

// AttachQueries parses queries[i] as the instance of the i-th query
// operation. The number of sources must match the number of queries.
func (s *Sequence) AttachQueries(queries [][]byte, opts stp.Options) error {
	if n := s.Queries(); n != len(queries) {
		return fmt.Errorf("sequence has %d queries, got %d query instances", n, len(queries))
	}
	p := stp.NewParser(opts)
	next := 0
	for i := range s.Ops {
		op := &s.Ops[i]
		if op.Kind != Query {
			continue
		}
		inst, err := p.Parse(queries[next])
		if err != nil {
			return fmt.Errorf("query %d (line %d): %w", op.Query, op.Line, err)
		}
		op.Instance = inst
		next++
	}
	return nil
}

// Parse parses an update sequence.
func Parse(src []byte) (*Sequence, error) {
	sc := stp.NewScanner(src)
	seq := &Sequence{}
	opened := false
	for {
		ln, err := sc.Next()
		if err != nil {
			return nil, err
		}
		switch ln.Kind {
		case stp.LineEOF:
			return seq, nil
		case stp.LineBlank:
			continue
		case stp.LineSectionStart:
			if opened || ln.Name != sectionName {
				return nil, recordError(ln, "", "unexpected SECTION %s; expected a single SECTION %s", ln.Name, sectionName)
			}
			opened = true
			continue
		case stp.LineSectionEnd:
			return seq, nil
		}

		if !opened {
			return nil, recordError(ln, "", "operation before SECTION %s", sectionName)
		}
		op, err := parseOperation(ln)
		if err != nil {
			return nil, err
		}
		seq.Ops = append(seq.Ops, op)
	}
}

func parseOperation(ln stp.Line) (Operation, error) {
	toks := ln.Tokens
	op := Operation{Line: ln.Number}

	switch toks[0] {
	case "T":
		if len(toks) != 3 {
			return op, recordError(ln, "record", "expected \"T <A|D> <vertex>\"")
		}
		switch toks[1] {
		case "A":
			op.Kind = TerminalActivation
		case "D":
			op.Kind = TerminalDeactivation
		default:
			return op, recordError(ln, "action", "terminal action %q must be A or D", toks[1])
		}
		v, err := vertex(ln, toks[2], "vertex")
		if err != nil {
			return op, err
		}
		op.Vertex = v
		return op, nil

	case "E":
		if len(toks) != 5 {
			return op, recordError(ln, "record", "expected \"E <I|D> <u> <v> <cost>\"")
		}
		switch toks[1] {
		case "I":
			op.Kind = EdgeInsertion
		case "D":
			op.Kind = EdgeDeletion
		default:
			return op, recordError(ln, "action", "edge action %q must be I or D", toks[1])
		}
		from, err := vertex(ln, toks[2], "from")
		if err != nil {
			return op, err
		}
		to, err := vertex(ln, toks[3], "to")
		if err != nil {
			return op, err
		}
		cost, perr := strconv.ParseFloat(toks[4], 64)
		if perr != nil || math.IsNaN(cost) || math.IsInf(cost, 0) {
			return op, recordError(ln, "cost", "%q is not a finite number", toks[4])
		}
		op.Edge = stp.Edge{From: from, To: to, Cost: cost}
		return op, nil

	case "V":
		switch {
		case len(toks) == 2 && toks[1] == "I":
			op.Kind = VertexInsertion
			return op, nil
		case len(toks) == 3 && toks[1] == "D":
			v, err := vertex(ln, toks[2], "vertex")
			if err != nil {
				return op, err
			}
			op.Kind = VertexDeletion
			op.Vertex = v
			return op, nil
		default:
			return op, recordError(ln, "record", "expected \"V I\" or \"V D <vertex>\"")
		}

	case "Q":
		if len(toks) != 2 {
			return op, recordError(ln, "record", "expected \"Q <n>\"")
		}
		n, err := vertex(ln, toks[1], "query")
		if err != nil {
			return op, err
		}
		op.Kind = Query
		op.Query = n
		return op, nil
	}

	return op, recordError(ln, "record", "unknown operation %q", toks[0])
}

// vertex parses a positive integer field.
func vertex(ln stp.Line, tok, field string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil || n < 1 {
		return 0, recordError(ln, field, "%q is not a positive integer", tok)
	}
	return n, nil
}

func recordError(ln stp.Line, field, format string, args ...any) *stp.ParseError {
	return &stp.ParseError{
		Kind:    InvalidUpdateRecord,
		Line:    ln.Number,
		Text:    ln.Raw,
		Field:   field,
		Section: sectionName,
		Message: fmt.Sprintf(format, args...),
	}
}
