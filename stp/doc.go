// Package stp implements a parser for the SteinLib STP format.
//
// An STP file describes one Steiner tree problem instance as a sequence of
// sections:
//
//	33D32945 STP File, STP Format Version 1.0
//	SECTION Comment
//	Name    "example"
//	END
//
//	SECTION Graph
//	Nodes 3
//	Edges 2
//	E 1 2 1.0
//	E 2 3 2.5
//	END
//
//	SECTION Terminals
//	Terminals 2
//	T 1
//	T 3
//	END
//
//	EOF
//
// The parser has three layers:
//
//   - Scanner: splits the source into lines and classifies each one as
//     blank, a section start, a section end or a data record.
//   - Section parsers: one per recognized section (Comment, Graph,
//     Terminals). Unknown sections such as Coordinates are skipped.
//   - Assembler: a state machine that drives the section parsers, then
//     cross-checks node references and the optional edge policies.
//
// Parsing is all-or-nothing. Any problem yields a *ParseError carrying the
// ErrorKind, the 1-based line number and the raw line text; no partial
// Instance is returned.
//
// Usage:
//
//	inst, err := stp.Parse(src)
//	if err != nil {
//	    var perr *stp.ParseError
//	    if errors.As(err, &perr) && perr.Kind == stp.EdgeCountMismatch {
//	        // ...
//	    }
//	    log.Fatal(err)
//	}
//	fmt.Println(inst.Nodes, inst.EdgeCount(), inst.TerminalCount())
//
// Validate runs lint rules (terminal connectivity, parallel edges, ...) over
// a parsed Instance.
package stp
