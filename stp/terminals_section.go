package stp

import "fmt"

// terminalsSection parses SECTION Terminals.
type terminalsSection struct {
	a     *assembly
	start Line

	count    header
	dataSeen bool
	records  int

	terminals []int
	src       []Line
	seen      map[int]int // terminal id -> line it was first declared on
	root      int
	rootSrc   Line
}

func (t *terminalsSection) record(ln Line) error {
	switch kw := ln.Keyword(); kw {
	case "Terminals":
		return t.header(ln)
	case "T":
		return t.terminal(ln)
	case "Root":
		return t.rootRecord(ln)
	default:
		return t.a.warn(UnsupportedDirective, ln, sectionTerminals,
			"unsupported directive %q in Terminals section", kw)
	}
}

func (t *terminalsSection) header(ln Line) error {
	if t.count.seen {
		err := errorAt(DuplicateHeader, ln, "header \"Terminals\" already declared on line %d", t.count.line.Number)
		err.Section = sectionTerminals.String()
		return err
	}
	if t.dataSeen {
		err := errorAt(InvalidHeader, ln, "header \"Terminals\" must precede the T records")
		err.Section = sectionTerminals.String()
		return err
	}
	n, err := headerValue(ln, 0)
	if err != nil {
		err.Section = sectionTerminals.String()
		return err
	}
	t.count = header{seen: true, value: n, line: ln}
	return nil
}

func (t *terminalsSection) terminal(ln Line) error {
	t.dataSeen = true
	if !t.count.seen {
		err := errorAt(MissingHeader, ln, "T record before the \"Terminals\" header")
		err.Section = sectionTerminals.String()
		err.Field = "Terminals"
		return err
	}
	if len(ln.Tokens) != 2 {
		return fieldError(InvalidTerminalRecord, ln, sectionTerminals, "record",
			fmt.Errorf("expected \"T <id>\", got %d field(s)", len(ln.Tokens)-1))
	}
	id, err := parseNodeID(ln.Tokens[1])
	if err != nil {
		return fieldError(InvalidTerminalRecord, ln, sectionTerminals, "id", err)
	}

	t.records++
	if first, dup := t.seen[id]; dup {
		return t.a.warn(InvalidTerminalRecord, ln, sectionTerminals,
			"terminal %d already declared on line %d", id, first)
	}
	if t.seen == nil {
		t.seen = make(map[int]int)
	}
	t.seen[id] = ln.Number
	t.terminals = append(t.terminals, id)
	t.src = append(t.src, ln)
	return nil
}

func (t *terminalsSection) rootRecord(ln Line) error {
	if t.root != 0 {
		return fieldError(InvalidTerminalRecord, ln, sectionTerminals, "root",
			fmt.Errorf("root already declared on line %d", t.rootSrc.Number))
	}
	if len(ln.Tokens) != 2 {
		return fieldError(InvalidTerminalRecord, ln, sectionTerminals, "root",
			fmt.Errorf("expected \"Root <id>\", got %d field(s)", len(ln.Tokens)-1))
	}
	id, err := parseNodeID(ln.Tokens[1])
	if err != nil {
		return fieldError(InvalidTerminalRecord, ln, sectionTerminals, "root", err)
	}
	t.root = id
	t.rootSrc = ln
	return nil
}

func (t *terminalsSection) finish(end Line) error {
	if !t.count.seen {
		err := errorAt(MissingHeader, t.start, "Terminals section has no \"Terminals\" header")
		err.Section = sectionTerminals.String()
		err.Field = "Terminals"
		return err
	}
	if t.count.value != t.records {
		return countMismatch(TerminalCountMismatch, sectionTerminals, t.count, t.records, "terminals")
	}

	t.a.inst.Terminals = t.terminals
	t.a.terminalSrc = t.src
	t.a.inst.Root = t.root
	t.a.rootSrc = t.rootSrc
	return nil
}
