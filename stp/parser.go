package stp

import (
	"fmt"
	"io"
	"strings"
)

// formatMagic opens the optional STP header line,
// e.g. "33D32945 STP File, STP Format Version 1.0".
const formatMagic = "33D32945"

// eofMarker ends the instance; anything after it is not read.
const eofMarker = "EOF"

// Parse parses STP source with default Options.
// Returns a *ParseError on failure.
func Parse(src []byte) (*Instance, error) {
	return NewParser(Options{}).Parse(src)
}

// ParseString is Parse for string input.
func ParseString(src string) (*Instance, error) {
	return NewParser(Options{}).Parse([]byte(src))
}

// ParseReader reads r to the end and parses the result with default Options.
func ParseReader(r io.Reader) (*Instance, error) {
	return NewParser(Options{}).ParseReader(r)
}

// Parser parses STP sources with a fixed set of Options. It keeps no state
// between calls and is safe for concurrent use.
type Parser struct {
	opts Options
}

// NewParser returns a Parser configured with opts.
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Parse parses src into an Instance. On error the Instance is nil and the
// error is a *ParseError describing the first fatal problem.
func (p *Parser) Parse(src []byte) (*Instance, error) {
	a := newAssembly(p.opts)
	sc := NewScanner(src)
	for a.state != stateDone {
		ln, err := sc.Next()
		if err == nil {
			err = a.step(ln)
		}
		if err != nil {
			a.state = stateFailed
			return nil, err
		}
	}
	return a.result()
}

// ParseString is Parse for string input.
func (p *Parser) ParseString(src string) (*Instance, error) {
	return p.Parse([]byte(src))
}

// ParseReader reads r to the end and parses the result. Read errors are
// returned wrapped and are not *ParseError values.
func (p *Parser) ParseReader(r io.Reader) (*Instance, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading STP source: %w", err)
	}
	return p.Parse(src)
}

// state is the assembler's position in the section grammar.
type state int

const (
	stateAwaitingSection state = iota
	stateInSection
	stateSkipping
	stateDone
	stateFailed
)

var stateNames = map[state]string{
	stateAwaitingSection: "AwaitingSection",
	stateInSection:       "InSection",
	stateSkipping:        "Skipping",
	stateDone:            "Done",
	stateFailed:          "Failed",
}

func (s state) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// assembly is the state of a single Parse call.
type assembly struct {
	opts  Options
	state state
	inst  *Instance

	openName string
	openLine Line
	current  sectionParser
	seen     map[section]bool
	last     Line // line that ended the parse (EOF marker or end of input)

	// source lines of committed records, parallel to the Instance slices
	edgeSrc     []Line
	arcSrc      []Line
	terminalSrc []Line
	rootSrc     Line
}

func newAssembly(opts Options) *assembly {
	return &assembly{
		opts:  opts,
		state: stateAwaitingSection,
		inst:  &Instance{},
		seen:  make(map[section]bool),
	}
}

// step applies one scanned line to the state machine.
func (a *assembly) step(ln Line) error {
	switch a.state {
	case stateAwaitingSection:
		return a.awaiting(ln)
	case stateInSection:
		return a.inSection(ln)
	case stateSkipping:
		return a.skipping(ln)
	default:
		return fmt.Errorf("stp: step called in state %s", a.state)
	}
}

func (a *assembly) awaiting(ln Line) error {
	switch ln.Kind {
	case LineBlank:
		return nil
	case LineEOF:
		a.last = ln
		a.state = stateDone
		return nil
	case LineSectionStart:
		return a.openSection(ln)
	case LineSectionEnd:
		return errorAt(MalformedSectionMarker, ln, "%q without an open section", endKeyword)
	}

	kw := ln.Keyword()
	switch {
	case strings.EqualFold(kw, formatMagic):
		return nil
	case kw == eofMarker && len(ln.Tokens) == 1:
		a.last = ln
		a.state = stateDone
		return nil
	}
	return a.warn(UnexpectedRecord, ln, sectionUnknown, "record %q outside of any section", kw)
}

func (a *assembly) openSection(ln Line) error {
	sec := lookupSection(ln.Name, a.opts.FoldSectionCase)
	a.openName = ln.Name
	a.openLine = ln

	if sec == sectionUnknown {
		a.inst.SkippedSections = append(a.inst.SkippedSections, ln.Name)
		a.state = stateSkipping
		return nil
	}
	if a.seen[sec] {
		err := errorAt(DuplicateSection, ln, "section %s appears more than once", sec)
		err.Section = sec.String()
		return err
	}
	a.seen[sec] = true
	a.current = newSectionParser(sec, a, ln)
	a.state = stateInSection
	return nil
}

func (a *assembly) inSection(ln Line) error {
	switch ln.Kind {
	case LineBlank:
		return nil
	case LineRecord:
		return a.current.record(ln)
	case LineSectionEnd:
		if err := a.current.finish(ln); err != nil {
			return err
		}
		a.closeSection()
		return nil
	default:
		return a.unterminated(ln)
	}
}

func (a *assembly) skipping(ln Line) error {
	switch ln.Kind {
	case LineSectionEnd:
		a.closeSection()
		return nil
	case LineSectionStart, LineEOF:
		return a.unterminated(ln)
	default:
		return nil
	}
}

func (a *assembly) closeSection() {
	a.current = nil
	a.openName = ""
	a.state = stateAwaitingSection
}

// unterminated reports the open section; ln is the line that interrupted it.
func (a *assembly) unterminated(ln Line) error {
	where := "end of input"
	if ln.Kind != LineEOF {
		where = fmt.Sprintf("line %d", ln.Number)
	}
	return &ParseError{
		Kind:    UnterminatedSection,
		Line:    a.openLine.Number,
		Text:    a.openLine.Raw,
		Section: a.openName,
		Message: fmt.Sprintf("section %s opened on line %d has no %s before %s",
			a.openName, a.openLine.Number, endKeyword, where),
	}
}

// warn reports a non-fatal finding, or returns it as an error in strict mode.
func (a *assembly) warn(kind ErrorKind, ln Line, sec section, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	secName := ""
	if sec != sectionUnknown {
		secName = sec.String()
	}
	if a.opts.Strict {
		return &ParseError{Kind: kind, Line: ln.Number, Text: ln.Raw, Section: secName, Message: msg}
	}
	if a.opts.OnWarning != nil {
		a.opts.OnWarning(ParseWarning{Kind: kind, Line: ln.Number, Text: ln.Raw, Section: secName, Message: msg})
	}
	return nil
}

// result runs the cross-section checks and hands out the Instance.
func (a *assembly) result() (*Instance, error) {
	for _, sec := range []section{sectionGraph, sectionTerminals} {
		if !a.seen[sec] {
			return nil, &ParseError{
				Kind:    MissingSection,
				Line:    a.last.Number,
				Text:    a.last.Raw,
				Section: sec.String(),
				Message: fmt.Sprintf("required section %s not found", sec),
			}
		}
	}
	if err := a.checkReferences(); err != nil {
		return nil, err
	}
	if err := a.checkEdgePolicies(); err != nil {
		return nil, err
	}
	return a.inst, nil
}
