package stp

import "strings"

// LineKind classifies a scanned line.
type LineKind int

const (
	LineBlank        LineKind = iota // empty, whitespace-only or # comment
	LineSectionStart                 // SECTION <name>
	LineSectionEnd                   // END
	LineRecord                       // whitespace-separated data tokens
	LineEOF                          // end of input, never part of the source
)

var lineKindNames = map[LineKind]string{
	LineBlank:        "blank",
	LineSectionStart: "section start",
	LineSectionEnd:   "section end",
	LineRecord:       "record",
	LineEOF:          "end of input",
}

func (k LineKind) String() string {
	if name, ok := lineKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Line is a single classified line of STP source.
type Line struct {
	Kind   LineKind
	Number int      // 1-based line number
	Raw    string   // line text without the line terminator
	Name   string   // section name, set for LineSectionStart
	Tokens []string // data tokens, set for LineRecord
}

// Keyword returns the first token of a record, or "" for other kinds.
func (l Line) Keyword() string {
	if l.Kind != LineRecord || len(l.Tokens) == 0 {
		return ""
	}
	return l.Tokens[0]
}

// Rest returns the record text following the keyword with surrounding
// whitespace removed. Comment values keep their inner spacing this way.
func (l Line) Rest() string {
	kw := l.Keyword()
	if kw == "" {
		return ""
	}
	s := strings.TrimSpace(l.Raw)
	return strings.TrimSpace(strings.TrimPrefix(s, kw))
}
