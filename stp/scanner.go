package stp

import (
	"bytes"
	"strings"
)

const (
	sectionKeyword = "SECTION"
	endKeyword     = "END"
	commentMarker  = "#"
)

var byteOrderMark = []byte("\ufeff")

// Scanner splits STP source into classified lines. Lines are produced on
// demand; Reset rewinds to the first line.
type Scanner struct {
	src    []byte
	pos    int // byte offset of the next unread line
	line   int // number of the last line returned
	peeked *Line
}

// NewScanner creates a Scanner over src. The slice is not copied and must not
// be modified while the Scanner is in use.
func NewScanner(src []byte) *Scanner {
	return &Scanner{src: src}
}

// Reset rewinds the scanner to the start of the source.
func (s *Scanner) Reset() {
	s.pos = 0
	s.line = 0
	s.peeked = nil
}

// Peek returns the next line without consuming it.
func (s *Scanner) Peek() (Line, error) {
	if s.peeked != nil {
		return *s.peeked, nil
	}
	ln, err := s.scan()
	if err != nil {
		return Line{}, err
	}
	s.peeked = &ln
	return ln, nil
}

// Next returns the next line and advances the scanner. At end of input it
// returns a Line of kind LineEOF numbered one past the last line.
func (s *Scanner) Next() (Line, error) {
	if s.peeked != nil {
		ln := *s.peeked
		s.peeked = nil
		return ln, nil
	}
	return s.scan()
}

func (s *Scanner) scan() (Line, error) {
	if s.pos >= len(s.src) {
		return Line{Kind: LineEOF, Number: s.line + 1}, nil
	}

	rest := s.src[s.pos:]
	var raw []byte
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		raw = rest[:i]
		s.pos += i + 1
	} else {
		raw = rest
		s.pos = len(s.src)
	}
	raw = bytes.TrimSuffix(raw, []byte{'\r'})
	if s.line == 0 {
		raw = bytes.TrimPrefix(raw, byteOrderMark)
	}
	s.line++

	return classify(s.line, string(raw))
}

// classify turns one raw line into a Line.
func classify(number int, raw string) (Line, error) {
	ln := Line{Number: number, Raw: raw}

	text := strings.TrimSpace(raw)
	if text == "" || strings.HasPrefix(text, commentMarker) {
		ln.Kind = LineBlank
		return ln, nil
	}

	fields := strings.Fields(text)
	switch fields[0] {
	case sectionKeyword:
		if len(fields) != 2 {
			return Line{}, errorAt(MalformedSectionMarker, ln,
				"expected %q followed by exactly one section name, got %d token(s)", sectionKeyword, len(fields)-1)
		}
		ln.Kind = LineSectionStart
		ln.Name = fields[1]
		return ln, nil
	case endKeyword:
		if len(fields) != 1 {
			return Line{}, errorAt(MalformedSectionMarker, ln,
				"%q must stand alone on its line", endKeyword)
		}
		ln.Kind = LineSectionEnd
		return ln, nil
	}

	ln.Kind = LineRecord
	ln.Tokens = fields
	return ln, nil
}
