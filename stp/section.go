package stp

import "strings"

// section tags the grammar that applies to the lines of an open section.
type section int

const (
	sectionUnknown section = iota
	sectionComment
	sectionGraph
	sectionTerminals
)

var sectionNames = map[section]string{
	sectionComment:   "Comment",
	sectionGraph:     "Graph",
	sectionTerminals: "Terminals",
}

func (s section) String() string {
	if name, ok := sectionNames[s]; ok {
		return name
	}
	return "Unknown"
}

// lookupSection maps a section name to its tag. Names not in sectionNames
// map to sectionUnknown.
func lookupSection(name string, fold bool) section {
	for sec, canonical := range sectionNames {
		if name == canonical || (fold && strings.EqualFold(name, canonical)) {
			return sec
		}
	}
	return sectionUnknown
}

// sectionParser consumes the records of one open section.
type sectionParser interface {
	// record handles one LineRecord inside the section.
	record(ln Line) error
	// finish runs on the closing END line and commits the section's data.
	finish(end Line) error
}

func newSectionParser(sec section, a *assembly, start Line) sectionParser {
	switch sec {
	case sectionComment:
		return &commentSection{a: a}
	case sectionGraph:
		return &graphSection{a: a, start: start}
	case sectionTerminals:
		return &terminalsSection{a: a, start: start}
	default:
		return nil
	}
}
