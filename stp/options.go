package stp

import "fmt"

// ParseWarning is a non-fatal finding reported while parsing. In strict mode the
// same conditions are returned as errors instead.
type ParseWarning struct {
	Kind    ErrorKind
	Line    int
	Text    string
	Section string
	Message string
}

func (w ParseWarning) String() string {
	return fmt.Sprintf("line %d: %s: %s", w.Line, w.Kind, w.Message)
}

// Options configures a Parser. The zero value is the lenient canonical
// SteinLib reading.
type Options struct {
	// Strict promotes warnings (unsupported directives, stray records,
	// repeated terminals) to errors.
	Strict bool

	// FoldSectionCase matches section names case-insensitively in addition
	// to the canonical spelling.
	FoldSectionCase bool

	// DefaultCost, when non-nil, is used for E and A records that omit the
	// cost column.
	DefaultCost *float64

	// MaxNodes caps the Nodes header. Zero means DefaultMaxNodes. Node ids
	// index dense per-node slices, so the cap bounds memory use.
	MaxNodes int

	RejectSelfLoops      bool
	RejectDuplicateEdges bool
	RejectZeroCost       bool
	RejectNegativeCost   bool

	// OnWarning receives warnings in input order. It may be nil.
	OnWarning func(ParseWarning)
}

// DefaultMaxNodes is the Nodes cap used when Options.MaxNodes is zero. It is
// well above the largest SteinLib instance.
const DefaultMaxNodes = 1 << 24

func (o Options) nodeLimit() int {
	if o.MaxNodes > 0 {
		return o.MaxNodes
	}
	return DefaultMaxNodes
}

// UnitCost returns a pointer to 1, the cost most tools assume when an edge
// has none.
func UnitCost() *float64 {
	c := 1.0
	return &c
}
