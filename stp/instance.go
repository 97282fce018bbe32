package stp

// Edge is a weighted connection between two 1-based node ids. In
// Instance.Edges it is undirected; in Instance.Arcs it points From -> To.
type Edge struct {
	From int     `json:"from" yaml:"from"`
	To   int     `json:"to" yaml:"to"`
	Cost float64 `json:"cost" yaml:"cost"`
}

// IsSelfLoop reports whether both endpoints are the same node.
func (e Edge) IsSelfLoop() bool { return e.From == e.To }

// key returns the endpoints with the smaller id first.
func (e Edge) key() [2]int {
	if e.From <= e.To {
		return [2]int{e.From, e.To}
	}
	return [2]int{e.To, e.From}
}

// Field is a Comment section entry without a dedicated Metadata field.
type Field struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Metadata holds the free-text Comment section.
type Metadata struct {
	Name    string  `json:"name,omitempty" yaml:"name,omitempty"`
	Creator string  `json:"creator,omitempty" yaml:"creator,omitempty"`
	Remark  string  `json:"remark,omitempty" yaml:"remark,omitempty"`
	Problem string  `json:"problem,omitempty" yaml:"problem,omitempty"`
	Fields  []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Field looks up a metadata entry by key, including the dedicated fields.
func (m Metadata) Field(key string) (string, bool) {
	switch key {
	case "Name":
		return m.Name, m.Name != ""
	case "Creator":
		return m.Creator, m.Creator != ""
	case "Remark":
		return m.Remark, m.Remark != ""
	case "Problem":
		return m.Problem, m.Problem != ""
	}
	for i := len(m.Fields) - 1; i >= 0; i-- {
		if m.Fields[i].Key == key {
			return m.Fields[i].Value, true
		}
	}
	return "", false
}

// Instance is a parsed Steiner tree problem instance.
type Instance struct {
	Nodes     int    `json:"nodes" yaml:"nodes"`
	Edges     []Edge `json:"edges" yaml:"edges"`
	Arcs      []Edge `json:"arcs,omitempty" yaml:"arcs,omitempty"`
	Obstacles int    `json:"obstacles,omitempty" yaml:"obstacles,omitempty"`
	Terminals []int  `json:"terminals" yaml:"terminals"`
	Root      int    `json:"root,omitempty" yaml:"root,omitempty"` // 0 when the instance is unrooted

	Metadata        Metadata `json:"metadata" yaml:"metadata"`
	SkippedSections []string `json:"skipped_sections,omitempty" yaml:"skipped_sections,omitempty"`
}

// EdgeCount returns the number of undirected edges.
func (in *Instance) EdgeCount() int { return len(in.Edges) }

// ArcCount returns the number of directed arcs.
func (in *Instance) ArcCount() int { return len(in.Arcs) }

// TerminalCount returns the number of distinct terminals.
func (in *Instance) TerminalCount() int { return len(in.Terminals) }

// IsTerminal reports whether node id is a terminal.
func (in *Instance) IsTerminal(id int) bool {
	for _, t := range in.Terminals {
		if t == id {
			return true
		}
	}
	return false
}

// TotalCost sums the cost of all edges and arcs.
func (in *Instance) TotalCost() float64 {
	var sum float64
	for _, e := range in.Edges {
		sum += e.Cost
	}
	for _, a := range in.Arcs {
		sum += a.Cost
	}
	return sum
}
