package stp

// Adjacency returns neighbour lists indexed by node id (index 0 is unused).
// Edges and arcs both count, in both directions, and neighbours appear in
// input order. Endpoints outside [1, Nodes] are ignored.
func (in *Instance) Adjacency() [][]int {
	n := max(in.Nodes, 0)
	adj := make([][]int, n+1)
	in.eachEndpointPair(func(u, v int) {
		adj[u] = append(adj[u], v)
		if u != v {
			adj[v] = append(adj[v], u)
		}
	})
	return adj
}

// eachEndpointPair calls fn for every edge and arc whose endpoints are
// both in [1, Nodes].
func (in *Instance) eachEndpointPair(fn func(u, v int)) {
	visit := func(es []Edge) {
		for _, e := range es {
			if e.From < 1 || e.To < 1 || e.From > in.Nodes || e.To > in.Nodes {
				continue
			}
			fn(e.From, e.To)
		}
	}
	visit(in.Edges)
	visit(in.Arcs)
}

// Components returns the weakly connected components, each sorted by node
// id and ordered by their smallest node.
func (in *Instance) Components() [][]int {
	return newGraphFacts(in).components()
}

// TerminalsConnected reports whether all terminals lie in one component.
// Instances with fewer than two terminals are trivially connected.
func (in *Instance) TerminalsConnected() bool {
	if len(in.Terminals) < 2 {
		return true
	}
	return len(newGraphFacts(in).terminalGroups()) == 1
}

// Degree returns the number of edge and arc endpoints at node id. A
// self-loop counts twice.
func (in *Instance) Degree(id int) int {
	d := 0
	for _, es := range [][]Edge{in.Edges, in.Arcs} {
		for _, e := range es {
			if e.From == id {
				d++
			}
			if e.To == id {
				d++
			}
		}
	}
	return d
}

// graphFacts holds per-node data derived once from an instance so the lint
// rules stay linear in its size.
type graphFacts struct {
	in       *Instance
	adj      [][]int
	degrees  []int
	terminal []bool
	comps    [][]int
}

func newGraphFacts(in *Instance) *graphFacts {
	n := max(in.Nodes, 0)
	f := &graphFacts{
		in:       in,
		adj:      in.Adjacency(),
		degrees:  make([]int, n+1),
		terminal: make([]bool, n+1),
	}
	in.eachEndpointPair(func(u, v int) {
		f.degrees[u]++
		f.degrees[v]++
	})
	for _, t := range in.Terminals {
		if t >= 1 && t <= n {
			f.terminal[t] = true
		}
	}
	return f
}

func (f *graphFacts) degree(id int) int {
	if id < 1 || id >= len(f.degrees) {
		return 0
	}
	return f.degrees[id]
}

func (f *graphFacts) components() [][]int {
	if f.comps != nil {
		return f.comps
	}
	n := len(f.adj) - 1
	comp := make([]int, n+1) // 0 = unvisited, else component number
	var out [][]int
	for start := 1; start <= n; start++ {
		if comp[start] != 0 {
			continue
		}
		id := len(out) + 1
		comp[start] = id
		queue := []int{start}
		for i := 0; i < len(queue); i++ {
			for _, nb := range f.adj[queue[i]] {
				if comp[nb] == 0 {
					comp[nb] = id
					queue = append(queue, nb)
				}
			}
		}
		out = append(out, nil)
	}
	for v := 1; v <= n; v++ {
		out[comp[v]-1] = append(out[comp[v]-1], v)
	}
	f.comps = out
	return out
}

// terminalGroups groups terminals by component, in order of the component's
// smallest node.
func (f *graphFacts) terminalGroups() [][]int {
	var groups [][]int
	for _, c := range f.components() {
		var ts []int
		for _, v := range c {
			if f.terminal[v] {
				ts = append(ts, v)
			}
		}
		if len(ts) > 0 {
			groups = append(groups, ts)
		}
	}
	return groups
}
