package graph

// Stats summarizes a graph snapshot.
type Stats struct {
	Nodes map[NodeKind]int
	Edges map[EdgeKind]int
	// DanglingTargets counts edges whose target has no node. These are expected
	// for calls and are reported, never rejected.
	DanglingTargets int
}

func (g *Graph) Stats() Stats {
	s := Stats{
		Nodes: make(map[NodeKind]int),
		Edges: make(map[EdgeKind]int),
	}
	if g == nil {
		return s
	}
	ids := g.NodeIDs()
	for _, n := range g.Nodes {
		s.Nodes[n.Kind]++
	}
	for _, e := range g.Edges {
		s.Edges[e.Kind]++
		if _, ok := ids[e.Target]; !ok {
			s.DanglingTargets++
		}
	}
	return s
}

// TotalNodes returns the number of node records.
func (s Stats) TotalNodes() int {
	total := 0
	for _, c := range s.Nodes {
		total += c
	}
	return total
}

// TotalEdges returns the number of edge records.
func (s Stats) TotalEdges() int {
	total := 0
	for _, c := range s.Edges {
		total += c
	}
	return total
}
