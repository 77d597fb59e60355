package models

// AdjacencyIndex holds directed edges between discovered papers.
// Out[a] lists papers a cites; In[a] lists papers citing a.
// Keys exist only for papers with at least one edge in that direction.
type AdjacencyIndex struct {
	Out map[NodeID][]NodeID `json:"out"`
	In  map[NodeID][]NodeID `json:"in"`
}

// Edge is a single directed "cites" relationship.
type Edge struct {
	Source NodeID `json:"source"`
	Target NodeID `json:"target"`
}

// NewAdjacencyIndex creates an empty index.
func NewAdjacencyIndex() *AdjacencyIndex {
	return &AdjacencyIndex{
		Out: make(map[NodeID][]NodeID),
		In:  make(map[NodeID][]NodeID),
	}
}

// OutEdges returns the papers id cites.
func (a *AdjacencyIndex) OutEdges(id NodeID) []NodeID {
	if a == nil {
		return nil
	}

	return a.Out[id]
}

// InEdges returns the papers citing id.
func (a *AdjacencyIndex) InEdges(id NodeID) []NodeID {
	if a == nil {
		return nil
	}

	return a.In[id]
}

// EdgeCount returns the number of out-edge entries, parallel edges included.
func (a *AdjacencyIndex) EdgeCount() int {
	if a == nil {
		return 0
	}

	n := 0
	for _, targets := range a.Out {
		n += len(targets)
	}

	return n
}

// Edges flattens Out into source/target pairs, walking sources in the given order.
func (a *AdjacencyIndex) Edges(order []NodeID) []Edge {
	edges := make([]Edge, 0, a.EdgeCount())
	if a == nil {
		return edges
	}

	for _, src := range order {
		for _, dst := range a.Out[src] {
			edges = append(edges, Edge{Source: src, Target: dst})
		}
	}

	return edges
}
