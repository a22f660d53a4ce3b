package graph

import "strings"

// Graph is an immutable, ordered sequence of nodes forming a validated
// probabilistic program. The sequence is a total order consistent with data
// dependency: node i's operands all have sequence < i, so read-only
// traversal in sequence order is a valid evaluation order.
//
// A Graph is only producible through successful validation (NewGraph or
// Factory.Build) and is never mutated afterward, so it is safe to share
// across any number of concurrent readers without synchronization.
type Graph struct {
	nodes      []Node
	queryCount int
}

// NewGraph validates the node sequence and, only on success, returns the
// immutable Graph owning it. The input slice is copied; callers keeping a
// reference to nodes cannot alter the graph through it.
func NewGraph(nodes []Node) (*Graph, error) {
	owned := make([]Node, len(nodes))
	copy(owned, nodes)
	if err := Validate(owned); err != nil {
		return nil, err
	}
	queries := 0
	for _, n := range owned {
		if _, ok := n.(*QueryNode); ok {
			queries++
		}
	}
	return &Graph{nodes: owned, queryCount: queries}, nil
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node at sequence number id.
func (g *Graph) Node(id uint) (Node, error) {
	if id >= uint(len(g.nodes)) {
		return nil, NewOutOfRangeError(id, len(g.nodes))
	}
	return g.nodes[id], nil
}

// Nodes returns the node list in sequence order. The returned slice is a
// copy; mutating it does not affect the graph.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// QueryCount returns the number of query nodes. Their query indices are
// exactly 0..QueryCount()-1.
func (g *Graph) QueryCount() int {
	return g.queryCount
}

// String renders the graph as one FormatNode line per node, in sequence
// order.
func (g *Graph) String() string {
	var b strings.Builder
	for i, n := range g.nodes {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(FormatNode(n))
	}
	return b.String()
}
