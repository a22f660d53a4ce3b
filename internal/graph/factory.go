package graph

// Factory assembles a graph incrementally. It is a mutable staging area
// owned by a single caller: nodes are appended one at a time, each append
// returns the new node's identifier (its sequence number) for use as a
// future operand, and Build consumes the Factory and runs validation.
//
// Per-call methods fail fast on malformed arguments they can check locally
// (unknown operator, operand id not issued yet, consumed factory). All
// cross-node checking - acyclicity, arity, operand types, query density,
// constant finiteness - is deferred to the single validation pass in Build.
//
// A Factory is intended for exclusive use by one goroutine. After Build it
// is consumed: every further call returns a FACTORY_CONSUMED error.
type Factory struct {
	nodes     []Node
	nextQuery int
	consumed  bool
}

// NewFactory creates an empty Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Len returns the number of nodes appended so far.
func (f *Factory) Len() int {
	return len(f.nodes)
}

// AddConstant appends a ConstantNode with the next sequence number and
// returns its identifier. The value is not range-checked here; finiteness
// (no NaN, no infinities) is enforced at validation.
func (f *Factory) AddConstant(value float64) (uint, error) {
	if f.consumed {
		return 0, NewFactoryConsumedError()
	}
	seq := uint(len(f.nodes))
	f.nodes = append(f.nodes, &ConstantNode{Seq: seq, Value: value})
	return seq, nil
}

// AddOperator appends an OperatorNode referencing the nodes at parents, in
// operand order, and returns its identifier. Each parent must already exist
// in the Factory. op must be a non-CONSTANT, non-QUERY operator: constants
// go through AddConstant and queries through AddQuery, so that every query
// carries an index.
//
// The node's type is fixed immediately from the operator's declared result
// type, independent of whether the parents are themselves valid; full
// cross-checking happens at Build.
func (f *Factory) AddOperator(op Operator, parents []uint) (uint, error) {
	if f.consumed {
		return 0, NewFactoryConsumedError()
	}
	if !op.Valid() || op == OpConstant || op == OpQuery {
		return 0, NewStructuralError(len(f.nodes), "operator %s cannot be added via AddOperator", op)
	}
	for _, p := range parents {
		if p >= uint(len(f.nodes)) {
			return 0, NewOutOfRangeError(p, len(f.nodes))
		}
	}
	seq := uint(len(f.nodes))
	owned := make([]uint, len(parents))
	copy(owned, parents)
	f.nodes = append(f.nodes, &OperatorNode{Seq: seq, Operator: op, Parents: owned})
	return seq, nil
}

// AddQuery appends a QueryNode wrapping a single operand and assigns it the
// next query index (0, 1, 2, ... in creation order). It returns that query
// index - distinct from the node's sequence number - so the caller can
// correlate inference results per query.
func (f *Factory) AddQuery(parent uint) (uint, error) {
	if f.consumed {
		return 0, NewFactoryConsumedError()
	}
	if parent >= uint(len(f.nodes)) {
		return 0, NewOutOfRangeError(parent, len(f.nodes))
	}
	seq := uint(len(f.nodes))
	queryIndex := f.nextQuery
	f.nextQuery++
	f.nodes = append(f.nodes, &QueryNode{Seq: seq, Parent: parent, QueryIndex: queryIndex})
	return uint(queryIndex), nil
}

// GetNode returns the previously added node with the given identifier.
func (f *Factory) GetNode(id uint) (Node, error) {
	if f.consumed {
		return nil, NewFactoryConsumedError()
	}
	if id >= uint(len(f.nodes)) {
		return nil, NewOutOfRangeError(id, len(f.nodes))
	}
	return f.nodes[id], nil
}

// Build consumes the Factory and validates the accumulated node list.
// On success it returns the immutable Graph; on failure it returns exactly
// one first-encountered GraphError and no graph. Either way the Factory is
// spent: there is no path back to building, the caller starts a new Factory.
func (f *Factory) Build() (*Graph, error) {
	if f.consumed {
		return nil, NewFactoryConsumedError()
	}
	f.consumed = true
	nodes := f.nodes
	f.nodes = nil
	return NewGraph(nodes)
}
