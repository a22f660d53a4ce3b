package graph

import "math"

// Validate proves that a candidate node sequence is a legal program.
//
// It is a single linear pass over the sequence; each node is validated once
// its position is reached, which suffices because every operand must carry a
// smaller sequence number. Per node, in order:
//
//  1. Positional identity: the node at index i must report sequence i.
//  2. Reference well-formedness: every operand must resolve to a strictly
//     smaller sequence number. A reference to the node itself, a later node,
//     or a nonexistent index is rejected. This single rule is what makes the
//     whole graph acyclic by construction.
//  3. Arity: operand count must equal the operator's declared arity.
//  4. Types: each operand's declared type must equal the required type at
//     that position in the signature table.
//  5. Query density: query indices, in creation order, must form the dense
//     sequence 0..Q-1 with no gaps or duplicates.
//  6. Constant finiteness: a constant's value must not be NaN or infinite.
//
// Distribution parameter ranges (stddev > 0, probability in [0,1], beta
// shapes) are NOT checked; only types are. Range validity belongs to a
// separate semantic checker layered on top, if one is ever needed.
//
// Validate is pure and deterministic: it performs no I/O, does not mutate
// its input, and returns the same first-encountered *GraphError for the same
// node sequence every time. It never returns success for an invalid
// sequence, and no partial graph is ever produced.
func Validate(nodes []Node) error {
	nextQuery := 0
	for i, n := range nodes {
		if n == nil {
			return NewStructuralError(i, "nil node")
		}
		if n.Sequence() != uint(i) {
			return NewStructuralError(i, "node reports sequence %d at position %d", n.Sequence(), i)
		}

		switch node := n.(type) {
		case *ConstantNode:
			if math.IsNaN(node.Value) || math.IsInf(node.Value, 0) {
				return NewValueError(i, node.Value)
			}

		case *OperatorNode:
			// CONSTANT must be a ConstantNode and QUERY a QueryNode; an
			// OperatorNode carrying either is a fabricated sequence.
			if node.Operator == OpConstant || node.Operator == OpQuery {
				return NewStructuralError(i, "operator node cannot carry %s", node.Operator)
			}
			if err := checkOperands(i, node.Operator, node.Parents, nodes); err != nil {
				return err
			}

		case *QueryNode:
			if err := checkOperands(i, OpQuery, []uint{node.Parent}, nodes); err != nil {
				return err
			}
			if node.QueryIndex != nextQuery {
				return NewQueryIndexError(i, node.QueryIndex, nextQuery)
			}
			nextQuery++

		default:
			return NewStructuralError(i, "unknown node variant %T", n)
		}
	}
	return nil
}

// checkOperands enforces reference well-formedness, arity, and operand types
// for the node at index i against op's declared signature.
func checkOperands(i int, op Operator, parents []uint, nodes []Node) error {
	if !op.Valid() {
		return NewStructuralError(i, "unknown operator %d", int(op))
	}

	// Strictly-earlier references. p < i implies the operand exists, so a
	// separate existence check is unnecessary.
	for _, p := range parents {
		if p >= uint(i) {
			return NewStructuralError(i, "operand %d does not precede node %d", p, i)
		}
	}

	sig := signatures[op]
	if len(parents) != len(sig.Inputs) {
		return NewArityError(i, op, len(parents), len(sig.Inputs))
	}

	for pos, p := range parents {
		if got := nodes[p].Type(); got != sig.Inputs[pos] {
			return NewTypeError(i, op, pos, got, sig.Inputs[pos])
		}
	}
	return nil
}
