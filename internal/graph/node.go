package graph

import (
	"fmt"
	"strings"
)

// Node is one instruction in the IR.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the validator and in backend consumers.
//
// Node variants:
//   - ConstantNode: a finite scalar constant
//   - OperatorNode: an operator applied to earlier nodes
//   - QueryNode: an OperatorNode specialization carrying a query index
//
// Every node uniformly reports its sequence number (its position in the
// owning graph's node list, which is also its identity), its operator, and
// its result type. Nodes are values: construction is the only write path,
// and nothing in this package mutates a node after it is appended.
type Node interface {
	// Sequence returns the node's position in the owning node list.
	Sequence() uint

	// Op returns the node's instruction kind.
	Op() Operator

	// Type returns the node's result type, determined by its operator.
	Type() Type

	node() // Marker method - seals interface to this package
}

// ConstantNode holds a scalar constant. Its operator is always CONSTANT and
// its type is always REAL. The value must be finite; that is enforced at
// validation time, not at construction.
type ConstantNode struct {
	Seq   uint
	Value float64
}

// Sequence returns the node's position in the owning node list.
func (n *ConstantNode) Sequence() uint { return n.Seq }

// Op returns OpConstant.
func (n *ConstantNode) Op() Operator { return OpConstant }

// Type returns TypeReal.
func (n *ConstantNode) Type() Type { return TypeReal }

func (*ConstantNode) node() {}

// OperatorNode applies a non-CONSTANT operator to an ordered sequence of
// operands. Operands are referenced by sequence number; order is significant
// and operator-specific (e.g. DISTRIBUTION_NORMAL is mean then stddev).
type OperatorNode struct {
	Seq      uint
	Operator Operator
	Parents  []uint
}

// Sequence returns the node's position in the owning node list.
func (n *OperatorNode) Sequence() uint { return n.Seq }

// Op returns the node's operator.
func (n *OperatorNode) Op() Operator { return n.Operator }

// Type returns the operator's declared result type.
func (n *OperatorNode) Type() Type { return ResultTypeOf(n.Operator) }

func (*OperatorNode) node() {}

// QueryNode marks a single REAL operand whose value inference must report
// back. QueryIndex is a dense, zero-based identifier assigned in creation
// order, distinct from the node's sequence number; inference engines use it
// to correlate results per query.
type QueryNode struct {
	Seq        uint
	Parent     uint
	QueryIndex int
}

// Sequence returns the node's position in the owning node list.
func (n *QueryNode) Sequence() uint { return n.Seq }

// Op returns OpQuery.
func (n *QueryNode) Op() Operator { return OpQuery }

// Type returns TypeNone.
func (n *QueryNode) Type() Type { return TypeNone }

func (*QueryNode) node() {}

// ParentsOf returns the operand references of n in operand order. Constants
// have none; a QueryNode has exactly its single parent. The returned slice
// is a copy.
func ParentsOf(n Node) []uint {
	switch node := n.(type) {
	case *OperatorNode:
		parents := make([]uint, len(node.Parents))
		copy(parents, node.Parents)
		return parents
	case *QueryNode:
		return []uint{node.Parent}
	default:
		return nil
	}
}

// FormatNode renders a node as a single human-readable line, e.g.
//
//	2 ADD REAL parents=[0 1]
//
// Used by the CLI show command and Graph.String.
func FormatNode(n Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s %s", n.Sequence(), n.Op(), n.Type())
	switch node := n.(type) {
	case *ConstantNode:
		fmt.Fprintf(&b, " value=%v", node.Value)
	case *OperatorNode:
		fmt.Fprintf(&b, " parents=%v", node.Parents)
	case *QueryNode:
		fmt.Fprintf(&b, " parents=[%d] query_index=%d", node.Parent, node.QueryIndex)
	}
	return b.String()
}
