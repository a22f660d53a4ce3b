package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces the canonical JSON form of a graph: a JSON array
// with one object per node, in sequence order, with a fixed key order per
// variant. This is the ONLY serialization that should be used for
// content-addressed identity computation (see GraphID).
//
// Canonical form rules:
//  1. Object keys are emitted in fixed lexicographic order
//     (op, parents, query_index, seq, value).
//  2. Strings are NFC normalized and not HTML-escaped.
//  3. Floats use the shortest representation that round-trips a float64.
//     Non-finite values are rejected, but a validated Graph never holds one.
//
// Example:
//
//	[{"op":"CONSTANT","seq":0,"value":0.5},
//	 {"op":"DISTRIBUTION_BERNOULLI","parents":[0],"seq":1}]
func MarshalCanonical(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, n := range g.nodes {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonicalNode(&buf, n); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// writeCanonicalNode emits one node object with fixed key order.
func writeCanonicalNode(buf *bytes.Buffer, n Node) error {
	buf.WriteByte('{')

	buf.WriteString(`"op":`)
	opName, err := canonicalString(n.Op().String())
	if err != nil {
		return err
	}
	buf.Write(opName)

	switch node := n.(type) {
	case *ConstantNode:
		fmt.Fprintf(buf, `,"seq":%d`, node.Seq)
		buf.WriteString(`,"value":`)
		value, err := canonicalFloat(node.Value)
		if err != nil {
			return err
		}
		buf.Write(value)

	case *OperatorNode:
		buf.WriteString(`,"parents":`)
		writeCanonicalParents(buf, node.Parents)
		fmt.Fprintf(buf, `,"seq":%d`, node.Seq)

	case *QueryNode:
		buf.WriteString(`,"parents":`)
		writeCanonicalParents(buf, []uint{node.Parent})
		fmt.Fprintf(buf, `,"query_index":%d,"seq":%d`, node.QueryIndex, node.Seq)

	default:
		return fmt.Errorf("unknown node variant %T", n)
	}

	buf.WriteByte('}')
	return nil
}

// writeCanonicalParents emits a parent list as a JSON array of integers.
func writeCanonicalParents(buf *bytes.Buffer, parents []uint) {
	buf.WriteByte('[')
	for i, p := range parents {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(buf, "%d", p)
	}
	buf.WriteByte(']')
}

// canonicalString produces a canonical JSON string: NFC normalized at the
// serialization boundary, with HTML escaping disabled so <, >, and & pass
// through unescaped.
func canonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds a trailing newline, remove it
	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}
	return result, nil
}

// canonicalFloat produces the shortest decimal representation that
// round-trips the float64. NaN and infinities have no JSON form and are
// rejected; validation guarantees they never reach this point.
func canonicalFloat(v float64) ([]byte, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("non-finite value %v has no canonical form", v)
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}
