// Package compiler turns CUE model definitions into validated graphs.
//
// A model file declares nodes under model.<name>.nodes as a flat list in
// dependency order; each entry names an operator and, depending on the kind,
// a constant value or a list of parent indices:
//
//	model: coinflip: {
//		nodes: [
//			{op: "CONSTANT", value: 2.0},
//			{op: "CONSTANT", value: 5.0},
//			{op: "DISTRIBUTION_BETA", parents: [0, 1]},
//			{op: "SAMPLE", parents: [2]},
//			{op: "QUERY", parents: [3]},
//		]
//	}
//
// The compiler drives a graph.Factory from the list and returns the
// validated Graph. Structural and type errors surface as graph.GraphError;
// malformed CUE surfaces as CompileError with source position.
package compiler
