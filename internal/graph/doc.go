// Package graph provides the intermediate representation for probabilistic
// programs: a typed, immutable DAG of scalar constants, arithmetic operators,
// probability distributions, and the sample/observe/query operations that
// connect a model to inference.
//
// This package is the foundational layer. All other internal packages import
// graph; graph imports nothing internal. A Graph is the only artifact
// downstream consumers (inference engines, code generators) receive, and the
// only way to produce one is through successful validation — either by
// driving a Factory and calling Build, or by handing a node list to NewGraph.
// Consumers therefore never re-check acyclicity, arity, or type correctness.
//
// Key design constraints:
//   - Nodes reference operands by sequence number (position in the owning
//     node list), never by pointer. "Operand precedes use" is checked in one
//     linear pass; no cycle-detection traversal exists or is needed.
//   - The builder (Factory) and the product (Graph) are distinct types. A
//     Graph is never mutated after validation; a Factory is consumed by Build.
//   - Validation is pure, deterministic, and fails on the first violation.
package graph
