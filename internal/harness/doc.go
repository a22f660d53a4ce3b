// Package harness provides a conformance testing framework for the graph
// builder and validator.
//
// A scenario is a YAML file describing a sequence of builder steps (add a
// constant, add an operator, add a query) and the expected outcome: either a
// valid graph, or a specific error code from construction or validation. The
// harness replays the steps against a fresh Factory, records a trace of every
// step, and compares the outcome against the expect clause.
//
// Traces are deterministic, so scenarios double as golden-file tests: the
// same step sequence always yields the same trace bytes. See RunWithGolden.
package harness
