// Package testutil provides deterministic graph fixtures shared by the
// store, harness, and CLI tests.
package testutil

import (
	"fmt"

	"github.com/roach88/probgraph/internal/graph"
)

// MustCoinFlip returns the canonical small test model:
// beta(2,5) -> sample -> query.
// Panics on construction failure; the fixture is known valid.
func MustCoinFlip() *graph.Graph {
	f := graph.NewFactory()
	a := mustAdd(f.AddConstant(2.0))
	b := mustAdd(f.AddConstant(5.0))
	dist := mustAdd(f.AddOperator(graph.OpBeta, []uint{a, b}))
	sample := mustAdd(f.AddOperator(graph.OpSample, []uint{dist}))
	mustAdd(f.AddQuery(sample))
	return mustBuild(f)
}

// MustAddChain returns a graph of n constants folded left with ADD, ending
// in a query of the final sum. n must be at least 1.
func MustAddChain(n int) *graph.Graph {
	if n < 1 {
		panic(fmt.Sprintf("testutil: chain length %d < 1", n))
	}
	f := graph.NewFactory()
	acc := mustAdd(f.AddConstant(1.0))
	for i := 1; i < n; i++ {
		next := mustAdd(f.AddConstant(float64(i + 1)))
		acc = mustAdd(f.AddOperator(graph.OpAdd, []uint{acc, next}))
	}
	mustAdd(f.AddQuery(acc))
	return mustBuild(f)
}

// MustAllOperators returns a graph exercising every operator exactly once:
// constants feed a normal distribution that is sampled, observed, combined
// with ADD/MULTIPLY through a bernoulli draw, and queried.
func MustAllOperators() *graph.Graph {
	f := graph.NewFactory()
	mean := mustAdd(f.AddConstant(0.0))
	stddev := mustAdd(f.AddConstant(1.0))
	normal := mustAdd(f.AddOperator(graph.OpNormal, []uint{mean, stddev}))
	sample := mustAdd(f.AddOperator(graph.OpSample, []uint{normal}))

	shapeA := mustAdd(f.AddConstant(2.0))
	shapeB := mustAdd(f.AddConstant(3.0))
	beta := mustAdd(f.AddOperator(graph.OpBeta, []uint{shapeA, shapeB}))
	prob := mustAdd(f.AddOperator(graph.OpSample, []uint{beta}))
	bern := mustAdd(f.AddOperator(graph.OpBernoulli, []uint{prob}))
	flip := mustAdd(f.AddOperator(graph.OpSample, []uint{bern}))

	sum := mustAdd(f.AddOperator(graph.OpAdd, []uint{sample, flip}))
	product := mustAdd(f.AddOperator(graph.OpMultiply, []uint{sum, sample}))

	observed := mustAdd(f.AddConstant(0.5))
	mustAdd(f.AddOperator(graph.OpObserve, []uint{normal, observed}))

	mustAdd(f.AddQuery(product))
	return mustBuild(f)
}

func mustAdd(id uint, err error) uint {
	if err != nil {
		panic(fmt.Sprintf("testutil: fixture construction failed: %v", err))
	}
	return id
}

func mustBuild(f *graph.Factory) *graph.Graph {
	g, err := f.Build()
	if err != nil {
		panic(fmt.Sprintf("testutil: fixture validation failed: %v", err))
	}
	return g
}
