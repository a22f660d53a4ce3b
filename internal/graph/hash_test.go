package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphID_Stable(t *testing.T) {
	first, err := GraphID(buildCoinFlip(t))
	require.NoError(t, err)
	second, err := GraphID(buildCoinFlip(t))
	require.NoError(t, err)

	assert.Equal(t, first, second, "same node sequence, same identity")
	assert.Len(t, first, 64, "hex-encoded SHA-256")
}

func TestGraphID_SensitiveToConstants(t *testing.T) {
	build := func(value float64) *Graph {
		f := NewFactory()
		_, err := f.AddConstant(value)
		require.NoError(t, err)
		g, err := f.Build()
		require.NoError(t, err)
		return g
	}

	assert.NotEqual(t, MustGraphID(build(1.0)), MustGraphID(build(2.0)))
}

func TestGraphID_SensitiveToOperator(t *testing.T) {
	build := func(op Operator) *Graph {
		f := NewFactory()
		a, err := f.AddConstant(1.0)
		require.NoError(t, err)
		b, err := f.AddConstant(2.0)
		require.NoError(t, err)
		_, err = f.AddOperator(op, []uint{a, b})
		require.NoError(t, err)
		g, err := f.Build()
		require.NoError(t, err)
		return g
	}

	assert.NotEqual(t, MustGraphID(build(OpAdd)), MustGraphID(build(OpMultiply)))
}

func TestGraphID_DomainSeparated(t *testing.T) {
	g, err := NewGraph(nil)
	require.NoError(t, err)

	id, err := GraphID(g)
	require.NoError(t, err)

	// The empty graph does not hash to a bare SHA-256 of "[]".
	assert.NotEqual(t, hashWithDomain("", []byte("[]")), id)
	assert.Equal(t, hashWithDomain(DomainGraph, []byte("[]")), id)
}
