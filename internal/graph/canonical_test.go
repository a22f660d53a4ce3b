package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_ExactForm(t *testing.T) {
	f := NewFactory()
	_, err := f.AddConstant(0.5)
	require.NoError(t, err)
	_, err = f.AddOperator(OpBernoulli, []uint{0})
	require.NoError(t, err)
	_, err = f.AddOperator(OpSample, []uint{1})
	require.NoError(t, err)
	_, err = f.AddQuery(2)
	require.NoError(t, err)
	g, err := f.Build()
	require.NoError(t, err)

	canonical, err := MarshalCanonical(g)
	require.NoError(t, err)

	want := `[{"op":"CONSTANT","seq":0,"value":0.5},` +
		`{"op":"DISTRIBUTION_BERNOULLI","parents":[0],"seq":1},` +
		`{"op":"SAMPLE","parents":[1],"seq":2},` +
		`{"op":"QUERY","parents":[2],"query_index":0,"seq":3}]`
	assert.Equal(t, want, string(canonical))
}

func TestMarshalCanonical_IsValidJSON(t *testing.T) {
	g := buildCoinFlip(t)
	canonical, err := MarshalCanonical(g)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(canonical, &decoded))
	require.Len(t, decoded, g.Len())
	assert.Equal(t, "CONSTANT", decoded[0]["op"])
	assert.Equal(t, 2.0, decoded[0]["value"])
}

func TestMarshalCanonical_Deterministic(t *testing.T) {
	first, err := MarshalCanonical(buildCoinFlip(t))
	require.NoError(t, err)
	second, err := MarshalCanonical(buildCoinFlip(t))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMarshalCanonical_EmptyGraph(t *testing.T) {
	g, err := NewGraph(nil)
	require.NoError(t, err)

	canonical, err := MarshalCanonical(g)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(canonical))
}

func TestMarshalCanonical_ShortestFloats(t *testing.T) {
	f := NewFactory()
	_, err := f.AddConstant(1.0)
	require.NoError(t, err)
	_, err = f.AddConstant(0.1)
	require.NoError(t, err)
	g, err := f.Build()
	require.NoError(t, err)

	canonical, err := MarshalCanonical(g)
	require.NoError(t, err)
	assert.Contains(t, string(canonical), `"value":1}`)
	assert.Contains(t, string(canonical), `"value":0.1}`)
}
