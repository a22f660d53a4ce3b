package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadTestScenario loads a scenario from testdata/scenarios.
func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)
	return s
}

func floatPtr(v float64) *float64 { return &v }
func uintPtr(v uint) *uint        { return &v }

func TestRun_CoinFlip_Scenario(t *testing.T) {
	result, err := Run(loadTestScenario(t, "coinflip.yaml"))
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	assert.Equal(t, OutcomeValid, result.Outcome)
	assert.Len(t, result.GraphID, 64, "content-addressed id is hex sha-256")

	// Five steps plus the build event.
	require.Len(t, result.Trace, 6)
	assert.Equal(t, "build", result.Trace[5].Kind)
	assert.Empty(t, result.Trace[5].Err)

	// The query step reports its query index, not the node's sequence.
	require.NotNil(t, result.Trace[4].ID)
	assert.Equal(t, uint(0), *result.Trace[4].ID)
}

func TestRun_BuildError_Scenario(t *testing.T) {
	result, err := Run(loadTestScenario(t, "sample-of-real.yaml"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "expected error matched")
	assert.Equal(t, "TYPE_MISMATCH", result.Outcome)
	assert.Empty(t, result.GraphID)

	require.Len(t, result.Trace, 3)
	assert.Equal(t, "build", result.Trace[2].Kind)
	assert.Equal(t, "TYPE_MISMATCH", result.Trace[2].Err)
}

func TestRun_ConstructionError_Scenario(t *testing.T) {
	result, err := Run(loadTestScenario(t, "forward-reference.yaml"))
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Equal(t, "OUT_OF_RANGE", result.Outcome)

	// The failing step ends the run; there is no build event.
	require.Len(t, result.Trace, 1)
	assert.Equal(t, StepOperator, result.Trace[0].Kind)
	assert.Equal(t, "OUT_OF_RANGE", result.Trace[0].Err)
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	scenario := &Scenario{
		Name:        "stops-at-first-failure",
		Description: "steps after a construction failure do not execute",
		Steps: []Step{
			{Add: StepConstant, Value: floatPtr(1.0)},
			{Add: StepOperator, Op: "ADD", Parents: []uint{0, 9}},
			{Add: StepConstant, Value: floatPtr(2.0)},
		},
		Expect: ExpectClause{Outcome: OutcomeError, Code: "OUT_OF_RANGE"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	require.Len(t, result.Trace, 2, "third step never ran")
	assert.Equal(t, "OUT_OF_RANGE", result.Trace[1].Err)
}

func TestRun_ExpectationMismatch_ExpectedValid(t *testing.T) {
	scenario := &Scenario{
		Name:        "expected-valid",
		Description: "run fails when an expected-valid scenario errors",
		Steps: []Step{
			{Add: StepConstant, Value: floatPtr(0.5)},
			{Add: StepOperator, Op: "SAMPLE", Parents: []uint{0}},
		},
		Expect: ExpectClause{Outcome: OutcomeValid},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected a valid graph")
	assert.Contains(t, result.Errors[0], "TYPE_MISMATCH")
}

func TestRun_ExpectationMismatch_ExpectedError(t *testing.T) {
	scenario := &Scenario{
		Name:        "expected-error",
		Description: "run fails when an expected-error scenario builds",
		Steps: []Step{
			{Add: StepConstant, Value: floatPtr(1.0)},
			{Add: StepQuery, Parent: uintPtr(0)},
		},
		Expect: ExpectClause{Outcome: OutcomeError, Code: "TYPE_MISMATCH"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "got a valid graph")
}

func TestRun_ExpectationMismatch_WrongCode(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong-code",
		Description: "run fails when the error code differs from the expected one",
		Steps: []Step{
			{Add: StepConstant, Value: floatPtr(0.5)},
			{Add: StepOperator, Op: "SAMPLE", Parents: []uint{0}},
		},
		Expect: ExpectClause{Outcome: OutcomeError, Code: "ARITY"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected error ARITY, got TYPE_MISMATCH")
}

func TestRun_Deterministic(t *testing.T) {
	scenario := loadTestScenario(t, "coinflip.yaml")

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
