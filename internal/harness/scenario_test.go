package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes scenario YAML to a temp file and returns its path.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "coinflip.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "coinflip", s.Name)
	assert.NotEmpty(t, s.Description)
	require.Len(t, s.Steps, 5)
	assert.Equal(t, StepConstant, s.Steps[0].Add)
	require.NotNil(t, s.Steps[0].Value)
	assert.Equal(t, 2.0, *s.Steps[0].Value)
	assert.Equal(t, "DISTRIBUTION_BETA", s.Steps[2].Op)
	assert.Equal(t, []uint{0, 1}, s.Steps[2].Parents)
	require.NotNil(t, s.Steps[4].Parent)
	assert.Equal(t, uint(3), *s.Steps[4].Parent)
	assert.Equal(t, OutcomeValid, s.Expect.Outcome)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: a typo in the steps key
stepz:
  - add: constant
    value: 1.0
expect:
  outcome: valid
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_MissingName(t *testing.T) {
	path := writeScenario(t, `
description: no name
steps:
  - add: constant
    value: 1.0
expect:
  outcome: valid
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestLoadScenario_ConstantWithoutValue(t *testing.T) {
	path := writeScenario(t, `
name: bad-constant
description: constant step missing its value
steps:
  - add: constant
expect:
  outcome: valid
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value is required")
}

func TestLoadScenario_UnknownOperator(t *testing.T) {
	path := writeScenario(t, `
name: bad-operator
description: operator step with an unknown operator name
steps:
  - add: operator
    op: DIVIDE
    parents: [0]
expect:
  outcome: valid
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operator")
}

func TestLoadScenario_UnknownStepKind(t *testing.T) {
	path := writeScenario(t, `
name: bad-kind
description: step with an unknown add kind
steps:
  - add: variable
expect:
  outcome: valid
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown step kind")
}

func TestLoadScenario_ErrorWithoutCode(t *testing.T) {
	path := writeScenario(t, `
name: no-code
description: error expectation missing the code
steps:
  - add: constant
    value: 1.0
expect:
  outcome: error
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code is required")
}

func TestLoadScenario_ValidWithCode(t *testing.T) {
	path := writeScenario(t, `
name: valid-with-code
description: valid expectation must not carry a code
steps:
  - add: constant
    value: 1.0
expect:
  outcome: valid
  code: VALUE
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code must be empty")
}

func TestLoadScenario_UnknownOutcome(t *testing.T) {
	path := writeScenario(t, `
name: bad-outcome
description: outcome must be valid or error
steps:
  - add: constant
    value: 1.0
expect:
  outcome: maybe
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown outcome")
}
