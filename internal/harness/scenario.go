package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/probgraph/internal/graph"
)

// Scenario defines a conformance test scenario.
// Scenarios replay a sequence of builder steps against a fresh Factory and
// assert on the build outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden file
	// name, so it should be filesystem-safe.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps lists the builder calls, in order.
	Steps []Step `yaml:"steps"`

	// Expect specifies the expected outcome of the run.
	Expect ExpectClause `yaml:"expect"`
}

// Step represents a single builder call.
type Step struct {
	// Add selects the builder method: "constant", "operator" or "query".
	Add string `yaml:"add"`

	// Value is the constant's value. Required when Add is "constant".
	Value *float64 `yaml:"value,omitempty"`

	// Op is the operator wire name (e.g. "ADD", "DISTRIBUTION_BETA").
	// Required when Add is "operator".
	Op string `yaml:"op,omitempty"`

	// Parents are the operand references, in operand order.
	// Used when Add is "operator".
	Parents []uint `yaml:"parents,omitempty"`

	// Parent is the queried node. Required when Add is "query".
	Parent *uint `yaml:"parent,omitempty"`
}

// ExpectClause specifies the expected outcome.
type ExpectClause struct {
	// Outcome is either "valid" (the run builds a graph) or "error"
	// (a step or the final build fails).
	Outcome string `yaml:"outcome"`

	// Code is the expected error code when Outcome is "error"
	// (e.g. "TYPE_MISMATCH", "OUT_OF_RANGE").
	Code string `yaml:"code,omitempty"`
}

// Step and outcome constants.
const (
	StepConstant = "constant"
	StepOperator = "operator"
	StepQuery    = "query"

	OutcomeValid = "valid"
	OutcomeError = "error"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "step:" vs "steps:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	switch s.Expect.Outcome {
	case OutcomeValid:
		if s.Expect.Code != "" {
			return fmt.Errorf("expect: code must be empty when outcome is %q", OutcomeValid)
		}
	case OutcomeError:
		if s.Expect.Code == "" {
			return fmt.Errorf("expect: code is required when outcome is %q", OutcomeError)
		}
	case "":
		return fmt.Errorf("expect: outcome is required")
	default:
		return fmt.Errorf("expect: unknown outcome %q", s.Expect.Outcome)
	}

	return nil
}

// validateStep validates a single step based on its kind.
func validateStep(index int, step *Step) error {
	switch step.Add {
	case StepConstant:
		if step.Value == nil {
			return fmt.Errorf("steps[%d]: value is required for constant", index)
		}
	case StepOperator:
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required for operator", index)
		}
		if _, ok := graph.ParseOperator(step.Op); !ok {
			return fmt.Errorf("steps[%d]: unknown operator %q", index, step.Op)
		}
	case StepQuery:
		if step.Parent == nil {
			return fmt.Errorf("steps[%d]: parent is required for query", index)
		}
	case "":
		return fmt.Errorf("steps[%d]: add is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown step kind %q", index, step.Add)
	}
	return nil
}
