package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/probgraph/internal/graph"
)

// Harness replays one scenario against a fresh Factory.
type Harness struct {
	factory *graph.Factory
	logger  *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh Factory for isolation. Execution stops
// at the first failing step (a spent run has nothing more to record), then
// the outcome is compared against the scenario's expect clause.
//
// Run returns an error only for harness-level failures; an expectation
// mismatch is reported through Result.Pass and Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	h := &Harness{
		factory: graph.NewFactory(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	if err := h.executeSteps(scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	evaluate(scenario, result)
	return result, nil
}

// executeSteps replays the builder calls and the final build, recording the
// trace and the outcome. The first error ends the run: it becomes the
// outcome and no further steps execute.
func (h *Harness) executeSteps(steps []Step, result *Result) error {
	for i, step := range steps {
		id, err := h.executeStep(step)
		if err != nil {
			code := graph.CodeOf(err)
			if code == "" {
				return fmt.Errorf("step %d: unexpected non-graph error: %w", i, err)
			}
			result.addErrorTrace(i, step.Add, string(code))
			result.Outcome = string(code)
			h.logger.Info("step failed", "step", i, "kind", step.Add, "code", code)
			return nil
		}
		result.addStepTrace(i, step.Add, id)
		h.logger.Info("step completed", "step", i, "kind", step.Add, "id", id)
	}

	buildStep := len(steps)
	g, err := h.factory.Build()
	if err != nil {
		code := graph.CodeOf(err)
		if code == "" {
			return fmt.Errorf("build: unexpected non-graph error: %w", err)
		}
		result.addErrorTrace(buildStep, "build", string(code))
		result.Outcome = string(code)
		h.logger.Info("build failed", "code", code)
		return nil
	}

	id, err := graph.GraphID(g)
	if err != nil {
		return fmt.Errorf("build: compute graph id: %w", err)
	}
	result.Trace = append(result.Trace, TraceEvent{Step: buildStep, Kind: "build"})
	result.Outcome = OutcomeValid
	result.GraphID = id
	h.logger.Info("build completed", "graph_id", id, "nodes", g.Len())
	return nil
}

// executeStep dispatches one builder call. The returned id is the node's
// sequence number, except for query steps where it is the query index.
func (h *Harness) executeStep(step Step) (uint, error) {
	switch step.Add {
	case StepConstant:
		return h.factory.AddConstant(*step.Value)
	case StepOperator:
		op, _ := graph.ParseOperator(step.Op) // Validated at load
		return h.factory.AddOperator(op, step.Parents)
	case StepQuery:
		return h.factory.AddQuery(*step.Parent)
	default:
		return 0, fmt.Errorf("unknown step kind %q", step.Add)
	}
}

// evaluate compares the run's outcome against the expect clause.
func evaluate(scenario *Scenario, result *Result) {
	switch scenario.Expect.Outcome {
	case OutcomeValid:
		if result.Outcome != OutcomeValid {
			result.AddError(fmt.Sprintf("expected a valid graph, got error %s", result.Outcome))
		}
	case OutcomeError:
		if result.Outcome == OutcomeValid {
			result.AddError(fmt.Sprintf("expected error %s, got a valid graph", scenario.Expect.Code))
		} else if result.Outcome != scenario.Expect.Code {
			result.AddError(fmt.Sprintf("expected error %s, got %s", scenario.Expect.Code, result.Outcome))
		}
	}
}
