package harness

// TraceEvent records one builder call (or the final build) in the trace.
type TraceEvent struct {
	// Step is the zero-based step index. The final build event uses the
	// index one past the last step.
	Step int `json:"step"`

	// Kind is "constant", "operator", "query" or "build".
	Kind string `json:"kind"`

	// ID is the identifier the builder returned: the node's sequence number
	// for constants and operators, the query index for queries. Nil for the
	// build event and for steps that failed.
	ID *uint `json:"id,omitempty"`

	// Err is the error code when the step failed, empty otherwise.
	Err string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates whether the run matched the scenario's expect clause.
	Pass bool `json:"pass"`

	// Outcome is "valid" when the run built a graph, or the error code of
	// the first failure.
	Outcome string `json:"outcome"`

	// GraphID is the built graph's content-addressed id. Empty on failure.
	GraphID string `json:"graph_id,omitempty"`

	// Trace contains every builder call in order, plus the build event.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation mismatch messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds an expectation mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addStepTrace records a successful builder call.
func (r *Result) addStepTrace(step int, kind string, id uint) {
	r.Trace = append(r.Trace, TraceEvent{Step: step, Kind: kind, ID: &id})
}

// addErrorTrace records a failed builder call or build.
func (r *Result) addErrorTrace(step int, kind, code string) {
	r.Trace = append(r.Trace, TraceEvent{Step: step, Kind: kind, Err: code})
}
