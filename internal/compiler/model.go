package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/probgraph/internal/graph"
)

// Model is a named, validated graph compiled from a CUE model definition.
type Model struct {
	Name  string
	Graph *graph.Graph
}

// CompileModel parses a CUE value into a validated Model.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the model struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`model: coinflip: {nodes: [...]}`)
//	m, err := CompileModel(v.LookupPath(cue.ParsePath("model.coinflip")))
//
// Node entries are fed to a graph.Factory in list order, so parent indices
// are exactly the identifiers the Factory issues. Graph validation errors
// (structural, arity, type, query index, value) are returned as-is, never
// downgraded to compile errors.
func CompileModel(v cue.Value) (*Model, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	m := &Model{}

	// Model name comes from the struct label (the path selector).
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		m.Name = labels[len(labels)-1].String()
	}

	nodesVal := v.LookupPath(cue.ParsePath("nodes"))
	if !nodesVal.Exists() {
		return nil, &CompileError{
			Field:   "nodes",
			Message: "nodes list is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := nodesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	f := graph.NewFactory()
	index := 0
	for iter.Next() {
		if err := compileNode(f, index, iter.Value()); err != nil {
			return nil, err
		}
		index++
	}

	g, err := f.Build()
	if err != nil {
		return nil, err
	}
	m.Graph = g
	return m, nil
}

// compileNode appends one CUE node entry to the factory.
func compileNode(f *graph.Factory, index int, nv cue.Value) error {
	field := fmt.Sprintf("nodes[%d]", index)

	opVal := nv.LookupPath(cue.ParsePath("op"))
	if !opVal.Exists() {
		return &CompileError{
			Field:   field + ".op",
			Message: "op is required",
			Pos:     nv.Pos(),
		}
	}
	opName, err := opVal.String()
	if err != nil {
		return formatCUEError(err)
	}
	op, ok := graph.ParseOperator(opName)
	if !ok {
		return &CompileError{
			Field:   field + ".op",
			Message: fmt.Sprintf("unknown operator %q", opName),
			Pos:     opVal.Pos(),
		}
	}

	switch op {
	case graph.OpConstant:
		valueVal := nv.LookupPath(cue.ParsePath("value"))
		if !valueVal.Exists() {
			return &CompileError{
				Field:   field + ".value",
				Message: "CONSTANT requires a value",
				Pos:     nv.Pos(),
			}
		}
		value, err := valueVal.Float64()
		if err != nil {
			return formatCUEError(err)
		}
		if _, err := f.AddConstant(value); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}

	case graph.OpQuery:
		parents, err := compileParents(field, nv)
		if err != nil {
			return err
		}
		if len(parents) != 1 {
			return &CompileError{
				Field:   field + ".parents",
				Message: fmt.Sprintf("QUERY takes exactly one parent, got %d", len(parents)),
				Pos:     nv.Pos(),
			}
		}
		if _, err := f.AddQuery(parents[0]); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}

	default:
		parents, err := compileParents(field, nv)
		if err != nil {
			return err
		}
		if _, err := f.AddOperator(op, parents); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}

	return nil
}

// compileParents reads the optional parents list of a node entry.
func compileParents(field string, nv cue.Value) ([]uint, error) {
	parentsVal := nv.LookupPath(cue.ParsePath("parents"))
	if !parentsVal.Exists() {
		return nil, nil
	}

	iter, err := parentsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var parents []uint
	pos := 0
	for iter.Next() {
		p, err := iter.Value().Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if p < 0 {
			return nil, &CompileError{
				Field:   fmt.Sprintf("%s.parents[%d]", field, pos),
				Message: fmt.Sprintf("parent index must be non-negative, got %d", p),
				Pos:     iter.Value().Pos(),
			}
		}
		parents = append(parents, uint(p))
		pos++
	}
	return parents, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
