package graph

// Operator identifies one IR instruction kind.
//
// The set is closed: every operator has a fixed arity and a fixed
// input/output type signature, declared in the signature table below.
// The validator checks every node against that table and nothing else.
type Operator int

const (
	// OpConstant is a scalar constant, like 1.2. Result: REAL.
	OpConstant Operator = iota

	// OpAdd adds two scalars. Result: REAL.
	OpAdd

	// OpMultiply multiplies two scalars. Result: REAL.
	OpMultiply

	// OpNormal is a normal distribution over mean and standard deviation
	// parameters (both REAL). Result: DISTRIBUTION.
	OpNormal

	// OpBeta is a beta distribution over two REAL parameters. The parameter
	// semantics are deliberately unnamed; only their types are checked.
	// Result: DISTRIBUTION.
	OpBeta

	// OpBernoulli is a bernoulli distribution over one REAL parameter, the
	// probability of yielding 1. Result: DISTRIBUTION.
	OpBernoulli

	// OpSample draws a sample from a DISTRIBUTION operand. Result: REAL.
	OpSample

	// OpObserve conditions a DISTRIBUTION operand on an observed REAL value.
	// Result: NONE.
	OpObserve

	// OpQuery marks a REAL operand whose value inference must report back.
	// Result: NONE.
	OpQuery

	// opSentinel is not a real operator. It bounds iteration over the
	// operator set and must stay last.
	opSentinel
)

// operatorNames maps operators to their stable wire names. These names
// appear in CUE model files, canonical JSON, and the node store.
var operatorNames = [opSentinel]string{
	OpConstant:  "CONSTANT",
	OpAdd:       "ADD",
	OpMultiply:  "MULTIPLY",
	OpNormal:    "DISTRIBUTION_NORMAL",
	OpBeta:      "DISTRIBUTION_BETA",
	OpBernoulli: "DISTRIBUTION_BERNOULLI",
	OpSample:    "SAMPLE",
	OpObserve:   "OBSERVE",
	OpQuery:     "QUERY",
}

// String returns the operator's stable wire name.
func (op Operator) String() string {
	if !op.Valid() {
		return "INVALID"
	}
	return operatorNames[op]
}

// Valid reports whether op is a real instruction kind (not the sentinel or
// an out-of-range value).
func (op Operator) Valid() bool {
	return op >= OpConstant && op < opSentinel
}

// ParseOperator maps a wire name back to its Operator.
func ParseOperator(name string) (Operator, bool) {
	for op := OpConstant; op < opSentinel; op++ {
		if operatorNames[op] == name {
			return op, true
		}
	}
	return opSentinel, false
}

// Type classifies a node's result.
type Type int

const (
	// TypeNone is the absence of a value, e.g. the result of an observation
	// or query node.
	TypeNone Type = iota

	// TypeReal is a scalar real value.
	TypeReal

	// TypeDistribution is a probability distribution over real values.
	TypeDistribution
)

// String returns the type's stable wire name.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "NONE"
	case TypeReal:
		return "REAL"
	case TypeDistribution:
		return "DISTRIBUTION"
	default:
		return "INVALID"
	}
}

// Signature declares an operator's operand types, in order, and its result
// type. Arity is len(Inputs).
type Signature struct {
	Inputs []Type
	Result Type
}

// signatures is the single source of truth for operator arity and typing.
// Indexed by Operator; every operator below opSentinel has an entry.
var signatures = [opSentinel]Signature{
	OpConstant:  {Inputs: nil, Result: TypeReal},
	OpAdd:       {Inputs: []Type{TypeReal, TypeReal}, Result: TypeReal},
	OpMultiply:  {Inputs: []Type{TypeReal, TypeReal}, Result: TypeReal},
	OpNormal:    {Inputs: []Type{TypeReal, TypeReal}, Result: TypeDistribution},
	OpBeta:      {Inputs: []Type{TypeReal, TypeReal}, Result: TypeDistribution},
	OpBernoulli: {Inputs: []Type{TypeReal}, Result: TypeDistribution},
	OpSample:    {Inputs: []Type{TypeDistribution}, Result: TypeReal},
	OpObserve:   {Inputs: []Type{TypeDistribution, TypeReal}, Result: TypeNone},
	OpQuery:     {Inputs: []Type{TypeReal}, Result: TypeNone},
}

// SignatureOf returns the declared signature for op. The returned Inputs
// slice is a copy; callers cannot alter the table.
func SignatureOf(op Operator) (Signature, bool) {
	if !op.Valid() {
		return Signature{}, false
	}
	sig := signatures[op]
	inputs := make([]Type, len(sig.Inputs))
	copy(inputs, sig.Inputs)
	return Signature{Inputs: inputs, Result: sig.Result}, true
}

// ResultTypeOf returns the declared result type for op, or TypeNone if op is
// not a valid operator.
func ResultTypeOf(op Operator) Type {
	if !op.Valid() {
		return TypeNone
	}
	return signatures[op].Result
}
