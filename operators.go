// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapespec

import (
	"fmt"

	"github.com/gomlx/shapespec/internal/xslices"
	"github.com/pkg/errors"
)

// Priority is the binding strength of a dimension expression, used to decide
// parenthesization when printing. Higher values bind tighter.
type Priority int

const (
	PriorityAdd Priority = 1 + iota
	PriorityMul
	PriorityPow
	PriorityUnary
	PriorityAtom
)

// String implements fmt.Stringer.
func (p Priority) String() string {
	switch p {
	case PriorityAdd:
		return "Add"
	case PriorityMul:
		return "Mul"
	case PriorityPow:
		return "Pow"
	case PriorityUnary:
		return "Unary"
	case PriorityAtom:
		return "Atom"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// Operator is a binary arithmetic operator usable in dimension expressions.
// The supported operators live in a package-level table; a BinaryOpDim holds
// a pointer into that table.
type Operator struct {
	// Symbol is the operator as written in a spec, e.g. "+" or "//".
	Symbol string

	// Priority is the operator's binding strength.
	Priority Priority

	fn func(a, b int) (int, error)
}

// String implements fmt.Stringer.
func (op *Operator) String() string { return op.Symbol }

var operators = []*Operator{
	{Symbol: "+", Priority: PriorityAdd, fn: func(a, b int) (int, error) { return a + b, nil }},
	{Symbol: "-", Priority: PriorityAdd, fn: func(a, b int) (int, error) { return a - b, nil }},
	{Symbol: "*", Priority: PriorityMul, fn: func(a, b int) (int, error) { return a * b, nil }},
	{Symbol: "/", Priority: PriorityMul, fn: divideExact},
	{Symbol: "//", Priority: PriorityMul, fn: divideFloor},
	{Symbol: "%", Priority: PriorityMul, fn: moduloFloor},
	{Symbol: "**", Priority: PriorityPow, fn: power},
}

var symbolToOperator = make(map[string]*Operator, len(operators))

func init() {
	for _, op := range operators {
		symbolToOperator[op.Symbol] = op
	}
}

// divideExact implements "/": dimensions are integers, so the division must
// be exact.
func divideExact(a, b int) (int, error) {
	if b == 0 {
		return 0, errors.New("division by zero")
	}
	if a%b != 0 {
		return 0, errors.Errorf("%d is not exactly divisible by %d (use // for floor division)", a, b)
	}
	return a / b, nil
}

// divideFloor implements "//", rounding towards negative infinity.
func divideFloor(a, b int) (int, error) {
	if b == 0 {
		return 0, errors.New("division by zero")
	}
	quotient := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		quotient--
	}
	return quotient, nil
}

// moduloFloor implements "%" with the result taking the sign of the divisor,
// so that a == (a//b)*b + a%b always holds.
func moduloFloor(a, b int) (int, error) {
	if b == 0 {
		return 0, errors.New("division by zero")
	}
	remainder := a % b
	if remainder != 0 && (a < 0) != (b < 0) {
		remainder += b
	}
	return remainder, nil
}

// power implements "**" by squaring. Negative exponents don't yield integer
// dimensions and are rejected.
func power(a, b int) (int, error) {
	if b < 0 {
		return 0, errors.Errorf("negative exponent %d", b)
	}
	result := 1
	base := a
	for exponent := b; exponent > 0; exponent >>= 1 {
		if exponent&1 == 1 {
			result *= base
		}
		base *= base
	}
	return result, nil
}

// reducers maps the function names usable in dimension expressions (FuncDim)
// to their implementation over the flattened argument values.
var reducers = map[string]func(values []int) (int, error){
	"sum":  func(values []int) (int, error) { return xslices.Sum(values), nil },
	"prod": func(values []int) (int, error) { return xslices.Prod(values), nil },
	"min": func(values []int) (int, error) {
		if len(values) == 0 {
			return 0, errors.New("min() of an empty sequence")
		}
		return xslices.Min(values), nil
	},
	"max": func(values []int) (int, error) {
		if len(values) == 0 {
			return 0, errors.New("max() of an empty sequence")
		}
		return xslices.Max(values), nil
	},
}
