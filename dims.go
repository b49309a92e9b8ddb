// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapespec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/shapespec/internal/xslices"
)

// DimExpr is one dimension expression of a ShapeSpec. The set of
// implementations is closed: IntDim, SingleDim, VariadicDim, BinaryOpDim,
// NegDim and FuncDim. Evaluation, printing and priorities dispatch
// exhaustively over these six variants.
type DimExpr interface {
	fmt.Stringer

	// dimExprNode seals the set of variants.
	dimExprNode()
}

// IntDim is a fixed dimension size, e.g. "3". If Broadcastable (written
// "#3") it is a placeholder that also accepts a size-1 broadcast, and it
// never evaluates to a value.
type IntDim struct {
	Value         int
	Broadcastable bool
}

// SingleDim is an individual dimension like "height", "_a" or "#c".
//
// Anonymous dims ("_", "_name") are positional placeholders asserting "one
// dimension here, value irrelevant"; broadcastable dims ("#name") may be
// satisfied by a size-1 broadcast. Neither ever evaluates to a value; they
// carry constraints for an external shape checker.
type SingleDim struct {
	Name          string
	Broadcastable bool
	Anonymous     bool
}

// VariadicDim matches zero or more dimensions, like "*batch", "..." or
// "*#span". It evaluates to the values bound in Memo.Variadic, unless
// Anonymous ("...", "*_name") or Broadcastable ("*#name", "#*name"), which
// never evaluate.
type VariadicDim struct {
	Name          string
	Broadcastable bool
	Anonymous     bool
}

// BinaryOpDim combines two single-valued dimension expressions with an
// arithmetic operator, like "h*w" or "c+1".
type BinaryOpDim struct {
	Op          *Operator
	Left, Right DimExpr
}

// NegDim negates a single-valued dimension expression, like "-h".
type NegDim struct {
	Child DimExpr
}

// FuncDim applies a reducing function over the concatenated values of its
// arguments, like "min(a,b)" or "sum(*batch)". Name is one of "min", "max",
// "sum" or "prod"; the reducer is looked up by name at evaluation time.
type FuncDim struct {
	Name string
	Args []DimExpr
}

func (d *IntDim) dimExprNode()      {}
func (d *SingleDim) dimExprNode()   {}
func (d *VariadicDim) dimExprNode() {}
func (d *BinaryOpDim) dimExprNode() {}
func (d *NegDim) dimExprNode()      {}
func (d *FuncDim) dimExprNode()     {}

// String returns the canonical form, see dimString.
func (d *IntDim) String() string      { return dimString(d) }
func (d *SingleDim) String() string   { return dimString(d) }
func (d *VariadicDim) String() string { return dimString(d) }
func (d *BinaryOpDim) String() string { return dimString(d) }
func (d *NegDim) String() string      { return dimString(d) }
func (d *FuncDim) String() string     { return dimString(d) }

// dimString returns the canonical form of a dimension expression: re-parsing
// it yields a structurally equal expression. Operands of binary and unary
// nodes are parenthesized unless they bind strictly tighter than the node
// itself.
func dimString(dim DimExpr) string {
	switch d := dim.(type) {
	case *IntDim:
		if d.Broadcastable {
			return "#" + strconv.Itoa(d.Value)
		}
		return strconv.Itoa(d.Value)
	case *SingleDim:
		name := d.Name
		if d.Anonymous {
			name = "_" + name
		}
		if d.Broadcastable {
			name = "#" + name
		}
		return name
	case *VariadicDim:
		switch {
		case d.Anonymous && d.Name == "":
			return "..."
		case d.Anonymous:
			return "*_" + d.Name
		case d.Broadcastable:
			return "*#" + d.Name
		default:
			return "*" + d.Name
		}
	case *BinaryOpDim:
		return operandString(d.Left, d.Op.Priority) + d.Op.Symbol + operandString(d.Right, d.Op.Priority)
	case *NegDim:
		return "-" + operandString(d.Child, PriorityUnary)
	case *FuncDim:
		return d.Name + "(" + strings.Join(xslices.Map(d.Args, dimString), ",") + ")"
	default:
		exceptions.Panicf("unknown dimension expression type %T", dim)
		panic(nil) // Never executed, just to quiet the missing return.
	}
}

// operandString parenthesizes an operand unless it binds strictly tighter
// than its parent node.
func operandString(operand DimExpr, parent Priority) string {
	if dimPriority(operand) > parent {
		return dimString(operand)
	}
	return "(" + dimString(operand) + ")"
}

// dimPriority returns the binding strength of a dimension expression.
func dimPriority(dim DimExpr) Priority {
	switch d := dim.(type) {
	case *BinaryOpDim:
		return d.Op.Priority
	case *NegDim:
		return PriorityUnary
	case *IntDim, *SingleDim, *VariadicDim, *FuncDim:
		return PriorityAtom
	default:
		exceptions.Panicf("unknown dimension expression type %T", dim)
		panic(nil) // Never executed, just to quiet the missing return.
	}
}

// evalDim resolves a single dimension expression against memo, returning the
// zero or more dimension values it contributes.
func evalDim(dim DimExpr, memo Memo) ([]int, error) {
	switch d := dim.(type) {
	case *IntDim:
		if d.Broadcastable {
			return nil, evalErrorf(d, "cannot evaluate a broadcastable dim: %s", d)
		}
		return []int{d.Value}, nil

	case *SingleDim:
		if d.Anonymous {
			return nil, evalErrorf(d, "cannot evaluate anonymous dimension: %s", d)
		}
		if d.Broadcastable {
			return nil, evalErrorf(d, "cannot evaluate a broadcastable dimension: %s", d)
		}
		value, found := memo.Single[d.Name]
		if !found {
			return nil, evalErrorf(d, "no value known for %s, known values are: %v",
				d, xslices.SortedKeys(memo.Single))
		}
		return []int{value}, nil

	case *VariadicDim:
		if d.Anonymous {
			return nil, evalErrorf(d, "cannot evaluate anonymous dimension: %s", d)
		}
		if d.Broadcastable {
			return nil, evalErrorf(d, "cannot evaluate a broadcastable variadic dimension: %s", d)
		}
		values, found := memo.Variadic[d.Name]
		if !found {
			return nil, evalErrorf(d, "no value known for %s, known values are: %v",
				d, xslices.SortedKeys(memo.Variadic))
		}
		return values, nil

	case *BinaryOpDim:
		left, err := evalSingle(d, d.Left, memo)
		if err != nil {
			return nil, err
		}
		right, err := evalSingle(d, d.Right, memo)
		if err != nil {
			return nil, err
		}
		value, err := d.Op.fn(left, right)
		if err != nil {
			return nil, evalErrorf(d, "cannot evaluate %s: %v", d, err)
		}
		return []int{value}, nil

	case *NegDim:
		value, err := evalSingle(d, d.Child, memo)
		if err != nil {
			return nil, err
		}
		return []int{-value}, nil

	case *FuncDim:
		reduce, found := reducers[d.Name]
		if !found {
			return nil, evalErrorf(d, "unknown function %q in %s", d.Name, d)
		}
		var values []int
		for _, arg := range d.Args {
			argValues, err := evalDim(arg, memo)
			if err != nil {
				return nil, err
			}
			values = append(values, argValues...)
		}
		value, err := reduce(values)
		if err != nil {
			return nil, evalErrorf(d, "cannot evaluate %s: %v", d, err)
		}
		return []int{value}, nil

	default:
		exceptions.Panicf("unknown dimension expression type %T", dim)
		panic(nil) // Never executed, just to quiet the missing return.
	}
}

// evalSingle evaluates an operand of a binary or unary node, which must
// contribute exactly one value.
func evalSingle(parent, operand DimExpr, memo Memo) (int, error) {
	values, err := evalDim(operand, memo)
	if err != nil {
		return 0, err
	}
	if len(values) != 1 {
		return 0, evalErrorf(parent, "operand %s of %s evaluated to %d values, want exactly 1",
			operand, parent, len(values))
	}
	return values[0], nil
}
