// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapespec parses and evaluates shape specifications: compact
// strings describing the shape of a tensor, with one dimension expression
// per axis, separated by spaces.
//
// Example:
//
//	spec := shapespec.MustParse("*batch h//2 w//2 c")
//	memo := shapespec.NewMemo()
//	memo.Variadic["batch"] = []int{16, 4}
//	memo.Single["h"] = 64
//	memo.Single["w"] = 64
//	memo.Single["c"] = 3
//	dims, err := spec.Eval(memo)
//	// dims == [16 4 32 32 3]
//
// Each axis of a spec is one of:
//
//   - An arithmetic expression over dimension names and integer literals,
//     like "h", "128" or "h*w+1", using the operators +, -, *, /, //
//     (floor division), % and ** (power), prefix negation, parentheses,
//     and the functions min, max, sum and prod.
//   - A variadic dimension "*name" or "...", standing for any number of
//     axes (including none).
//   - An anonymous dimension "_", "_name", "*_" or "*_name", documenting
//     an axis (or axes) without constraining it. Anonymous dimensions
//     cannot be evaluated.
//   - A broadcastable dimension "#name", "#3" or "#*name", marking an
//     axis that may also be 1. Broadcastable dimensions cannot be
//     evaluated.
//
// Dimension values are supplied through a Memo. Evaluation returns one
// value per expression axis and the memoized run of values for each
// variadic axis.
package shapespec

import (
	"reflect"
	"slices"
	"strings"

	"github.com/gomlx/shapespec/internal/xslices"
)

// ShapeSpec is a parsed shape specification, one DimExpr per axis. Variadic
// axes may expand to any number of dimensions, so the rank of the matching
// tensors is only fixed if there are none.
//
// A ShapeSpec is immutable after parsing and safe for concurrent use.
type ShapeSpec struct {
	Dims []DimExpr
}

// New creates a ShapeSpec directly from dimension expressions, without
// parsing. Most users will want Parse instead.
func New(dims ...DimExpr) *ShapeSpec {
	return &ShapeSpec{Dims: dims}
}

// Parse parses a shape specification like "*batch h w c" or "b h*w+1 #c".
//
// Axes are separated by spaces or tabs. The empty string parses to an empty
// (rank-0) spec, but a spec of only whitespace or with trailing whitespace
// is a *SyntaxError.
func Parse(spec string) (*ShapeSpec, error) {
	chunks, err := splitSpec(spec)
	if err != nil {
		return nil, err
	}
	dims := make([]DimExpr, 0, len(chunks))
	for _, chunk := range chunks {
		dim, err := parseDimSpec(spec, chunk)
		if err != nil {
			return nil, err
		}
		dims = append(dims, dim)
	}
	return &ShapeSpec{Dims: dims}, nil
}

// MustParse parses a shape specification and panics on error. It is meant
// for specs that are compile-time constants.
func MustParse(spec string) *ShapeSpec {
	parsed, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return parsed
}

// String formats the spec in canonical form: minimal whitespace, and
// parentheses only where needed to preserve the parse. Parsing the result
// yields an equal ShapeSpec.
func (s *ShapeSpec) String() string {
	return strings.Join(xslices.Map(s.Dims, dimString), " ")
}

// Equal reports whether two specs have the same dimension expressions.
func (s *ShapeSpec) Equal(other *ShapeSpec) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.Dims) != len(other.Dims) {
		return false
	}
	for i, dim := range s.Dims {
		if !reflect.DeepEqual(dim, other.Dims[i]) {
			return false
		}
	}
	return true
}

// Eval resolves the spec to concrete dimensions using the values in memo.
// Expression axes contribute one dimension each, and variadic axes
// contribute their full memoized run of dimensions.
//
// It returns a *EvalError if the spec contains anonymous or broadcastable
// dimensions, names the memo doesn't know, or arithmetic that fails (like
// division by zero).
func (s *ShapeSpec) Eval(memo Memo) ([]int, error) {
	dims := make([]int, 0, len(s.Dims))
	for _, dim := range s.Dims {
		values, err := evalDim(dim, memo)
		if err != nil {
			return nil, err
		}
		dims = append(dims, values...)
	}
	return dims, nil
}

// EvalDim resolves a single dimension expression using the values in memo.
// All expressions yield exactly one value except variadic dimensions, which
// yield their memoized run of values (possibly empty).
func EvalDim(dim DimExpr, memo Memo) ([]int, error) {
	values, err := evalDim(dim, memo)
	if err != nil {
		return nil, err
	}
	return slices.Clone(values), nil
}

// Eval parses and evaluates a spec in one call.
func Eval(spec string, memo Memo) ([]int, error) {
	parsed, err := Parse(spec)
	if err != nil {
		return nil, err
	}
	return parsed.Eval(memo)
}

// MustEval parses and evaluates a spec in one call, panicking on error.
func MustEval(spec string, memo Memo) []int {
	dims, err := Eval(spec, memo)
	if err != nil {
		panic(err)
	}
	return dims
}
