// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapespec

import "fmt"

// SyntaxError is returned by Parse when a spec string does not conform to
// the shape-spec grammar.
type SyntaxError struct {
	// Spec is the full spec string being parsed.
	Spec string

	// Pos is the byte offset of the offending character in Spec, or
	// len(Spec) when the spec ended unexpectedly.
	Pos int

	msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in shape spec %q at position %d: %s", e.Spec, e.Pos, e.msg)
}

func syntaxErrorf(spec string, pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Spec: spec, Pos: pos, msg: fmt.Sprintf(format, args...)}
}

// EvalError is returned when a structurally valid ShapeSpec cannot be
// resolved against the given Memo: an unbound name, an anonymous or
// broadcastable dimension evaluated directly, an operand resolving to other
// than exactly one value, or an arithmetic failure.
type EvalError struct {
	// Expr is the canonical form of the dimension expression that failed
	// to evaluate.
	Expr string

	msg string
}

func (e *EvalError) Error() string { return e.msg }

func evalErrorf(dim DimExpr, format string, args ...any) *EvalError {
	return &EvalError{Expr: dimString(dim), msg: fmt.Sprintf(format, args...)}
}
