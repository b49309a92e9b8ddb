// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapespec

import (
	"fmt"

	"github.com/pkg/errors"
)

// UncheckedDim can be given to Check or Assert for an axis whose dimension
// doesn't matter.
const UncheckedDim = int(-1)

// Check evaluates the spec against memo and verifies that it resolves to
// exactly the given dimensions. A value of UncheckedDim means the axis can
// take any value and is not checked.
//
// It returns an error if evaluation fails, if the rank is different, or if
// any checked dimension differs.
func (s *ShapeSpec) Check(memo Memo, dimensions ...int) error {
	resolved, err := s.Eval(memo)
	if err != nil {
		return err
	}
	if len(resolved) != len(dimensions) {
		return errors.Errorf("shape spec %q resolved to %v with incompatible rank %d (wanted %d)",
			s, resolved, len(resolved), len(dimensions))
	}
	for axis, wanted := range dimensions {
		if wanted == UncheckedDim {
			continue
		}
		if resolved[axis] != wanted {
			return errors.Errorf("shape spec %q axis %d resolved to dimension %d, wanted %d (resolved=%v, wanted=%v)",
				s, axis, resolved[axis], wanted, resolved, dimensions)
		}
	}
	return nil
}

// Assert checks that the spec resolves to the given dimensions and panics
// otherwise. See Check.
func (s *ShapeSpec) Assert(memo Memo, dimensions ...int) {
	err := s.Check(memo, dimensions...)
	if err != nil {
		panic(fmt.Sprintf("shapespec.Assert(%v): %+v", dimensions, err))
	}
}
