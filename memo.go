// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapespec

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gomlx/shapespec/internal/xslices"
	"github.com/pkg/errors"
)

// Memo holds the known values of named dimensions: Single maps a dimension
// name to its size, Variadic maps a variadic dimension name to the sizes it
// spans. A Memo is what a ShapeSpec is evaluated against.
//
// The zero value is an empty memo, usable for lookups. Use NewMemo (or set
// the maps directly) before writing to it.
type Memo struct {
	Single   map[string]int
	Variadic map[string][]int
}

// NewMemo creates an empty Memo with both maps initialized.
func NewMemo() Memo {
	return Memo{
		Single:   make(map[string]int),
		Variadic: make(map[string][]int),
	}
}

// Clone returns a deep copy of the memo. The copy can be modified without
// affecting the original.
func (m Memo) Clone() Memo {
	clone := Memo{Single: maps.Clone(m.Single)}
	if m.Variadic != nil {
		clone.Variadic = make(map[string][]int, len(m.Variadic))
		for name, dims := range m.Variadic {
			clone.Variadic[name] = slices.Clone(dims)
		}
	}
	return clone
}

// Merge combines two memos into a new one, failing if they disagree on the
// value of any dimension. Neither input is modified.
func (m Memo) Merge(other Memo) (Memo, error) {
	merged := NewMemo()
	maps.Copy(merged.Single, m.Single)
	for name, dims := range m.Variadic {
		merged.Variadic[name] = slices.Clone(dims)
	}
	for name, value := range other.Single {
		if previous, found := merged.Single[name]; found && previous != value {
			return Memo{}, errors.Errorf("conflicting values for dimension %q: %d vs %d", name, previous, value)
		}
		merged.Single[name] = value
	}
	for name, dims := range other.Variadic {
		if previous, found := merged.Variadic[name]; found && !slices.Equal(previous, dims) {
			return Memo{}, errors.Errorf("conflicting values for variadic dimension %q: %v vs %v", name, previous, dims)
		}
		merged.Variadic[name] = slices.Clone(dims)
	}
	return merged, nil
}

// String formats the memo as "{h=4, w=8, *b=[2 3]}", single dimensions
// first, each group sorted by name.
func (m Memo) String() string {
	parts := make([]string, 0, len(m.Single)+len(m.Variadic))
	for _, name := range xslices.SortedKeys(m.Single) {
		parts = append(parts, fmt.Sprintf("%s=%d", name, m.Single[name]))
	}
	for _, name := range xslices.SortedKeys(m.Variadic) {
		parts = append(parts, fmt.Sprintf("*%s=%v", name, m.Variadic[name]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
