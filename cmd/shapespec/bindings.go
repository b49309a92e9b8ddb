package main

import (
	"strconv"
	"strings"

	"github.com/gomlx/shapespec"
	"github.com/pkg/errors"
)

// parseBindings builds the evaluation memo from the -dims and -vdims flags.
//
// dims is a comma-separated list of name=value assignments. vdims is a
// comma-separated list of name=axes assignments, the axes separated by 'x',
// e.g. "batch=16x4". A vdims assignment with no axes ("batch=") binds the
// name to an empty run of axes.
func parseBindings(dims, vdims string) (shapespec.Memo, error) {
	memo := shapespec.NewMemo()
	if dims != "" {
		for _, assignment := range strings.Split(dims, ",") {
			name, value, err := splitAssignment(assignment)
			if err != nil {
				return shapespec.Memo{}, err
			}
			intValue, err := strconv.Atoi(value)
			if err != nil {
				return shapespec.Memo{}, errors.Errorf("invalid value %q for dimension %q in -dims", value, name)
			}
			memo.Single[name] = intValue
		}
	}
	if vdims != "" {
		for _, assignment := range strings.Split(vdims, ",") {
			name, value, err := splitAssignment(assignment)
			if err != nil {
				return shapespec.Memo{}, err
			}
			values := []int{}
			if value != "" {
				for _, axis := range strings.Split(value, "x") {
					intValue, err := strconv.Atoi(axis)
					if err != nil {
						return shapespec.Memo{}, errors.Errorf("invalid axes %q for variadic dimension %q in -vdims", value, name)
					}
					values = append(values, intValue)
				}
			}
			memo.Variadic[name] = values
		}
	}
	return memo, nil
}

func splitAssignment(assignment string) (name, value string, err error) {
	name, value, found := strings.Cut(assignment, "=")
	if !found || name == "" {
		return "", "", errors.Errorf("invalid binding %q, want name=value", assignment)
	}
	return name, value, nil
}
