// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapespec

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeSpecString(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"", ""},
		{"b h w c", "b h w c"},
		{"  h\tw", "h w"},
		{"#*span", "*#span"},
		{"*_", "..."},
		{"a-b-c", "a-(b-c)"},
		{"a+b*c", "a+b*c"},
		{"a*b+c", "a*b+c"},
		{"(a+b)*c", "(a+b)*c"},
		{"n*(n+1)//2", "n*((n+1)//2)"},
		{"a**b**c", "a**(b**c)"},
		{"(a**b)**c", "(a**b)**c"},
		{"-a**b", "-(a**b)"},
		{"-(-h)", "-(-h)"},
		{"2*-3", "2*-3"},
		{"min(a,b)+1", "min(a,b)+1"},
		{"sum(a,*b)", "sum(a,*b)"},
		{"prod(2,3,4)", "prod(2,3,4)"},
		{"_a #c ... *batch", "_a #c ... *batch"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			parsed, err := Parse(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, parsed.String())
		})
	}
}

// TestStringRoundTrip checks that re-parsing the canonical form of any spec
// yields the same dimension expressions.
func TestStringRoundTrip(t *testing.T) {
	specs := []string{
		"",
		"h",
		"b h w c",
		" \t b  h",
		"*batch h w c",
		"...",
		"_",
		"_width",
		"*_",
		"*_tail",
		"#c",
		"#3",
		"#*span",
		"*#span",
		"h+w",
		"a-b-c",
		"h-(w-c)",
		"a+b*c",
		"(a+b)*c",
		"h//2",
		"h%3",
		"h/w",
		"2**c",
		"a**b**c",
		"(a**b)**c",
		"-h",
		"-(-h)",
		"-a**b",
		"a**-b",
		"2*-3",
		"min",
		"min(a,b)",
		"max(a,b,c)",
		"sum(*batch)",
		"prod(a,*b)",
		"min(max(a,b),c+1)",
		"min*(a+b)",
		"b h*w+1 #c",
		"n*(n+1)//2",
	}

	for _, spec := range specs {
		t.Run(spec, func(t *testing.T) {
			parsed, err := Parse(spec)
			require.NoError(t, err)
			printed := parsed.String()
			reparsed, err := Parse(printed)
			require.NoErrorf(t, err, "canonical form %q of %q failed to re-parse", printed, spec)
			if diff := cmp.Diff(parsed, reparsed, cmpOpts...); diff != "" {
				t.Errorf("round-trip of %q through %q changed the parse (-want +got):\n%s", spec, printed, diff)
			}
			assert.True(t, parsed.Equal(reparsed))
		})
	}
}

func TestShapeSpecEqual(t *testing.T) {
	a := MustParse("h w*2")
	assert.True(t, a.Equal(MustParse("h w*2")))
	assert.False(t, a.Equal(MustParse("h w*3")))
	assert.False(t, a.Equal(MustParse("h")))
	assert.True(t, MustParse("").Equal(New()))

	var nilSpec *ShapeSpec
	assert.True(t, nilSpec.Equal(nil))
	assert.False(t, nilSpec.Equal(a))
	assert.False(t, a.Equal(nil))
}

// evalMemo returns the memo shared by the evaluation tests:
// a=1, b=2, c=3, h=5, zero=0, *batch=[2 3] and *empty=[].
func evalMemo() Memo {
	memo := NewMemo()
	memo.Single["a"] = 1
	memo.Single["b"] = 2
	memo.Single["c"] = 3
	memo.Single["h"] = 5
	memo.Single["zero"] = 0
	memo.Variadic["batch"] = []int{2, 3}
	memo.Variadic["empty"] = []int{}
	return memo
}

func TestEval(t *testing.T) {
	memo := evalMemo()
	tests := []struct {
		name string
		spec string
		want []int
	}{
		{"empty_spec", "", []int{}},
		{"constant", "128", []int{128}},
		{"names", "a b c", []int{1, 2, 3}},
		{"precedence", "a+b*c", []int{7}},
		{"parens_override", "(a+b)*c", []int{9}},
		{"variadic_expansion", "*batch h", []int{2, 3, 5}},
		{"empty_variadic_expansion", "*empty h", []int{5}},
		{"negation", "-h", []int{-5}},
		{"double_negation", "-(-h)", []int{5}},
		{"power", "b**c", []int{8}},
		{"power_right_associative", "b**b**b", []int{16}},
		{"negative_base_power", "(-b)**c", []int{-8}},
		{"exact_division", "(b*c)/b", []int{3}},
		{"floor_division", "h//b", []int{2}},
		{"floor_division_negative", "-h//b", []int{-3}},
		{"modulo", "h%c", []int{2}},
		{"modulo_negative", "-h%c", []int{1}},
		{"sum_mixed", "sum(a,*batch)", []int{6}},
		{"sum_empty", "sum(*empty)", []int{0}},
		{"prod_empty", "prod(*empty)", []int{1}},
		{"prod_literals", "prod(2,3,4)", []int{24}},
		{"min_pair", "min(a,c)", []int{1}},
		{"max_pair", "max(a,c)", []int{3}},
		{"min_variadic", "min(*batch)", []int{2}},
		{"max_mixed", "max(h,*batch)", []int{5}},
		{"func_in_expr", "min(a,b)+h", []int{6}},
		{"image_spec", "*batch h//2 c+1", []int{2, 3, 2, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.spec, memo)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	memo := evalMemo()
	tests := []struct {
		name string
		spec string
		msg  string
	}{
		{"unbound_name", "w", "no value known for w"},
		{"unbound_variadic", "*rest", "no value known for *rest"},
		{"anonymous", "_", "cannot evaluate anonymous dimension: _"},
		{"named_anonymous", "_a", "cannot evaluate anonymous dimension: _a"},
		{"anonymous_variadic", "...", "cannot evaluate anonymous dimension: ..."},
		{"named_anonymous_variadic", "*_tail", "cannot evaluate anonymous dimension: *_tail"},
		{"broadcastable", "#c", "cannot evaluate a broadcastable dimension: #c"},
		{"broadcastable_int", "#3", "cannot evaluate a broadcastable dim: #3"},
		{"broadcastable_variadic", "*#batch", "cannot evaluate a broadcastable variadic dimension: *#batch"},
		{"division_by_zero", "h/zero", "division by zero"},
		{"floor_division_by_zero", "h//zero", "division by zero"},
		{"modulo_by_zero", "h%zero", "division by zero"},
		{"inexact_division", "h/b", "5 is not exactly divisible by 2"},
		{"negative_exponent", "b**-a", "negative exponent -1"},
		{"min_empty", "min(*empty)", "min() of an empty sequence"},
		{"max_empty", "max(*empty)", "max() of an empty sequence"},
		{"error_in_later_axis", "a h/b", "not exactly divisible"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.spec, memo)
			require.Error(t, err)
			require.Nil(t, got)
			var evalErr *EvalError
			require.ErrorAs(t, err, &evalErr)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestEvalUnboundNameMessage(t *testing.T) {
	memo := NewMemo()
	memo.Single["a"] = 1
	memo.Single["b"] = 2
	memo.Variadic["batch"] = []int{2, 3}

	_, err := Eval("h", memo)
	require.Error(t, err)
	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "h", evalErr.Expr)
	assert.Equal(t, "no value known for h, known values are: [a b]", err.Error())

	_, err = Eval("*rest", memo)
	require.Error(t, err)
	assert.Equal(t, "no value known for *rest, known values are: [batch]", err.Error())

	_, err = Eval("h", NewMemo())
	require.Error(t, err)
	assert.Equal(t, "no value known for h, known values are: []", err.Error())
}

// TestEvalDimNoAliasing checks that values returned by EvalDim can be
// modified without corrupting the memo.
func TestEvalDimNoAliasing(t *testing.T) {
	memo := NewMemo()
	memo.Variadic["batch"] = []int{2, 3}

	values, err := EvalDim(&VariadicDim{Name: "batch"}, memo)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, values)
	values[0] = 99
	assert.Equal(t, []int{2, 3}, memo.Variadic["batch"])
}

// TestEvalHandBuiltTrees covers trees built directly from the node types,
// including shapes Parse never produces.
func TestEvalHandBuiltTrees(t *testing.T) {
	memo := NewMemo()
	memo.Single["a"] = 1
	memo.Variadic["batch"] = []int{2, 3}

	variadicOperand := op("+", &VariadicDim{Name: "batch"}, num(1))
	_, err := EvalDim(variadicOperand, memo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operand *batch of *batch+1 evaluated to 2 values, want exactly 1")

	unknownFunc := &FuncDim{Name: "median", Args: []DimExpr{dim("a"), num(2)}}
	_, err = EvalDim(unknownFunc, memo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown function "median"`)

	funcArgSpread := &FuncDim{Name: "sum", Args: []DimExpr{&VariadicDim{Name: "batch"}, num(10)}}
	values, err := EvalDim(funcArgSpread, memo)
	require.NoError(t, err)
	assert.Equal(t, []int{15}, values)
}

func TestMustHelpers(t *testing.T) {
	require.NotPanics(t, func() { MustParse("b h w c") })

	memo := NewMemo()
	memo.Single["h"] = 4
	assert.Equal(t, []int{4, 8}, MustEval("h h*2", memo))

	err := exceptions.TryCatch[error](func() { MustParse("min(a)") })
	require.Error(t, err)
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)

	err = exceptions.TryCatch[error](func() { MustEval("w", memo) })
	require.Error(t, err)
	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
}

// FuzzParse checks the round-trip law on arbitrary inputs: whatever parses
// must print to a canonical form that re-parses to the same spec.
func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"b h w c",
		"*batch h//2 w//2 c",
		"min(a,*b) prod(2,3,4)",
		"#c ... _a -(h**2)",
		"a-b-c n*(n+1)//2",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, spec string) {
		parsed, err := Parse(spec)
		if err != nil {
			return
		}
		printed := parsed.String()
		reparsed, err := Parse(printed)
		if err != nil {
			t.Fatalf("canonical form %q of %q failed to re-parse: %v", printed, spec, err)
		}
		if !parsed.Equal(reparsed) {
			t.Errorf("round-trip of %q through %q changed the parse", spec, printed)
		}
	})
}
