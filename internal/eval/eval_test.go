// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/gitql/internal/ast"
	"github.com/hashicorp/gitql/internal/environment"
	"github.com/hashicorp/gitql/internal/types"
)

func Test_Expression_SymbolResolvesByTitle(t *testing.T) {
	env := environment.New()
	titles := []string{"name", "insertions"}
	values := []types.Value{types.NewText("main"), types.NewInteger(5)}

	got, err := Expression(env, &ast.SymbolExpression{Value: "insertions"}, titles, values)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.AsInt())
}

func Test_Expression_GlobalVariable(t *testing.T) {
	env := environment.New()
	env.Globals["@threshold"] = types.NewInteger(10)

	got, err := Expression(env, &ast.GlobalVariableExpression{Name: "@threshold"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.AsInt())
}

func Test_Expression_ArithmeticOverflowIsError(t *testing.T) {
	env := environment.New()
	big := &ast.NumberExpression{Value: types.NewInteger(1 << 62)}
	expr := &ast.ArithmeticExpression{Left: big, Operator: ast.ArithmeticStar, Right: &ast.NumberExpression{Value: types.NewInteger(4)}}

	_, err := Expression(env, expr, nil, nil)
	assert.Error(t, err)
}

func Test_Expression_DivisionByZeroIsError(t *testing.T) {
	env := environment.New()
	expr := &ast.ArithmeticExpression{
		Left:     &ast.NumberExpression{Value: types.NewInteger(10)},
		Operator: ast.ArithmeticSlash,
		Right:    &ast.NumberExpression{Value: types.NewInteger(0)},
	}
	_, err := Expression(env, expr, nil, nil)
	assert.Error(t, err)
}

func Test_Expression_ComparisonGreater(t *testing.T) {
	env := environment.New()
	expr := &ast.ComparisonExpression{
		Left:     &ast.NumberExpression{Value: types.NewInteger(5)},
		Operator: ast.ComparisonGreater,
		Right:    &ast.NumberExpression{Value: types.NewInteger(3)},
	}
	got, err := Expression(env, expr, nil, nil)
	require.NoError(t, err)
	assert.True(t, got.AsBool())
}

func Test_Expression_NullSafeEqualReturnsIntegerNotBoolean(t *testing.T) {
	env := environment.New()
	expr := &ast.ComparisonExpression{
		Left:     &ast.NullExpression{},
		Operator: ast.ComparisonNullSafeEqual,
		Right:    &ast.NullExpression{},
	}
	got, err := Expression(env, expr, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, types.Integer, got.DataType())
	assert.Equal(t, int64(1), got.AsInt())
}

func Test_Expression_LogicalOrShortCircuits(t *testing.T) {
	env := environment.New()
	// The right side would divide by zero if evaluated; OR must not reach it
	// once the left side is already true.
	expr := &ast.LogicalExpression{
		Left:     &ast.BooleanExpression{IsTrue: true},
		Operator: ast.LogicalOr,
		Right: &ast.ComparisonExpression{
			Left:     &ast.ArithmeticExpression{Left: &ast.NumberExpression{Value: types.NewInteger(1)}, Operator: ast.ArithmeticSlash, Right: &ast.NumberExpression{Value: types.NewInteger(0)}},
			Operator: ast.ComparisonEqual,
			Right:    &ast.NumberExpression{Value: types.NewInteger(0)},
		},
	}
	got, err := Expression(env, expr, nil, nil)
	require.NoError(t, err)
	assert.True(t, got.AsBool())
}

func Test_Expression_BetweenInclusiveBounds(t *testing.T) {
	env := environment.New()
	expr := &ast.BetweenExpression{
		Value:      &ast.NumberExpression{Value: types.NewInteger(5)},
		RangeStart: &ast.NumberExpression{Value: types.NewInteger(5)},
		RangeEnd:   &ast.NumberExpression{Value: types.NewInteger(10)},
	}
	got, err := Expression(env, expr, nil, nil)
	require.NoError(t, err)
	assert.True(t, got.AsBool())
}

func Test_Expression_InMatchesAnyValue(t *testing.T) {
	env := environment.New()
	expr := &ast.InExpression{
		Argument: &ast.StringExpression{Value: "tag"},
		Values: []ast.Expression{
			&ast.StringExpression{Value: "branch"},
			&ast.StringExpression{Value: "tag"},
		},
	}
	got, err := Expression(env, expr, nil, nil)
	require.NoError(t, err)
	assert.True(t, got.AsBool())
}

func Test_Expression_InNotKeywordInverts(t *testing.T) {
	env := environment.New()
	expr := &ast.InExpression{
		Argument:      &ast.StringExpression{Value: "tag"},
		Values:        []ast.Expression{&ast.StringExpression{Value: "branch"}},
		HasNotKeyword: true,
	}
	got, err := Expression(env, expr, nil, nil)
	require.NoError(t, err)
	assert.True(t, got.AsBool())
}

func Test_Expression_IsNullDetectsNull(t *testing.T) {
	env := environment.New()
	got, err := Expression(env, &ast.IsNullExpression{Argument: &ast.NullExpression{}}, nil, nil)
	require.NoError(t, err)
	assert.True(t, got.AsBool())
}

func Test_Expression_CaseReturnsFirstMatchingBranch(t *testing.T) {
	env := environment.New()
	expr := &ast.CaseExpression{
		Conditions:   []ast.Expression{&ast.BooleanExpression{IsTrue: false}, &ast.BooleanExpression{IsTrue: true}},
		Values:       []ast.Expression{&ast.NumberExpression{Value: types.NewInteger(1)}, &ast.NumberExpression{Value: types.NewInteger(2)}},
		DefaultValue: &ast.NumberExpression{Value: types.NewInteger(0)},
	}
	got, err := Expression(env, expr, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.AsInt())
}

func Test_Expression_CaseFallsBackToElse(t *testing.T) {
	env := environment.New()
	expr := &ast.CaseExpression{
		Conditions:   []ast.Expression{&ast.BooleanExpression{IsTrue: false}},
		Values:       []ast.Expression{&ast.NumberExpression{Value: types.NewInteger(1)}},
		DefaultValue: &ast.NumberExpression{Value: types.NewInteger(9)},
	}
	got, err := Expression(env, expr, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.AsInt())
}

func Test_Expression_CallResolvesScalarFunction(t *testing.T) {
	env := environment.New()
	expr := &ast.CallExpression{FunctionName: "upper", Arguments: []ast.Expression{&ast.StringExpression{Value: "main"}}}
	got, err := Expression(env, expr, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "MAIN", got.AsText())
}

func Test_Expression_LikeWildcards(t *testing.T) {
	cases := []struct {
		pattern, input string
		want           bool
	}{
		{"feature/%", "feature/login", true},
		{"feature/%", "bugfix/login", false},
		{"h_llo", "hello", true},
		{"h_llo", "hllo", false},
		{"FEATURE/%", "feature/LOGIN", true},
		{"H_LLO", "hElLo", true},
	}
	env := environment.New()
	for _, c := range cases {
		expr := &ast.LikeExpression{Input: &ast.StringExpression{Value: c.input}, Pattern: &ast.StringExpression{Value: c.pattern}}
		got, err := Expression(env, expr, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, c.want, got.AsBool(), "pattern=%q input=%q", c.pattern, c.input)
	}
}

func Test_Expression_GlobMatchesShellStylePattern(t *testing.T) {
	env := environment.New()
	expr := &ast.GlobExpression{Input: &ast.StringExpression{Value: "release-1.2.3"}, Pattern: &ast.StringExpression{Value: "release-*"}}
	got, err := Expression(env, expr, nil, nil)
	require.NoError(t, err)
	assert.True(t, got.AsBool())
}

func Test_Expression_GlobInvalidPatternIsError(t *testing.T) {
	env := environment.New()
	expr := &ast.GlobExpression{Input: &ast.StringExpression{Value: "x"}, Pattern: &ast.StringExpression{Value: "["}}
	_, err := Expression(env, expr, nil, nil)
	assert.Error(t, err)
}

func Test_Expression_AssignmentWritesGlobal(t *testing.T) {
	env := environment.New()
	expr := &ast.AssignmentExpression{Symbol: "@x", Value: &ast.NumberExpression{Value: types.NewInteger(42)}}
	got, err := Expression(env, expr, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.AsInt())
	assert.Equal(t, int64(42), env.Globals["@x"].AsInt())
}

func Test_Expression_BitwiseShifts(t *testing.T) {
	env := environment.New()
	expr := &ast.BitwiseExpression{
		Left:     &ast.NumberExpression{Value: types.NewInteger(1)},
		Operator: ast.BitwiseLeftShift,
		Right:    &ast.NumberExpression{Value: types.NewInteger(3)},
	}
	got, err := Expression(env, expr, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.AsInt())
}
