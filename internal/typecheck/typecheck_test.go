// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/gitql/internal/ast"
	"github.com/hashicorp/gitql/internal/environment"
	"github.com/hashicorp/gitql/internal/types"
)

func Test_IsExpressionTypeEquals_AlreadyEqual(t *testing.T) {
	scope := environment.New()
	expr := &ast.StringExpression{Value: "name", ValueType: ast.StringValueText}
	got := IsExpressionTypeEquals(scope, expr, types.Text)
	assert.Equal(t, Equals, got.Result)
}

func Test_IsExpressionTypeEquals_CastsTextToTime(t *testing.T) {
	scope := environment.New()
	expr := &ast.StringExpression{Value: "12:36:31", ValueType: ast.StringValueText}
	got := IsExpressionTypeEquals(scope, expr, types.Time)
	require.Equal(t, RightSideCasted, got.Result)
	casted := got.Casted.(*ast.StringExpression)
	assert.Equal(t, ast.StringValueTime, casted.ValueType)
}

func Test_IsExpressionTypeEquals_CastsTextToDate(t *testing.T) {
	scope := environment.New()
	expr := &ast.StringExpression{Value: "2024-01-10", ValueType: ast.StringValueText}
	got := IsExpressionTypeEquals(scope, expr, types.Date)
	require.Equal(t, RightSideCasted, got.Result)
}

func Test_IsExpressionTypeEquals_CastsTextToDateTime(t *testing.T) {
	scope := environment.New()
	expr := &ast.StringExpression{Value: "2024-01-10 12:36:31", ValueType: ast.StringValueText}
	got := IsExpressionTypeEquals(scope, expr, types.DateTime)
	require.Equal(t, RightSideCasted, got.Result)
}

func Test_IsExpressionTypeEquals_InvalidCastIsError(t *testing.T) {
	scope := environment.New()
	expr := &ast.StringExpression{Value: "not-a-time", ValueType: ast.StringValueText}
	got := IsExpressionTypeEquals(scope, expr, types.Time)
	require.Equal(t, Error, got.Result)
	assert.Contains(t, got.Err.Message(), "can't be implicitly casted to Time")
}

func Test_IsExpressionTypeEquals_NotEqualAndCantCast(t *testing.T) {
	scope := environment.New()
	expr := &ast.StringExpression{Value: "invalid", ValueType: ast.StringValueText}
	got := IsExpressionTypeEquals(scope, expr, types.Integer)
	assert.Equal(t, NotEqualAndCantImplicitCast, got.Result)
}

func Test_AreTypesEquals_LeftSideCasted(t *testing.T) {
	scope := environment.New()
	lhs := &ast.StringExpression{Value: "2024-01-10", ValueType: ast.StringValueText}
	rhs := &ast.SymbolExpression{Value: "commit_date"}
	scope.Define("commit_date", types.Date)

	got := AreTypesEquals(scope, lhs, rhs)
	require.Equal(t, LeftSideCasted, got.Result)
}

func Test_CheckAllValuesAreSameType(t *testing.T) {
	scope := environment.New()
	args := []ast.Expression{
		&ast.NumberExpression{Value: types.NewInteger(1)},
		&ast.NumberExpression{Value: types.NewInteger(2)},
	}
	dt, ok := CheckAllValuesAreSameType(scope, args)
	require.True(t, ok)
	assert.True(t, dt.Equals(types.Integer))

	mismatched := []ast.Expression{
		&ast.NumberExpression{Value: types.NewInteger(1)},
		&ast.StringExpression{Value: "x", ValueType: ast.StringValueText},
	}
	_, ok = CheckAllValuesAreSameType(scope, mismatched)
	assert.False(t, ok)

	dt, ok = CheckAllValuesAreSameType(scope, nil)
	require.True(t, ok)
	assert.True(t, dt.Equals(types.Any))
}
