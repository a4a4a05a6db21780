// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/gitql/internal/ast"
	"github.com/hashicorp/gitql/internal/environment"
	"github.com/hashicorp/gitql/internal/object"
	"github.com/hashicorp/gitql/internal/types"
)

// fakeSource stands in for internal/gitsource: it ignores the table name
// and field expressions and returns whatever rows it was built with.
type fakeSource struct {
	rows []object.Row
}

func (f *fakeSource) SelectRows(env *environment.Environment, tableName string, fieldNames, titles []string, fieldValues []ast.Expression) (object.Group, error) {
	return object.Group{Rows: append([]object.Row(nil), f.rows...)}, nil
}

func row(values ...types.Value) object.Row { return object.Row{Values: values} }

func Test_Statement_SelectAppendsToFirstGroup(t *testing.T) {
	env := environment.New()
	obj := &object.GitQLObject{}
	src := &fakeSource{rows: []object.Row{row(types.NewText("main"), types.NewText("repo-a"))}}

	stmt := &ast.SelectStatement{TableName: "refs", FieldsNames: []string{"name", "repo"}}
	err := Statement(env, stmt, src, obj, map[string]string{}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "repo"}, obj.Titles)
	require.Len(t, obj.Groups, 1)
	assert.Equal(t, "main", obj.Groups[0].Rows[0].Values[0].AsText())
}

func Test_Statement_WhereFiltersFirstGroupOnly(t *testing.T) {
	env := environment.New()
	obj := &object.GitQLObject{
		Titles: []string{"name"},
		Groups: []object.Group{{Rows: []object.Row{row(types.NewText("main")), row(types.NewText("dev"))}}},
	}
	stmt := &ast.WhereStatement{Condition: &ast.ComparisonExpression{
		Left:     &ast.SymbolExpression{Value: "name"},
		Operator: ast.ComparisonEqual,
		Right:    &ast.StringExpression{Value: "main"},
	}}
	err := Statement(env, stmt, nil, obj, map[string]string{}, nil)
	require.NoError(t, err)
	require.Len(t, obj.Groups[0].Rows, 1)
	assert.Equal(t, "main", obj.Groups[0].Rows[0].Values[0].AsText())
}

func Test_Statement_LimitTruncatesAndFlattens(t *testing.T) {
	env := environment.New()
	obj := &object.GitQLObject{
		Groups: []object.Group{
			{Rows: []object.Row{row(types.NewInteger(1)), row(types.NewInteger(2))}},
			{Rows: []object.Row{row(types.NewInteger(3))}},
		},
	}
	err := Statement(env, &ast.LimitStatement{Count: 2}, nil, obj, map[string]string{}, nil)
	require.NoError(t, err)
	require.Len(t, obj.Groups, 1)
	assert.Len(t, obj.Groups[0].Rows, 2)
}

func Test_Statement_OffsetDropsLeadingRows(t *testing.T) {
	env := environment.New()
	obj := &object.GitQLObject{Groups: []object.Group{{Rows: []object.Row{row(types.NewInteger(1)), row(types.NewInteger(2)), row(types.NewInteger(3))}}}}
	err := Statement(env, &ast.OffsetStatement{Count: 2}, nil, obj, map[string]string{}, nil)
	require.NoError(t, err)
	require.Len(t, obj.Groups[0].Rows, 1)
	assert.Equal(t, int64(3), obj.Groups[0].Rows[0].Values[0].AsInt())
}

func Test_Statement_OrderByAscendingUsesReversedCompareContract(t *testing.T) {
	env := environment.New()
	obj := &object.GitQLObject{
		Titles: []string{"n"},
		Groups: []object.Group{{Rows: []object.Row{row(types.NewInteger(3)), row(types.NewInteger(1)), row(types.NewInteger(2))}}},
	}
	stmt := &ast.OrderByStatement{
		Arguments:     []ast.Expression{&ast.SymbolExpression{Value: "n"}},
		SortingOrders: []ast.SortingOrder{ast.SortAscending},
	}
	err := Statement(env, stmt, nil, obj, map[string]string{}, nil)
	require.NoError(t, err)
	got := []int64{
		obj.Groups[0].Rows[0].Values[0].AsInt(),
		obj.Groups[0].Rows[1].Values[0].AsInt(),
		obj.Groups[0].Rows[2].Values[0].AsInt(),
	}
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func Test_Statement_GroupByBucketsInFirstOccurrenceOrder(t *testing.T) {
	env := environment.New()
	obj := &object.GitQLObject{
		Titles: []string{"repo"},
		Groups: []object.Group{{Rows: []object.Row{
			row(types.NewText("b")), row(types.NewText("a")), row(types.NewText("b")),
		}}},
	}
	err := Statement(env, &ast.GroupByStatement{FieldName: "repo"}, nil, obj, map[string]string{}, nil)
	require.NoError(t, err)
	require.Len(t, obj.Groups, 2)
	assert.Equal(t, "b", obj.Groups[0].Rows[0].Values[0].AsText())
	assert.Len(t, obj.Groups[0].Rows, 2)
	assert.Equal(t, "a", obj.Groups[1].Rows[0].Values[0].AsText())
}

func Test_Statement_AggregationSplicesFunctionThenExpression(t *testing.T) {
	env := environment.New()
	obj := &object.GitQLObject{
		Titles: []string{"insertions", "column_1", "column_2"},
		Groups: []object.Group{{Rows: []object.Row{
			{Values: []types.Value{types.NewInteger(5), types.NewInteger(0), types.NewInteger(0)}},
			{Values: []types.Value{types.NewInteger(9), types.NewInteger(0), types.NewInteger(0)}},
		}}},
	}
	stmt := &ast.AggregationFunctionsStatement{Aggregations: map[string]ast.AggregateValue{
		"column_1": {Kind: ast.AggregateValueFunction, FunctionName: "max", Argument: "insertions"},
		"column_2": {Kind: ast.AggregateValueExpression, Expression: &ast.ArithmeticExpression{
			Left:     &ast.SymbolExpression{Value: "column_1"},
			Operator: ast.ArithmeticPlus,
			Right:    &ast.NumberExpression{Value: types.NewInteger(1)},
		}},
	}}
	err := Statement(env, stmt, nil, obj, map[string]string{}, nil)
	require.NoError(t, err)
	for _, r := range obj.Groups[0].Rows {
		assert.Equal(t, int64(9), r.Values[1].AsInt())
		assert.Equal(t, int64(10), r.Values[2].AsInt())
	}
}

func Test_Statement_GlobalVariableDoesNotMutateOnError(t *testing.T) {
	env := environment.New()
	stmt := &ast.GlobalVariableStatement{
		Name: "@x",
		Value: &ast.ArithmeticExpression{
			Left:     &ast.NumberExpression{Value: types.NewInteger(10)},
			Operator: ast.ArithmeticSlash,
			Right:    &ast.NumberExpression{Value: types.NewInteger(0)},
		},
	}
	err := Statement(env, stmt, nil, &object.GitQLObject{}, map[string]string{}, nil)
	assert.Error(t, err)
	_, exists := env.Globals["@x"]
	assert.False(t, exists)
}
