// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/gitql/internal/ast"
	"github.com/hashicorp/gitql/internal/environment"
	"github.com/hashicorp/gitql/internal/object"
	"github.com/hashicorp/gitql/internal/types"
)

type stubSource struct {
	rows []object.Row
}

func (s *stubSource) SelectRows(env *environment.Environment, tableName string, fieldNames, titles []string, fieldValues []ast.Expression) (object.Group, error) {
	return object.Group{Rows: append([]object.Row(nil), s.rows...)}, nil
}

func selectQuery(table string, fields []string, distinct bool) *ast.GQLQuery {
	return &ast.GQLQuery{
		Statements: map[ast.StatementKind]ast.Statement{
			ast.KindSelectStatement: &ast.SelectStatement{
				TableName:   table,
				FieldsNames: fields,
				IsDistinct:  distinct,
			},
		},
	}
}

func Test_Evaluate_SetGlobalVariable(t *testing.T) {
	env := environment.New()
	query := &ast.Query{GlobalVariable: &ast.GlobalVariableStatement{
		Name:  "@x",
		Value: &ast.NumberExpression{Value: types.NewInteger(7)},
	}}
	result, err := Evaluate(env, []RowSource{&stubSource{}}, query)
	require.NoError(t, err)
	assert.True(t, result.IsGlobalVariable)
	assert.Equal(t, int64(7), env.Globals["@x"].AsInt())
}

func Test_Evaluate_EmptyFirstGroupShortCircuits(t *testing.T) {
	env := environment.New()
	query := &ast.Query{Select: selectQuery("refs", []string{"name"}, false)}
	source := &stubSource{}
	result, err := Evaluate(env, []RowSource{source}, query)
	require.NoError(t, err)
	require.NotNil(t, result.Object)
	assert.True(t, result.Object.IsEmpty() || result.Object.Groups[0].IsEmpty())
}

func Test_Evaluate_FansSelectOutAcrossRepositories(t *testing.T) {
	env := environment.New()
	query := &ast.Query{Select: selectQuery("refs", []string{"name"}, false)}
	a := &stubSource{rows: []object.Row{{Values: []types.Value{types.NewText("a")}}}}
	b := &stubSource{rows: []object.Row{{Values: []types.Value{types.NewText("b")}}}}

	result, err := Evaluate(env, []RowSource{a, b}, query)
	require.NoError(t, err)
	require.Len(t, result.Object.Groups[0].Rows, 2)
}

func Test_Evaluate_DistinctDeduplicatesVisibleColumns(t *testing.T) {
	env := environment.New()
	query := &ast.Query{Select: selectQuery("refs", []string{"name"}, true)}
	source := &stubSource{rows: []object.Row{
		{Values: []types.Value{types.NewText("main")}},
		{Values: []types.Value{types.NewText("main")}},
		{Values: []types.Value{types.NewText("dev")}},
	}}

	result, err := Evaluate(env, []RowSource{source}, query)
	require.NoError(t, err)
	assert.Len(t, result.Object.Groups[0].Rows, 2)
}

func Test_Evaluate_CollapsesSingleGroupAggregationWithoutGroupBy(t *testing.T) {
	env := environment.New()
	query := &ast.Query{Select: &ast.GQLQuery{
		HasAggregationFunction: true,
		Statements: map[ast.StatementKind]ast.Statement{
			ast.KindSelectStatement: &ast.SelectStatement{TableName: "diffs", FieldsNames: []string{"insertions"}},
			ast.KindAggregateFunctionStatement: &ast.AggregationFunctionsStatement{
				Aggregations: map[string]ast.AggregateValue{
					"insertions": {Kind: ast.AggregateValueFunction, FunctionName: "max", Argument: "insertions"},
				},
			},
		},
	}}
	source := &stubSource{rows: []object.Row{
		{Values: []types.Value{types.NewInteger(1)}},
		{Values: []types.Value{types.NewInteger(5)}},
	}}

	result, err := Evaluate(env, []RowSource{source}, query)
	require.NoError(t, err)
	require.Len(t, result.Object.Groups, 1)
	require.Len(t, result.Object.Groups[0].Rows, 1)
	assert.Equal(t, int64(5), result.Object.Groups[0].Rows[0].Values[0].AsInt())
}
