// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package exec is X2: it runs one parsed clause against the in-progress
// GitQLObject. Statement runs the full dispatch the orchestrator
// (internal/engine) calls once per clause per query; the clause order
// itself is the orchestrator's responsibility, not this package's.
package exec

import (
	"fmt"
	"sort"

	"github.com/hashicorp/gitql/internal/ast"
	"github.com/hashicorp/gitql/internal/environment"
	"github.com/hashicorp/gitql/internal/eval"
	"github.com/hashicorp/gitql/internal/function"
	"github.com/hashicorp/gitql/internal/object"
	"github.com/hashicorp/gitql/internal/types"
)

// RowSource reads the physical rows of one table from one backing
// repository and evaluates every selected field expression against each
// record, producing a Group whose rows are positionally aligned with
// titles. internal/gitsource is the only implementation.
type RowSource interface {
	SelectRows(env *environment.Environment, tableName string, fieldNames, titles []string, fieldValues []ast.Expression) (object.Group, error)
}

// Statement runs one clause against obj, mirroring the source's
// execute_statement dispatch. aliasTable and hiddenSelections are shared
// across every clause of one query; source is only consulted by Select.
func Statement(env *environment.Environment, stmt ast.Statement, source RowSource, obj *object.GitQLObject, aliasTable map[string]string, hiddenSelections []string) error {
	switch s := stmt.(type) {
	case *ast.SelectStatement:
		for alias, original := range s.AliasTable {
			aliasTable[alias] = original
		}
		return executeSelect(env, s, source, obj, hiddenSelections)
	case *ast.WhereStatement:
		return executeFilter(env, s.Condition, obj)
	case *ast.HavingStatement:
		flattenInPlace(obj)
		return executeFilter(env, s.Condition, obj)
	case *ast.LimitStatement:
		return executeLimit(s, obj)
	case *ast.OffsetStatement:
		return executeOffset(s, obj)
	case *ast.OrderByStatement:
		return executeOrderBy(env, s, obj)
	case *ast.GroupByStatement:
		return executeGroupBy(s, obj)
	case *ast.AggregationFunctionsStatement:
		return executeAggregations(env, s, obj, aliasTable)
	case *ast.GlobalVariableStatement:
		return GlobalVariable(env, s)
	default:
		return fmt.Errorf("exec: unhandled statement %T", stmt)
	}
}

func executeSelect(env *environment.Environment, stmt *ast.SelectStatement, source RowSource, obj *object.GitQLObject, hiddenSelections []string) error {
	fieldsNames := append([]string(nil), stmt.FieldsNames...)
	if stmt.TableName != "" {
		for _, hidden := range hiddenSelections {
			if !contains(fieldsNames, hidden) {
				fieldsNames = append(fieldsNames, hidden)
			}
		}
	}

	if len(obj.Titles) == 0 {
		for _, field := range fieldsNames {
			obj.Titles = append(obj.Titles, columnName(stmt.AliasTable, field))
		}
	}

	objects, err := source.SelectRows(env, stmt.TableName, fieldsNames, obj.Titles, stmt.FieldsValues)
	if err != nil {
		return err
	}

	if obj.IsEmpty() {
		obj.Groups = append(obj.Groups, objects)
	} else {
		obj.Groups[0].Rows = append(obj.Groups[0].Rows, objects.Rows...)
	}
	return nil
}

func executeFilter(env *environment.Environment, condition ast.Expression, obj *object.GitQLObject) error {
	if obj.IsEmpty() {
		return nil
	}

	filtered := object.Group{}
	for _, row := range obj.Groups[0].Rows {
		result, err := eval.Expression(env, condition, obj.Titles, row.Values)
		if err != nil {
			return err
		}
		if result.AsBool() {
			filtered.Rows = append(filtered.Rows, object.Row{Values: row.Values})
		}
	}

	obj.Groups[0] = filtered
	return nil
}

func executeLimit(stmt *ast.LimitStatement, obj *object.GitQLObject) error {
	if obj.IsEmpty() {
		return nil
	}
	flattenInPlace(obj)

	main := &obj.Groups[0]
	if stmt.Count <= main.Len() {
		main.Rows = main.Rows[:stmt.Count]
	}
	return nil
}

func executeOffset(stmt *ast.OffsetStatement, obj *object.GitQLObject) error {
	if obj.IsEmpty() {
		return nil
	}
	flattenInPlace(obj)

	main := &obj.Groups[0]
	n := stmt.Count
	if n > main.Len() {
		n = main.Len()
	}
	main.Rows = main.Rows[n:]
	return nil
}

// executeOrderBy sorts the flattened rows with a multi-key comparator,
// skipping constant arguments. Compare's contract is reversed (see
// types.Value.Compare): cmp > 0 means the left side sorts lower, so
// ascending order keeps that relative order and descending reverses it.
func executeOrderBy(env *environment.Environment, stmt *ast.OrderByStatement, obj *object.GitQLObject) error {
	if obj.IsEmpty() {
		return nil
	}
	flattenInPlace(obj)

	main := &obj.Groups[0]
	if main.IsEmpty() {
		return nil
	}

	rows := main.Rows
	sort.SliceStable(rows, func(i, j int) bool {
		for k, argument := range stmt.Arguments {
			if ast.IsConst(argument) {
				continue
			}

			first, err := eval.Expression(env, argument, obj.Titles, rows[i].Values)
			if err != nil {
				first = types.NewNull()
			}
			other, err := eval.Expression(env, argument, obj.Titles, rows[j].Values)
			if err != nil {
				other = types.NewNull()
			}

			cmp := first.Compare(other)
			if cmp == 0 {
				continue
			}
			if stmt.SortingOrders[k] == ast.SortDescending {
				return cmp < 0
			}
			return cmp > 0
		}
		return false
	})

	return nil
}

// executeGroupBy buckets the main group's rows by the string rendering of
// field_name, assigning groups in first-occurrence order.
func executeGroupBy(stmt *ast.GroupByStatement, obj *object.GitQLObject) error {
	if obj.IsEmpty() {
		return nil
	}

	main := obj.Groups[0]
	obj.Groups = obj.Groups[1:]
	if main.IsEmpty() {
		return nil
	}

	fieldIndex := indexOf(obj.Titles, stmt.FieldName)

	groupIndex := make(map[string]int)
	for _, row := range main.Rows {
		key := row.Values[fieldIndex].AsText()
		if idx, ok := groupIndex[key]; ok {
			obj.Groups[idx].Rows = append(obj.Groups[idx].Rows, row)
			continue
		}
		groupIndex[key] = len(obj.Groups)
		obj.Groups = append(obj.Groups, object.Group{Rows: []object.Row{row}})
	}
	return nil
}

// executeAggregations runs the two-phase splice: every AggregateValueFunction
// entry is computed once per group and written into every row of the group
// at its generated column's index, then every AggregateValueExpression entry
// is evaluated per row using the ordinary expression evaluator — which sees
// the just-spliced aggregate values as ordinary symbol references, so the
// evaluator itself needs no special case for aggregate calls.
func executeAggregations(env *environment.Environment, stmt *ast.AggregationFunctionsStatement, obj *object.GitQLObject, aliasTable map[string]string) error {
	if len(stmt.Aggregations) == 0 {
		return nil
	}

	groupsCount := obj.Len()

	for g := range obj.Groups {
		group := &obj.Groups[g]
		if group.IsEmpty() {
			continue
		}

		for resultColumn, value := range stmt.Aggregations {
			if value.Kind != ast.AggregateValueFunction {
				continue
			}
			columnIdx := indexOf(obj.Titles, columnName(aliasTable, resultColumn))

			aggregate, ok := function.LookupAggregate(value.FunctionName)
			if !ok {
				return fmt.Errorf("exec: unknown aggregate function %q", value.FunctionName)
			}
			result := aggregate(value.Argument, obj.Titles, *group)

			for r := range group.Rows {
				writeColumn(&group.Rows[r], columnIdx, result)
			}
		}

		for resultColumn, value := range stmt.Aggregations {
			if value.Kind != ast.AggregateValueExpression {
				continue
			}
			columnIdx := indexOf(obj.Titles, columnName(aliasTable, resultColumn))

			for r := range group.Rows {
				result, err := eval.Expression(env, value.Expression, obj.Titles, group.Rows[r].Values)
				if err != nil {
					return err
				}
				writeColumn(&group.Rows[r], columnIdx, result)
			}
		}

		if groupsCount > 1 && group.Len() > 1 {
			group.Rows = group.Rows[:1]
		}
	}

	return nil
}

// GlobalVariable runs a top-level `SET @name := value`, writing to env only
// once the value expression has evaluated successfully.
func GlobalVariable(env *environment.Environment, stmt *ast.GlobalVariableStatement) error {
	value, err := eval.Expression(env, stmt.Value, nil, nil)
	if err != nil {
		return err
	}
	env.Globals[stmt.Name] = value
	return nil
}

func flattenInPlace(obj *object.GitQLObject) {
	if obj.Len() > 1 {
		*obj = object.GitQLObject{Titles: obj.Titles, Groups: []object.Group{obj.Flat()}}
	}
}

func columnName(aliasTable map[string]string, field string) string {
	if alias, ok := aliasTable[field]; ok {
		return alias
	}
	return field
}

func writeColumn(row *object.Row, index int, value types.Value) {
	if index < len(row.Values) {
		row.Values[index] = value
		return
	}
	row.Values = append(row.Values, value)
}

func indexOf(titles []string, name string) int {
	for i, t := range titles {
		if t == name {
			return i
		}
	}
	return -1
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
