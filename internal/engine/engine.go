// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package engine is X3: the query orchestrator. It walks a parsed query's
// clauses in the one fixed order the engine ever runs them in, fanning the
// Select clause out across every row source and running everything else
// once against the first.
package engine

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/hashicorp/gitql/internal/ast"
	"github.com/hashicorp/gitql/internal/environment"
	"github.com/hashicorp/gitql/internal/exec"
	"github.com/hashicorp/gitql/internal/object"
	"github.com/hashicorp/gitql/internal/types"
)

// RowSource is exec.RowSource under the name external callers (cmd/gitql,
// internal/gitsource) address it by: the interface the executor's Select
// clause fans out across, one instance per queryable repository.
type RowSource = exec.RowSource

// clauseOrder is the fixed sequence every query's clauses run in,
// regardless of the order they appeared in source. Not every clause is
// present in every query; absent ones are simply skipped.
var clauseOrder = []ast.StatementKind{
	ast.KindSelectStatement,
	ast.KindWhereStatement,
	ast.KindGroupByStatement,
	ast.KindAggregateFunctionStatement,
	ast.KindHavingStatement,
	ast.KindOrderByStatement,
	ast.KindOffsetStatement,
	ast.KindLimitStatement,
}

// Result is what a query evaluates to: either a set of rows (a SELECT
// pipeline) or nothing beyond a global variable assignment (SET).
type Result struct {
	Object           *object.GitQLObject
	HiddenSelections []string
	IsGlobalVariable bool
}

// Evaluate runs query to completion against sources, one RowSource per
// queryable repository. sources must be non-empty even when the query has
// no FROM clause, since clauses other than Select still address sources[0].
func Evaluate(env *environment.Environment, sources []exec.RowSource, query *ast.Query) (Result, error) {
	if query.GlobalVariable != nil {
		if err := exec.GlobalVariable(env, query.GlobalVariable); err != nil {
			return Result{}, err
		}
		return Result{IsGlobalVariable: true}, nil
	}

	return evaluateSelect(env, sources, query.Select)
}

func evaluateSelect(env *environment.Environment, sources []exec.RowSource, query *ast.GQLQuery) (Result, error) {
	obj := &object.GitQLObject{}
	aliasTable := make(map[string]string)
	hidden := query.HiddenSelections

	for _, kind := range clauseOrder {
		stmt, ok := query.Statements[kind]
		if !ok {
			continue
		}

		if kind == ast.KindSelectStatement {
			selectStmt := stmt.(*ast.SelectStatement)

			if selectStmt.TableName == "" {
				if err := exec.Statement(env, stmt, sources[0], obj, aliasTable, hidden); err != nil {
					return Result{}, err
				}
				if obj.IsEmpty() || obj.Groups[0].IsEmpty() {
					return Result{Object: obj, HiddenSelections: hidden}, nil
				}
				continue
			}

			for _, source := range sources {
				if err := exec.Statement(env, stmt, source, obj, aliasTable, hidden); err != nil {
					return Result{}, err
				}
			}
			if obj.IsEmpty() || obj.Groups[0].IsEmpty() {
				return Result{Object: obj, HiddenSelections: hidden}, nil
			}
			if selectStmt.IsDistinct {
				applyDistinct(obj, hidden)
			}
			continue
		}

		if err := exec.Statement(env, stmt, sources[0], obj, aliasTable, hidden); err != nil {
			return Result{}, err
		}
	}

	collapseGroups(obj, query)

	return Result{Object: obj, HiddenSelections: hidden}, nil
}

// collapseGroups enforces the post-pipeline invariant: once every clause
// has run, a query with GROUP BY keeps at most one row per group and those
// rows are merged into a single group, and a query with an aggregate but no
// GROUP BY keeps exactly one row overall — every row in the surviving group
// already carries identical spliced aggregate values, so only one
// representative is needed.
func collapseGroups(obj *object.GitQLObject, query *ast.GQLQuery) {
	if obj.Len() > 1 {
		for i := range obj.Groups {
			if obj.Groups[i].Len() > 1 {
				obj.Groups[i].Rows = obj.Groups[i].Rows[:1]
			}
		}
		obj.Groups = []object.Group{obj.Flat()}
		return
	}
	if obj.Len() == 1 && !query.HasGroupByStatement && query.HasAggregationFunction {
		if obj.Groups[0].Len() > 1 {
			obj.Groups[0].Rows = obj.Groups[0].Rows[:1]
		}
	}
}

// applyDistinct keeps the first row seen for each distinct combination of
// visible (non-hidden) column values, relying on the invariant that visible
// fields always occupy the leading prefix of titles/values.
func applyDistinct(obj *object.GitQLObject, hiddenSelections []string) {
	if obj.IsEmpty() {
		return
	}

	visibleCount := 0
	for _, title := range obj.Titles {
		if containsString(hiddenSelections, title) {
			break
		}
		visibleCount++
	}

	rows := obj.Groups[0].Rows
	kept := make([]object.Row, 0, len(rows))
	seen := make(map[[sha256.Size]byte]struct{}, len(rows))

	for _, row := range rows {
		key := fingerprint(row.Values[:visibleCount])
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}

	if len(kept) != len(rows) {
		obj.Groups[0].Rows = kept
	}
}

func fingerprint(values []types.Value) [sha256.Size]byte {
	h := sha256.New()
	var lenBuf [8]byte
	for _, v := range values {
		s := v.Literal()
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(s)))
		h.Write(lenBuf[:])
		h.Write([]byte(s))
	}
	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
