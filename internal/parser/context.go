// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package parser is P3: the recursive-descent, precedence-climbing parser
// that turns a token stream into a typed ast.Query, running the type
// checker inline as it goes so a query either parses into a fully
// type-resolved tree or fails with a Diagnostic before execution begins.
package parser

import (
	"strconv"

	"github.com/hashicorp/gitql/internal/ast"
)

// context carries the state that accumulates across a single SELECT parse:
// aggregate calls hoisted out of the expression tree, the set of field
// names the SELECT list actually asked for, and the extra fields pulled in
// along the way to satisfy ORDER BY/GROUP BY/aggregation but not requested.
type context struct {
	aggregations map[string]ast.AggregateValue

	selectedFields   []string
	hiddenSelections []string

	generatedFieldCount int
	isSingleValueQuery  bool
	hasGroupByStatement bool
}

func newContext() *context {
	return &context{aggregations: make(map[string]ast.AggregateValue)}
}

// generateColumnName returns the next column_<n> name used to splice a
// hoisted aggregate (or an aggregate-containing expression) into the
// selection in place of the original expression.
func (c *context) generateColumnName() string {
	c.generatedFieldCount++
	return "column_" + strconv.Itoa(c.generatedFieldCount)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
