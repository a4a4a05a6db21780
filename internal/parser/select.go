// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package parser

import (
	"strconv"

	"github.com/hashicorp/gitql/internal/ast"
	"github.com/hashicorp/gitql/internal/catalog"
	"github.com/hashicorp/gitql/internal/diagnostic"
	"github.com/hashicorp/gitql/internal/token"
	"github.com/hashicorp/gitql/internal/types"
)

// parseSelectQuery parses one full SELECT pipeline: the SELECT clause
// itself plus every optional clause that can follow it, in whatever order
// the user wrote them in (the executor runs them in the fixed clause order
// regardless).
func (s *state) parseSelectQuery() (*ast.Query, *diagnostic.Diagnostic) {
	ctx := newContext()
	statements := make(map[ast.StatementKind]ast.Statement)

clauses:
	for s.position < len(s.tokens) {
		tok := s.tokens[s.position]

		switch tok.Kind {
		case token.Select:
			if _, ok := statements[ast.KindSelectStatement]; ok {
				return nil, diagnostic.Error("You already used `SELECT` statement").
					AddNote("Can't use more than one `SELECT` statement in the same query").
					WithLocation(tok.Span)
			}
			statement, err := s.parseSelectStatement(ctx)
			if err != nil {
				return nil, err
			}
			statements[ast.KindSelectStatement] = statement
			ctx.isSingleValueQuery = len(ctx.aggregations) != 0

		case token.Where:
			if _, ok := statements[ast.KindWhereStatement]; ok {
				return nil, diagnostic.Error("You already used `WHERE` statement").
					AddNote("Can't use more than one `WHERE` statement in the same query").
					WithLocation(tok.Span)
			}
			statement, err := s.parseWhereStatement(ctx)
			if err != nil {
				return nil, err
			}
			statements[ast.KindWhereStatement] = statement

		case token.Group:
			if _, ok := statements[ast.KindGroupByStatement]; ok {
				return nil, diagnostic.Error("You already used `GROUP BY` statement").
					AddNote("Can't use more than one `GROUP BY` statement in the same query").
					WithLocation(tok.Span)
			}
			statement, err := s.parseGroupByStatement(ctx)
			if err != nil {
				return nil, err
			}
			statements[ast.KindGroupByStatement] = statement

		case token.Having:
			if _, ok := statements[ast.KindHavingStatement]; ok {
				return nil, diagnostic.Error("You already used `HAVING` statement").
					AddNote("Can't use more than one `HAVING` statement in the same query").
					WithLocation(tok.Span)
			}
			if _, ok := statements[ast.KindGroupByStatement]; !ok {
				return nil, diagnostic.Error("`HAVING` must be used after `GROUP BY` statement").
					AddNote("`HAVING` statement must be used in a query that has `GROUP BY` statement").
					WithLocation(tok.Span)
			}
			statement, err := s.parseHavingStatement(ctx)
			if err != nil {
				return nil, err
			}
			statements[ast.KindHavingStatement] = statement

		case token.Limit:
			if _, ok := statements[ast.KindLimitStatement]; ok {
				return nil, diagnostic.Error("You already used `LIMIT` statement").
					AddNote("Can't use more than one `LIMIT` statement in the same query").
					WithLocation(tok.Span)
			}
			statement, err := s.parseLimitStatement()
			if err != nil {
				return nil, err
			}
			statements[ast.KindLimitStatement] = statement

			// LIMIT n, m shorthand for LIMIT n OFFSET m.
			if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.Comma {
				if _, ok := statements[ast.KindOffsetStatement]; ok {
					return nil, diagnostic.Error("You already used `OFFSET` statement").
						AddNote("Can't use more than one `OFFSET` statement in the same query").
						WithLocation(tok.Span)
				}
				s.position++

				if s.position >= len(s.tokens) || s.tokens[s.position].Kind != token.Integer {
					return nil, diagnostic.Error("Expects `OFFSET` amount as Integer value after `,`").
						AddHelp("Try to add constant Integer after comma").
						AddNote("`OFFSET` value must be a constant Integer").
						WithLocation(tok.Span)
				}

				count, parseErr := strconv.Atoi(s.tokens[s.position].Literal)
				if parseErr != nil {
					return nil, diagnostic.Error("`OFFSET` integer value is invalid").
						AddHelp("`OFFSET` value must be a non-negative integer").
						WithLocation(tok.Span)
				}
				s.position++

				statements[ast.KindOffsetStatement] = &ast.OffsetStatement{Count: count}
			}

		case token.Offset:
			if _, ok := statements[ast.KindOffsetStatement]; ok {
				return nil, diagnostic.Error("You already used `OFFSET` statement").
					AddNote("Can't use more than one `OFFSET` statement in the same query").
					WithLocation(tok.Span)
			}
			statement, err := s.parseOffsetStatement()
			if err != nil {
				return nil, err
			}
			statements[ast.KindOffsetStatement] = statement

		case token.Order:
			if _, ok := statements[ast.KindOrderByStatement]; ok {
				return nil, diagnostic.Error("You already used `ORDER BY` statement").
					AddNote("Can't use more than one `ORDER BY` statement in the same query").
					WithLocation(tok.Span)
			}
			statement, err := s.parseOrderByStatement(ctx)
			if err != nil {
				return nil, err
			}
			statements[ast.KindOrderByStatement] = statement

		default:
			break clauses
		}
	}

	if len(ctx.aggregations) != 0 {
		statements[ast.KindAggregateFunctionStatement] = &ast.AggregationFunctionsStatement{Aggregations: ctx.aggregations}
	}

	var hiddenSelections []string
	for _, name := range ctx.hiddenSelections {
		if !contains(ctx.selectedFields, name) {
			hiddenSelections = append(hiddenSelections, name)
		}
	}

	return &ast.Query{Select: &ast.GQLQuery{
		Statements:             statements,
		HasAggregationFunction: ctx.isSingleValueQuery,
		HasGroupByStatement:    ctx.hasGroupByStatement,
		HiddenSelections:       hiddenSelections,
	}}, nil
}

func (s *state) parseSelectStatement(ctx *context) (*ast.SelectStatement, *diagnostic.Diagnostic) {
	// Consume `SELECT` keyword.
	s.position++

	if s.position >= len(s.tokens) {
		return nil, diagnostic.Error("Incomplete input for select statement").
			AddHelp("Try select one or more values in the `SELECT` statement").
			AddNote("Select statements requires at least selecting one value").
			WithLocation(s.safeSpan(s.position - 1))
	}

	var tableName string
	var fieldsNames []string
	var fieldsValues []ast.Expression
	aliasTable := make(map[string]string)
	isSelectAll := false
	isDistinct := false

	if s.tokens[s.position].Kind == token.Distinct {
		isDistinct = true
		s.position++
	}

	if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.Star {
		s.position++
		isSelectAll = true
	} else {
		for s.position < len(s.tokens) && s.tokens[s.position].Kind != token.From {
			expr, err := s.parseExpression(ctx)
			if err != nil {
				return nil, err
			}
			exprType := expr.ExprType(s.env)

			fieldName, ok := expressionName(expr)
			if !ok {
				fieldName = ctx.generateColumnName()
			}

			if contains(fieldsNames, fieldName) {
				return nil, diagnostic.Error("Can't select the same field twice").WithLocation(s.safeSpan(s.position - 1))
			}

			if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.As {
				s.position++
				if !consumeKind(s.tokens, s.position, token.Symbol) {
					return nil, diagnostic.Error("Expect `identifier` as field alias name").WithLocation(s.safeSpan(s.position))
				}
				aliasName := s.tokens[s.position].Literal
				if contains(ctx.selectedFields, aliasName) {
					return nil, diagnostic.Error("You already have field with the same name").
						AddHelp("Try to use a new unique name for alias").
						WithLocation(s.safeSpan(s.position))
				}
				if _, ok := aliasTable[aliasName]; ok {
					return nil, diagnostic.Error("You already have field with the same name").
						AddHelp("Try to use a new unique name for alias").
						WithLocation(s.safeSpan(s.position))
				}
				s.position++

				s.env.Define(aliasName, exprType)
				ctx.selectedFields = append(ctx.selectedFields, aliasName)
				aliasTable[fieldName] = aliasName
			}

			s.env.Define(fieldName, exprType)
			fieldsNames = append(fieldsNames, fieldName)
			ctx.selectedFields = append(ctx.selectedFields, fieldName)
			fieldsValues = append(fieldsValues, expr)

			if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.Comma {
				s.position++
			} else {
				break
			}
		}
	}

	if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.From {
		s.position++

		if !consumeKind(s.tokens, s.position, token.Symbol) {
			return nil, diagnostic.Error("Expect `identifier` as a table name").
				AddNote("Table name must be an identifier").
				WithLocation(s.safeSpan(s.position))
		}
		tableName = s.tokens[s.position].Literal
		s.position++

		if !catalog.IsTable(tableName) {
			return nil, diagnostic.Error("Unresolved table name").
				AddHelp("Check the documentations to see available tables").
				WithLocation(s.safeSpan(s.position))
		}

		registerCurrentTableFieldsTypes(tableName, s.env)
	}

	if isSelectAll && tableName == "" {
		return nil, diagnostic.Error("Expect `FROM` and table name after `SELECT *`").
			AddNote("Select all must be used with valid table name").
			WithLocation(s.safeSpan(s.position))
	}

	if !isSelectAll && len(fieldsNames) == 0 {
		return nil, diagnostic.Error("Incomplete input for select statement").
			AddHelp("Try select one or more values in the `SELECT` statement").
			AddNote("Select statements requires at least selecting one value").
			WithLocation(s.safeSpan(s.position - 1))
	}

	if isSelectAll {
		fields, _ := catalog.Fields(tableName)
		for _, field := range fields {
			if contains(fieldsNames, field) {
				continue
			}
			fieldsNames = append(fieldsNames, field)
			ctx.selectedFields = append(ctx.selectedFields, field)
			fieldsValues = append(fieldsValues, &ast.SymbolExpression{Value: field})
		}
	}

	if err := s.typeCheckSelectedFields(tableName, fieldsNames); err != nil {
		return nil, err
	}

	return &ast.SelectStatement{
		TableName:    tableName,
		FieldsNames:  fieldsNames,
		FieldsValues: fieldsValues,
		AliasTable:   aliasTable,
		IsDistinct:   isDistinct,
	}, nil
}

func (s *state) typeCheckSelectedFields(tableName string, fieldsNames []string) *diagnostic.Diagnostic {
	for _, fieldName := range fieldsNames {
		dt, ok := s.env.ResolveType(fieldName)
		if ok {
			if dt.IsUndefined() {
				return diagnostic.Error("No field with name `%s`", fieldName).WithLocation(s.safeSpan(s.position))
			}
			continue
		}
		return diagnostic.Error("Table `%s` has no field with name `%s`", tableName, fieldName).
			AddHelp("Check the documentations to see available fields for each tables").
			WithLocation(s.safeSpan(s.position))
	}
	return nil
}

func (s *state) parseWhereStatement(ctx *context) (*ast.WhereStatement, *diagnostic.Diagnostic) {
	s.position++
	if s.position >= len(s.tokens) {
		return nil, diagnostic.Error("Expect expression after `WHERE` keyword").
			AddHelp("Try to add boolean expression after `WHERE` keyword").
			AddNote("`WHERE` statement expects expression as condition").
			WithLocation(s.safeSpan(s.position - 1))
	}

	aggregationsBefore := len(ctx.aggregations)
	conditionSpan := s.tokens[s.position].Span
	condition, err := s.parseExpression(ctx)
	if err != nil {
		return nil, err
	}
	if !condition.ExprType(s.env).Equals(types.Boolean) {
		return nil, diagnostic.Error("Expect `WHERE` condition to be type %s but got %s", types.Boolean, condition.ExprType(s.env)).
			AddNote("`WHERE` statement condition must be Boolean").
			WithLocation(conditionSpan)
	}

	if len(ctx.aggregations) != aggregationsBefore {
		return nil, diagnostic.Error("Can't use Aggregation functions in `WHERE` statement").
			AddNote("Aggregation functions must be used after `GROUP BY` statement").
			AddNote("Aggregation functions evaluated after later after `GROUP BY` statement").
			WithLocation(conditionSpan)
	}

	return &ast.WhereStatement{Condition: condition}, nil
}

func (s *state) parseGroupByStatement(ctx *context) (*ast.GroupByStatement, *diagnostic.Diagnostic) {
	s.position++
	if s.position >= len(s.tokens) || s.tokens[s.position].Kind != token.By {
		return nil, diagnostic.Error("Expect keyword `by` after keyword `group`").
			AddHelp("Try to use `BY` keyword after `GROUP").
			WithLocation(s.safeSpan(s.position - 1))
	}
	s.position++

	if s.position >= len(s.tokens) || s.tokens[s.position].Kind != token.Symbol {
		return nil, diagnostic.Error("Expect field name after `group by`").WithLocation(s.safeSpan(s.position - 1))
	}
	fieldName := s.tokens[s.position].Literal
	s.position++

	if !s.env.Contains(fieldName) {
		return nil, diagnostic.Error("Current table not contains field with this name").
			AddHelp("Check the documentations to see available fields for each tables").
			WithLocation(s.safeSpan(s.position - 1))
	}

	ctx.hasGroupByStatement = true
	return &ast.GroupByStatement{FieldName: fieldName}, nil
}

func (s *state) parseHavingStatement(ctx *context) (*ast.HavingStatement, *diagnostic.Diagnostic) {
	s.position++
	if s.position >= len(s.tokens) {
		return nil, diagnostic.Error("Expect expression after `HAVING` keyword").
			AddHelp("Try to add boolean expression after `HAVING` keyword").
			AddNote("`HAVING` statement expects expression as condition").
			WithLocation(s.safeSpan(s.position - 1))
	}

	conditionSpan := s.tokens[s.position].Span
	condition, err := s.parseExpression(ctx)
	if err != nil {
		return nil, err
	}
	if !condition.ExprType(s.env).Equals(types.Boolean) {
		return nil, diagnostic.Error("Expect `HAVING` condition to be type %s but got %s", types.Boolean, condition.ExprType(s.env)).
			AddNote("`HAVING` statement condition must be Boolean").
			WithLocation(conditionSpan)
	}

	return &ast.HavingStatement{Condition: condition}, nil
}

func (s *state) parseLimitStatement() (*ast.LimitStatement, *diagnostic.Diagnostic) {
	s.position++
	if s.position >= len(s.tokens) || s.tokens[s.position].Kind != token.Integer {
		return nil, diagnostic.Error("Expect number after `LIMIT` keyword").WithLocation(s.safeSpan(s.position - 1))
	}

	count, parseErr := strconv.Atoi(s.tokens[s.position].Literal)
	if parseErr != nil {
		return nil, diagnostic.Error("`LIMIT` integer value is invalid").
			AddHelp("`LIMIT` value must be a non-negative integer").
			WithLocation(s.safeSpan(s.position))
	}
	s.position++

	return &ast.LimitStatement{Count: count}, nil
}

func (s *state) parseOffsetStatement() (*ast.OffsetStatement, *diagnostic.Diagnostic) {
	s.position++
	if s.position >= len(s.tokens) || s.tokens[s.position].Kind != token.Integer {
		return nil, diagnostic.Error("Expect number after `OFFSET` keyword").WithLocation(s.safeSpan(s.position - 1))
	}

	count, parseErr := strconv.Atoi(s.tokens[s.position].Literal)
	if parseErr != nil {
		return nil, diagnostic.Error("`OFFSET` integer value is invalid").
			AddHelp("`OFFSET` value must be a non-negative integer").
			WithLocation(s.safeSpan(s.position))
	}
	s.position++

	return &ast.OffsetStatement{Count: count}, nil
}

func (s *state) parseOrderByStatement(ctx *context) (*ast.OrderByStatement, *diagnostic.Diagnostic) {
	// Consume `ORDER` keyword.
	s.position++

	if s.position >= len(s.tokens) || s.tokens[s.position].Kind != token.By {
		return nil, diagnostic.Error("Expect keyword `BY` after keyword `ORDER").
			AddHelp("Try to use `BY` keyword after `ORDER").
			WithLocation(s.safeSpan(s.position - 1))
	}
	s.position++

	var arguments []ast.Expression
	var sortingOrders []ast.SortingOrder

	for {
		argument, err := s.parseExpression(ctx)
		if err != nil {
			return nil, err
		}
		arguments = append(arguments, argument)

		order := ast.SortAscending
		if s.position < len(s.tokens) && isAscOrDesc(s.tokens[s.position]) {
			if s.tokens[s.position].Kind == token.Descending {
				order = ast.SortDescending
			}
			s.position++
		}
		sortingOrders = append(sortingOrders, order)

		if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.Comma {
			s.position++
		} else {
			break
		}
	}

	return &ast.OrderByStatement{Arguments: arguments, SortingOrders: sortingOrders}, nil
}

func isAscOrDesc(t token.Token) bool {
	return t.Kind == token.Ascending || t.Kind == token.Descending
}
