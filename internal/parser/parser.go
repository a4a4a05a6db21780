// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package parser

import (
	"strings"

	"github.com/hashicorp/gitql/internal/ast"
	"github.com/hashicorp/gitql/internal/catalog"
	"github.com/hashicorp/gitql/internal/diagnostic"
	"github.com/hashicorp/gitql/internal/environment"
	"github.com/hashicorp/gitql/internal/token"
)

// state is the parser's cursor into the token stream plus the Environment
// it resolves symbols and registers new ones against as it goes.
type state struct {
	env      *environment.Environment
	tokens   []token.Token
	position int
}

// Parse turns a tokenized query into a Query: a SET global-variable
// declaration or a fully resolved SELECT pipeline. env accumulates the
// global variables and local field bindings this query defines, the same
// way the source's type checker threads one Environment through a whole
// parse.
func Parse(env *environment.Environment, tokens []token.Token) (*ast.Query, *diagnostic.Diagnostic) {
	if len(tokens) == 0 {
		return nil, diagnostic.Error("Unexpected empty query")
	}

	// Tokenize always appends a trailing EOF token; the statement parsers
	// below (ported from a stream with no such sentinel) treat running off
	// the end of s.tokens as the end of input, so drop it here rather than
	// teach every parsing loop about it.
	if tokens[len(tokens)-1].Kind == token.EOF {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return nil, diagnostic.Error("Unexpected empty query")
	}

	s := &state{env: env, tokens: tokens}

	var query *ast.Query
	var err *diagnostic.Diagnostic
	switch tokens[0].Kind {
	case token.Set:
		query, err = s.parseSetQuery()
	case token.Select:
		query, err = s.parseSelectQuery()
	default:
		return nil, s.unexpectedStatementError()
	}
	if err != nil {
		return nil, err
	}

	if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.Semicolon {
		s.position++
	}

	if s.position < len(s.tokens) {
		statementName := "select"
		if query.GlobalVariable != nil {
			statementName = "set"
		}
		return nil, s.unexpectedContentAfterStatement(statementName)
	}

	return query, nil
}

func (s *state) parseSetQuery() (*ast.Query, *diagnostic.Diagnostic) {
	// Consume `SET` keyword.
	s.position++

	if s.position >= len(s.tokens) || s.tokens[s.position].Kind != token.GlobalVariable {
		return nil, diagnostic.Error("Expect Global variable name start with `@` after `SET` keyword").
			WithLocation(s.safeSpan(s.position))
	}
	name := s.tokens[s.position].Literal
	s.position++

	if s.position >= len(s.tokens) || !isAssignmentOperator(s.tokens[s.position]) {
		return nil, diagnostic.Error("Expect `=` or `:=` and Value after Variable name").
			WithLocation(s.safeSpan(s.position))
	}
	// Consume `=`/`:=`.
	s.position++

	ctx := newContext()
	value, err := s.parseExpression(ctx)
	if err != nil {
		return nil, err
	}
	if len(ctx.aggregations) != 0 {
		return nil, diagnostic.Error("Aggregation value can't be assigned to global variable").
			WithLocation(s.safeSpan(s.position))
	}

	s.env.DefineGlobal(name, value.ExprType(s.env))

	return &ast.Query{GlobalVariable: &ast.GlobalVariableStatement{Name: name, Value: value}}, nil
}

func isAssignmentOperator(t token.Token) bool {
	return t.Kind == token.Equal || t.Kind == token.ColonEqual
}

func (s *state) unexpectedStatementError() *diagnostic.Diagnostic {
	span := s.tokens[s.position].Span
	if span.Start == 0 {
		return diagnostic.Error("Unexpected statement").
			AddHelp("Expect query to start with `SELECT` or `SET` keyword").
			WithLocation(span)
	}
	return diagnostic.Error("Unexpected statement").WithLocation(span)
}

func (s *state) unexpectedContentAfterStatement(statementName string) *diagnostic.Diagnostic {
	start := s.tokens[s.position].Span.Start
	end := s.tokens[len(s.tokens)-1].Span.End
	return diagnostic.Error("Unexpected content after the end of `%s` statement", strings.ToUpper(statementName)).
		AddHelp("Try to check if statement keyword is missing").
		AddHelp("Try remove un expected extra content").
		WithLocation(diagnostic.Span{Start: start, End: end})
}

// safeSpan returns the span of the token at position, or the last token's
// span if position has run past the end of the stream.
func (s *state) safeSpan(position int) diagnostic.Span {
	if position >= 0 && position < len(s.tokens) {
		return s.tokens[position].Span
	}
	if position < 0 {
		return s.tokens[0].Span
	}
	return s.tokens[len(s.tokens)-1].Span
}

func consumeKind(tokens []token.Token, position int, kind token.Kind) bool {
	return position < len(tokens) && tokens[position].Kind == kind
}

// registerCurrentTableFieldsTypes defines every column of table in env's
// local scope, so bare column references type-check against it.
func registerCurrentTableFieldsTypes(table string, env *environment.Environment) {
	fields, _ := catalog.Fields(table)
	for _, field := range fields {
		dt, _ := catalog.FieldType(field)
		env.Define(field, dt)
	}
}
