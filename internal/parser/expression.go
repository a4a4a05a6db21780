// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package parser

import (
	"strconv"

	"github.com/hashicorp/gitql/internal/ast"
	"github.com/hashicorp/gitql/internal/diagnostic"
	"github.com/hashicorp/gitql/internal/function"
	"github.com/hashicorp/gitql/internal/token"
	"github.com/hashicorp/gitql/internal/typecheck"
	"github.com/hashicorp/gitql/internal/types"
)

// parseExpression is the precedence chain's entry point. It additionally
// watches ctx.aggregations: if parsing expr introduced any (an aggregate
// call anywhere inside it, even nested under arithmetic), the whole tree is
// hoisted into a generated column and replaced with a reference to it, so
// the executor evaluates aggregates exactly once per group. A bare aggregate
// call already parses to a reference to its own generated column and is
// returned as is.
func (s *state) parseExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	before := len(ctx.aggregations)
	expr, err := s.parseAssignmentExpression(ctx)
	if err != nil {
		return nil, err
	}
	if len(ctx.aggregations) == before {
		return expr, nil
	}
	if symbol, ok := expr.(*ast.SymbolExpression); ok {
		if _, isAggregate := ctx.aggregations[symbol.Value]; isAggregate {
			return expr, nil
		}
	}

	columnName := ctx.generateColumnName()
	s.env.Define(columnName, expr.ExprType(s.env))

	if ctx.hasGroupByStatement && !contains(ctx.hiddenSelections, columnName) {
		ctx.hiddenSelections = append(ctx.hiddenSelections, columnName)
	}

	ctx.aggregations[columnName] = ast.AggregateValue{
		Kind:       ast.AggregateValueExpression,
		Expression: expr,
	}
	return &ast.SymbolExpression{Value: columnName}, nil
}

func (s *state) parseAssignmentExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	expr, err := s.parseIsNullExpression(ctx)
	if err != nil {
		return nil, err
	}
	if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.ColonEqual {
		global, ok := expr.(*ast.GlobalVariableExpression)
		if !ok {
			return nil, diagnostic.Error("Assignment expressions expect global variable name before `:=`").
				WithLocation(s.tokens[s.position].Span)
		}
		name := global.Name

		// Consume `:=`.
		s.position++

		value, err := s.parseIsNullExpression(ctx)
		if err != nil {
			return nil, err
		}
		s.env.DefineGlobal(name, value.ExprType(s.env))

		return &ast.AssignmentExpression{Symbol: name, Value: value}, nil
	}
	return expr, nil
}

func (s *state) parseIsNullExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	expr, err := s.parseInExpression(ctx)
	if err != nil {
		return nil, err
	}
	if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.Is {
		isSpan := s.tokens[s.position].Span
		s.position++

		hasNot := false
		if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.Not {
			hasNot = true
			s.position++
		}

		if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.Null {
			s.position++
			return &ast.IsNullExpression{Argument: expr, HasNot: hasNot}, nil
		}

		return nil, diagnostic.Error("Expects `NULL` Keyword after `IS` or `IS NOT`").WithLocation(isSpan)
	}
	return expr, nil
}

func (s *state) parseInExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	expr, err := s.parseBetweenExpression(ctx)
	if err != nil {
		return nil, err
	}

	hasNot := false
	if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.Not {
		hasNot = true
		s.position++
	}

	if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.In {
		inSpan := s.tokens[s.position].Span
		s.position++

		if !consumeKind(s.tokens, s.position, token.LeftParen) {
			return nil, diagnostic.Error("Expects values between `(` and `)` after `IN` keyword").WithLocation(inSpan)
		}

		values, err := s.parseArgumentsExpressions(ctx)
		if err != nil {
			return nil, err
		}

		if len(values) == 0 {
			return &ast.BooleanExpression{IsTrue: hasNot}, nil
		}

		valuesType, ok := typecheck.CheckAllValuesAreSameType(s.env, values)
		if !ok {
			return nil, diagnostic.Error("Expects values between `(` and `)` to have the same type").WithLocation(inSpan)
		}

		if !valuesType.Equals(types.Any) && !expr.ExprType(s.env).Equals(valuesType) {
			return nil, diagnostic.Error("Argument and Values of In Expression must have the same type").WithLocation(inSpan)
		}

		return &ast.InExpression{
			Argument:      expr,
			Values:        values,
			ValuesType:    valuesType,
			HasNotKeyword: hasNot,
		}, nil
	}

	if hasNot {
		return nil, diagnostic.Error("Expects `IN` expression after this `NOT` keyword").
			AddHelp("Try to use `IN` expression after NOT keyword").
			AddHelp("Try to remove `NOT` keyword").
			AddNote("Expect to see `NOT` then `IN` keyword with a list of values").
			WithLocation(s.safeSpan(s.position - 1))
	}

	return expr, nil
}

func (s *state) parseBetweenExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	expr, err := s.parseLogicalOrExpression(ctx)
	if err != nil {
		return nil, err
	}

	if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.Between {
		betweenSpan := s.tokens[s.position].Span
		s.position++

		if s.position >= len(s.tokens) {
			return nil, diagnostic.Error("`BETWEEN` keyword expects two range after it").WithLocation(betweenSpan)
		}

		argumentType := expr.ExprType(s.env)
		rangeStart, err := s.parseLogicalOrExpression(ctx)
		if err != nil {
			return nil, err
		}

		if s.position >= len(s.tokens) || s.tokens[s.position].Kind != token.DotDot {
			return nil, diagnostic.Error("Expect `..` after `BETWEEN` range start").WithLocation(betweenSpan)
		}
		s.position++

		rangeEnd, err := s.parseLogicalOrExpression(ctx)
		if err != nil {
			return nil, err
		}

		if !argumentType.Equals(rangeStart.ExprType(s.env)) || !argumentType.Equals(rangeEnd.ExprType(s.env)) {
			return nil, diagnostic.Error(
				"Expect `BETWEEN` argument, range start and end to has same type but got %s, %s and %s",
				argumentType, rangeStart.ExprType(s.env), rangeEnd.ExprType(s.env),
			).AddHelp("Try to make sure all of them has same type").WithLocation(betweenSpan)
		}

		return &ast.BetweenExpression{Value: expr, RangeStart: rangeStart, RangeEnd: rangeEnd}, nil
	}

	return expr, nil
}

func (s *state) parseLogicalOrExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	lhs, err := s.parseLogicalAndExpression(ctx)
	if err != nil {
		return nil, err
	}
	for s.position < len(s.tokens) && s.tokens[s.position].Kind == token.LogicalOr {
		s.position++
		if !lhs.ExprType(s.env).Equals(types.Boolean) {
			return nil, s.typeMismatchError(s.position-2, types.Boolean, lhs.ExprType(s.env))
		}
		rhs, err := s.parseLogicalAndExpression(ctx)
		if err != nil {
			return nil, err
		}
		if !rhs.ExprType(s.env).Equals(types.Boolean) {
			return nil, s.typeMismatchError(s.position, types.Boolean, rhs.ExprType(s.env))
		}
		lhs = &ast.LogicalExpression{Left: lhs, Operator: ast.LogicalOr, Right: rhs}
	}
	return lhs, nil
}

func (s *state) parseLogicalAndExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	lhs, err := s.parseBitwiseOrExpression(ctx)
	if err != nil {
		return nil, err
	}
	for s.position < len(s.tokens) && s.tokens[s.position].Kind == token.LogicalAnd {
		s.position++
		if !lhs.ExprType(s.env).Equals(types.Boolean) {
			return nil, s.typeMismatchError(s.position-2, types.Boolean, lhs.ExprType(s.env))
		}
		rhs, err := s.parseBitwiseOrExpression(ctx)
		if err != nil {
			return nil, err
		}
		if !rhs.ExprType(s.env).Equals(types.Boolean) {
			return nil, s.typeMismatchError(s.position, types.Boolean, lhs.ExprType(s.env))
		}
		lhs = &ast.LogicalExpression{Left: lhs, Operator: ast.LogicalAnd, Right: rhs}
	}
	return lhs, nil
}

func (s *state) parseBitwiseOrExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	lhs, err := s.parseLogicalXorExpression(ctx)
	if err != nil {
		return nil, err
	}
	if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.BitwiseOr {
		s.position++
		if !lhs.ExprType(s.env).Equals(types.Boolean) {
			return nil, s.typeMismatchError(s.position-2, types.Boolean, lhs.ExprType(s.env))
		}
		rhs, err := s.parseLogicalXorExpression(ctx)
		if err != nil {
			return nil, err
		}
		if !rhs.ExprType(s.env).Equals(types.Boolean) {
			return nil, s.typeMismatchError(s.position, types.Boolean, lhs.ExprType(s.env))
		}
		return &ast.BitwiseExpression{Left: lhs, Operator: ast.BitwiseOr, Right: rhs}, nil
	}
	return lhs, nil
}

func (s *state) parseLogicalXorExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	lhs, err := s.parseBitwiseAndExpression(ctx)
	if err != nil {
		return nil, err
	}
	for s.position < len(s.tokens) && s.tokens[s.position].Kind == token.LogicalXor {
		s.position++
		if !lhs.ExprType(s.env).Equals(types.Boolean) {
			return nil, s.typeMismatchError(s.position-2, types.Boolean, lhs.ExprType(s.env))
		}
		rhs, err := s.parseBitwiseAndExpression(ctx)
		if err != nil {
			return nil, err
		}
		if !rhs.ExprType(s.env).Equals(types.Boolean) {
			return nil, s.typeMismatchError(s.position, types.Boolean, lhs.ExprType(s.env))
		}
		lhs = &ast.LogicalExpression{Left: lhs, Operator: ast.LogicalXor, Right: rhs}
	}
	return lhs, nil
}

func (s *state) parseBitwiseAndExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	lhs, err := s.parseEqualityExpression(ctx)
	if err != nil {
		return nil, err
	}
	if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.BitwiseAnd {
		s.position++
		if !lhs.ExprType(s.env).Equals(types.Boolean) {
			return nil, s.typeMismatchError(s.position-2, types.Boolean, lhs.ExprType(s.env))
		}
		rhs, err := s.parseEqualityExpression(ctx)
		if err != nil {
			return nil, err
		}
		if !rhs.ExprType(s.env).Equals(types.Boolean) {
			return nil, s.typeMismatchError(s.position, types.Boolean, lhs.ExprType(s.env))
		}
		return &ast.BitwiseExpression{Left: lhs, Operator: ast.BitwiseAnd, Right: rhs}, nil
	}
	return lhs, nil
}

func (s *state) parseEqualityExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	lhs, err := s.parseComparisonExpression(ctx)
	if err != nil {
		return nil, err
	}
	if s.position >= len(s.tokens) {
		return lhs, nil
	}

	op := s.tokens[s.position]
	if op.Kind == token.Equal || op.Kind == token.BangEqual {
		s.position++
		comparisonOp := ast.ComparisonEqual
		if op.Kind == token.BangEqual {
			comparisonOp = ast.ComparisonNotEqual
		}

		rhs, err := s.parseComparisonExpression(ctx)
		if err != nil {
			return nil, err
		}

		lhs, rhs, err = s.applyTypeCast(lhs, rhs, s.position-2)
		if err != nil {
			return nil, err
		}

		return &ast.ComparisonExpression{Left: lhs, Operator: comparisonOp, Right: rhs}, nil
	}
	return lhs, nil
}

func (s *state) parseComparisonExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	lhs, err := s.parseBitwiseShiftExpression(ctx)
	if err != nil {
		return nil, err
	}
	if s.position >= len(s.tokens) {
		return lhs, nil
	}

	if isComparisonOperator(s.tokens[s.position]) {
		op := s.tokens[s.position]
		s.position++
		var comparisonOp ast.ComparisonOperator
		switch op.Kind {
		case token.Greater:
			comparisonOp = ast.ComparisonGreater
		case token.GreaterEqual:
			comparisonOp = ast.ComparisonGreaterEqual
		case token.Less:
			comparisonOp = ast.ComparisonLess
		case token.LessEqual:
			comparisonOp = ast.ComparisonLessEqual
		default:
			comparisonOp = ast.ComparisonNullSafeEqual
		}

		rhs, err := s.parseBitwiseShiftExpression(ctx)
		if err != nil {
			return nil, err
		}

		lhs, rhs, err = s.applyTypeCast(lhs, rhs, s.position-2)
		if err != nil {
			return nil, err
		}

		return &ast.ComparisonExpression{Left: lhs, Operator: comparisonOp, Right: rhs}, nil
	}
	return lhs, nil
}

// applyTypeCast runs AreTypesEquals on lhs/rhs, applying whichever implicit
// cast it reports (or none) and translating a failed cast into the same
// "can't compare values of different types" diagnostic the comparison
// operators all share.
func (s *state) applyTypeCast(lhs, rhs ast.Expression, locationPos int) (ast.Expression, ast.Expression, *diagnostic.Diagnostic) {
	outcome := typecheck.AreTypesEquals(s.env, lhs, rhs)
	switch outcome.Result {
	case typecheck.Equals:
		return lhs, rhs, nil
	case typecheck.RightSideCasted:
		return lhs, outcome.Casted, nil
	case typecheck.LeftSideCasted:
		return outcome.Casted, rhs, nil
	case typecheck.NotEqualAndCantImplicitCast:
		lhsType := lhs.ExprType(s.env)
		rhsType := rhs.ExprType(s.env)
		d := diagnostic.Error("Can't compare values of different types `%s` and `%s`", lhsType, rhsType).
			WithLocation(s.safeSpan(locationPos))
		if lhsType.IsNull() || rhsType.IsNull() {
			d = d.AddHelp("Try to use `IS NULL expr` expression").AddHelp("Try to use `ISNULL(expr)` function")
		}
		return nil, nil, d
	default: // typecheck.Error
		return nil, nil, outcome.Err.WithLocation(s.safeSpan(locationPos))
	}
}

func (s *state) parseBitwiseShiftExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	lhs, err := s.parseTermExpression(ctx)
	if err != nil {
		return nil, err
	}
	for s.position < len(s.tokens) && isBitwiseShiftOperator(s.tokens[s.position]) {
		op := s.tokens[s.position]
		s.position++
		bitwiseOp := ast.BitwiseLeftShift
		if op.Kind == token.BitwiseRightShift {
			bitwiseOp = ast.BitwiseRightShift
		}

		rhs, err := s.parseTermExpression(ctx)
		if err != nil {
			return nil, err
		}

		if rhs.ExprType(s.env).IsInt() && !rhs.ExprType(s.env).Equals(lhs.ExprType(s.env)) {
			return nil, diagnostic.Error(
				"Bitwise operators require number types but got `%s` and `%s`",
				lhs.ExprType(s.env), rhs.ExprType(s.env),
			).WithLocation(s.safeSpan(s.position - 2))
		}

		lhs = &ast.BitwiseExpression{Left: lhs, Operator: bitwiseOp, Right: rhs}
	}
	return lhs, nil
}

func (s *state) parseTermExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	lhs, err := s.parseFactorExpression(ctx)
	if err != nil {
		return nil, err
	}
	for s.position < len(s.tokens) && isTermOperator(s.tokens[s.position]) {
		op := s.tokens[s.position]
		s.position++
		mathOp := ast.ArithmeticPlus
		if op.Kind == token.Minus {
			mathOp = ast.ArithmeticMinus
		}

		rhs, err := s.parseFactorExpression(ctx)
		if err != nil {
			return nil, err
		}

		lhsType := lhs.ExprType(s.env)
		rhsType := rhs.ExprType(s.env)
		if lhsType.IsNumber() && rhsType.IsNumber() {
			lhs = &ast.ArithmeticExpression{Left: lhs, Operator: mathOp, Right: rhs}
			continue
		}

		if mathOp == ast.ArithmeticPlus {
			return nil, diagnostic.Error(
				"Math operators `+` both sides to be number types but got `%s` and `%s`", lhsType, rhsType,
			).AddHelp("You can use `CONCAT(Any, Any, ...Any)` function to concatenate values with different types").
				WithLocation(op.Span)
		}

		return nil, diagnostic.Error("Math operators require number types but got `%s` and `%s`", lhsType, rhsType).
			WithLocation(op.Span)
	}
	return lhs, nil
}

func (s *state) parseFactorExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	lhs, err := s.parseLikeExpression(ctx)
	if err != nil {
		return nil, err
	}
	for s.position < len(s.tokens) && isFactorOperator(s.tokens[s.position]) {
		op := s.tokens[s.position]
		s.position++

		var factorOp ast.ArithmeticOperator
		switch op.Kind {
		case token.Star:
			factorOp = ast.ArithmeticStar
		case token.Slash:
			factorOp = ast.ArithmeticSlash
		default:
			factorOp = ast.ArithmeticModulus
		}

		rhs, err := s.parseLikeExpression(ctx)
		if err != nil {
			return nil, err
		}

		lhsType := lhs.ExprType(s.env)
		rhsType := rhs.ExprType(s.env)
		if lhsType.IsNumber() && rhsType.IsNumber() {
			lhs = &ast.ArithmeticExpression{Left: lhs, Operator: factorOp, Right: rhs}
			continue
		}

		return nil, diagnostic.Error("Math operators require number types but got `%s` and `%s`", lhsType, rhsType).
			WithLocation(s.safeSpan(s.position - 2))
	}
	return lhs, nil
}

func (s *state) parseLikeExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	lhs, err := s.parseGlobExpression(ctx)
	if err != nil {
		return nil, err
	}
	if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.Like {
		likeSpan := s.tokens[s.position].Span
		s.position++

		if !lhs.ExprType(s.env).IsText() {
			return nil, diagnostic.Error("Expect `LIKE` left hand side to be `TEXT` but got %s", lhs.ExprType(s.env)).
				WithLocation(likeSpan)
		}

		pattern, err := s.parseGlobExpression(ctx)
		if err != nil {
			return nil, err
		}
		if !pattern.ExprType(s.env).IsText() {
			return nil, diagnostic.Error("Expect `LIKE` right hand side to be `TEXT` but got %s", pattern.ExprType(s.env)).
				WithLocation(likeSpan)
		}

		return &ast.LikeExpression{Input: lhs, Pattern: pattern}, nil
	}
	return lhs, nil
}

func (s *state) parseGlobExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	lhs, err := s.parseUnaryExpression(ctx)
	if err != nil {
		return nil, err
	}
	if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.Glob {
		globSpan := s.tokens[s.position].Span
		s.position++

		if !lhs.ExprType(s.env).IsText() {
			return nil, diagnostic.Error("Expect `GLOB` left hand side to be `TEXT` but got %s", lhs.ExprType(s.env)).
				WithLocation(globSpan)
		}

		pattern, err := s.parseUnaryExpression(ctx)
		if err != nil {
			return nil, err
		}
		if !pattern.ExprType(s.env).IsText() {
			return nil, diagnostic.Error("Expect `GLOB` right hand side to be `TEXT` but got %s", pattern.ExprType(s.env)).
				WithLocation(globSpan)
		}

		return &ast.GlobExpression{Input: lhs, Pattern: pattern}, nil
	}
	return lhs, nil
}

func (s *state) parseUnaryExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	if s.position < len(s.tokens) && isPrefixUnaryOperator(s.tokens[s.position]) {
		op := ast.PrefixMinus
		if s.tokens[s.position].Kind == token.Bang {
			op = ast.PrefixBang
		}
		s.position++

		rhs, err := s.parseUnaryExpression(ctx)
		if err != nil {
			return nil, err
		}
		rhsType := rhs.ExprType(s.env)

		if op == ast.PrefixBang && !rhsType.Equals(types.Boolean) {
			return nil, s.typeMismatchError(s.position-1, types.Boolean, rhsType)
		}
		if op == ast.PrefixMinus && !rhsType.Equals(types.Integer) {
			return nil, s.typeMismatchError(s.position-1, types.Integer, rhsType)
		}

		return &ast.PrefixUnary{Right: rhs, Op: op}, nil
	}
	return s.parseFunctionCallExpression(ctx)
}

func (s *state) parseFunctionCallExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	expr, err := s.parsePrimaryExpression(ctx)
	if err != nil {
		return nil, err
	}
	if s.position >= len(s.tokens) || s.tokens[s.position].Kind != token.LeftParen {
		return expr, nil
	}

	symbol, ok := expr.(*ast.SymbolExpression)
	functionNameSpan := s.safeSpan(s.position)
	if !ok {
		return nil, diagnostic.Error("Function name must be an identifier").WithLocation(functionNameSpan)
	}
	functionName := symbol.Value

	if scalar, ok := function.LookupPrototype(functionName); ok {
		arguments, err := s.parseArgumentsExpressions(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.checkFunctionCallArguments(&arguments, scalar.Parameters, functionName, functionNameSpan); err != nil {
			return nil, err
		}

		s.env.Define(functionName, scalar.Result)

		return &ast.CallExpression{FunctionName: functionName, Arguments: arguments, IsAggregation: false}, nil
	}

	if aggregate, ok := function.LookupAggregatePrototype(functionName); ok {
		arguments, err := s.parseArgumentsExpressions(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.checkFunctionCallArguments(&arguments, []types.DataType{aggregate.Parameter}, functionName, functionNameSpan); err != nil {
			return nil, err
		}

		argument, ok := expressionName(arguments[0])
		if !ok {
			return nil, diagnostic.Error("Invalid Aggregation function argument").
				AddHelp("Try to use field name as Aggregation function argument").
				AddNote("Aggregation function accept field name as argument").
				WithLocation(functionNameSpan)
		}

		columnName := ctx.generateColumnName()
		ctx.hiddenSelections = append(ctx.hiddenSelections, columnName)
		s.env.Define(columnName, aggregate.Result)

		ctx.aggregations[columnName] = ast.AggregateValue{
			Kind:         ast.AggregateValueFunction,
			FunctionName: functionName,
			Argument:     argument,
		}

		return &ast.SymbolExpression{Value: columnName}, nil
	}

	return nil, diagnostic.Error("No such function name").
		AddHelp("Function `%s` is not an Aggregation or Standard library function name", functionName).
		WithLocation(functionNameSpan)
}

func (s *state) parseArgumentsExpressions(ctx *context) ([]ast.Expression, *diagnostic.Diagnostic) {
	var arguments []ast.Expression
	if !consumeKind(s.tokens, s.position, token.LeftParen) {
		return arguments, nil
	}
	s.position++

	for s.position < len(s.tokens) && s.tokens[s.position].Kind != token.RightParen {
		argument, err := s.parseExpression(ctx)
		if err != nil {
			return nil, err
		}
		if name, ok := expressionName(argument); ok {
			ctx.hiddenSelections = append(ctx.hiddenSelections, name)
		}
		arguments = append(arguments, argument)

		if s.position < len(s.tokens) && s.tokens[s.position].Kind == token.Comma {
			s.position++
		} else {
			break
		}
	}

	if !consumeKind(s.tokens, s.position, token.RightParen) {
		return nil, diagnostic.Error("Expect `)` after function call arguments").
			AddHelp("Try to add ')' at the end of function call, after arguments").
			WithLocation(s.safeSpan(s.position))
	}
	s.position++

	return arguments, nil
}

func (s *state) parsePrimaryExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	if s.position >= len(s.tokens) {
		return nil, s.unexpectedExpressionError()
	}

	switch s.tokens[s.position].Kind {
	case token.String:
		s.position++
		return &ast.StringExpression{Value: s.tokens[s.position-1].Literal, ValueType: ast.StringValueText}, nil

	case token.Symbol:
		value := s.tokens[s.position].Literal
		s.position++
		if !contains(ctx.selectedFields, value) {
			ctx.hiddenSelections = append(ctx.hiddenSelections, value)
		}
		return &ast.SymbolExpression{Value: value}, nil

	case token.GlobalVariable:
		name := s.tokens[s.position].Literal
		s.position++
		return &ast.GlobalVariableExpression{Name: name}, nil

	case token.Integer:
		literal := s.tokens[s.position].Literal
		integer, parseErr := strconv.ParseInt(literal, 10, 64)
		if parseErr != nil {
			return nil, diagnostic.Error("Too big Integer value").
				AddHelp("Try to use smaller value").
				WithLocation(s.tokens[s.position].Span)
		}
		s.position++
		return &ast.NumberExpression{Value: types.NewInteger(integer)}, nil

	case token.Float:
		literal := s.tokens[s.position].Literal
		float, parseErr := strconv.ParseFloat(literal, 64)
		if parseErr != nil {
			return nil, diagnostic.Error("Too big Float value").
				AddHelp("Try to use smaller value").
				WithLocation(s.tokens[s.position].Span)
		}
		s.position++
		return &ast.NumberExpression{Value: types.NewFloat(float)}, nil

	case token.True:
		s.position++
		return &ast.BooleanExpression{IsTrue: true}, nil

	case token.False:
		s.position++
		return &ast.BooleanExpression{IsTrue: false}, nil

	case token.Null:
		s.position++
		return &ast.NullExpression{}, nil

	case token.LeftParen:
		return s.parseGroupExpression(ctx)

	case token.Case:
		return s.parseCaseExpression(ctx)

	default:
		return nil, s.unexpectedExpressionError()
	}
}

func (s *state) parseGroupExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	s.position++
	expr, err := s.parseExpression(ctx)
	if err != nil {
		return nil, err
	}
	if s.position >= len(s.tokens) || s.tokens[s.position].Kind != token.RightParen {
		return nil, diagnostic.Error("Expect `)` to end group expression").
			AddHelp("Try to add ')' at the end of group expression").
			WithLocation(s.safeSpan(s.position))
	}
	s.position++
	return expr, nil
}

func (s *state) parseCaseExpression(ctx *context) (ast.Expression, *diagnostic.Diagnostic) {
	var conditions, values []ast.Expression
	var defaultValue ast.Expression

	caseSpan := s.tokens[s.position].Span
	s.position++

	hasElseBranch := false
	for s.position < len(s.tokens) && s.tokens[s.position].Kind != token.End {
		if s.tokens[s.position].Kind == token.Else {
			if hasElseBranch {
				return nil, diagnostic.Error("This `CASE` expression already has else branch").
					AddNote("`CASE` expression can has only one `ELSE` branch").
					WithLocation(s.safeSpan(s.position))
			}
			s.position++

			value, err := s.parseExpression(ctx)
			if err != nil {
				return nil, err
			}
			defaultValue = value
			hasElseBranch = true
			continue
		}

		if !consumeKind(s.tokens, s.position, token.When) {
			return nil, diagnostic.Error("Expect `when` before case condition").
				AddHelp("Try to add `WHEN` keyword before any condition").
				WithLocation(s.safeSpan(s.position))
		}
		s.position++

		condition, err := s.parseExpression(ctx)
		if err != nil {
			return nil, err
		}
		if !condition.ExprType(s.env).Equals(types.Boolean) {
			return nil, diagnostic.Error("Case condition must be a boolean type").WithLocation(s.safeSpan(s.position))
		}
		conditions = append(conditions, condition)

		if !consumeKind(s.tokens, s.position, token.Then) {
			return nil, diagnostic.Error("Expect `THEN` after case condition").WithLocation(s.safeSpan(s.position))
		}
		s.position++

		value, err := s.parseExpression(ctx)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	if len(conditions) == 0 && !hasElseBranch {
		return nil, diagnostic.Error("Case expression must has at least else branch").WithLocation(s.safeSpan(s.position))
	}

	if s.position >= len(s.tokens) || s.tokens[s.position].Kind != token.End {
		return nil, diagnostic.Error("Expect `END` after case branches").WithLocation(s.safeSpan(s.position))
	}
	s.position++

	if !hasElseBranch {
		return nil, diagnostic.Error("Case expression must has else branch").WithLocation(s.safeSpan(s.position))
	}

	valuesType := values[0].ExprType(s.env)
	for i, value := range values[1:] {
		if !valuesType.Equals(value.ExprType(s.env)) {
			return nil, diagnostic.Error("Case value in branch %d has different type than the last branch", i+2).
				AddNote("All values in `CASE` expression must has the same Type").
				WithLocation(caseSpan)
		}
	}

	return &ast.CaseExpression{Conditions: conditions, Values: values, DefaultValue: defaultValue, ValuesType: valuesType}, nil
}

// checkFunctionCallArguments validates arity against parameters (honoring a
// trailing Optional/Varargs parameter) and type-checks each argument in
// place, applying whatever implicit cast the type checker reports.
func (s *state) checkFunctionCallArguments(arguments *[]ast.Expression, parameters []types.DataType, functionName string, location diagnostic.Span) *diagnostic.Diagnostic {
	parametersLen := len(parameters)
	argumentsLen := len(*arguments)

	hasOptional := false
	hasVarargs := false
	if parametersLen > 0 {
		last := parameters[parametersLen-1]
		hasOptional = last.IsOptional()
		hasVarargs = last.IsVarargs()
	}

	switch {
	case hasOptional:
		if argumentsLen < parametersLen-1 {
			return diagnostic.Error("Function `%s` expects at least `%d` arguments but got `%d`", functionName, parametersLen-1, argumentsLen).WithLocation(location)
		}
		if argumentsLen > parametersLen {
			return diagnostic.Error("Function `%s` expects at most `%d` arguments but got `%d`", functionName, parametersLen, argumentsLen).WithLocation(location)
		}
	case hasVarargs:
		if argumentsLen < parametersLen-1 {
			return diagnostic.Error("Function `%s` expects at least `%d` arguments but got `%d`", functionName, parametersLen-1, argumentsLen).WithLocation(location)
		}
	default:
		if argumentsLen != parametersLen {
			return diagnostic.Error("Function `%s` expects `%d` arguments but got `%d`", functionName, parametersLen, argumentsLen).WithLocation(location)
		}
	}

	lastRequired := parametersLen
	if hasOptional || hasVarargs {
		lastRequired--
	}

	for index := 0; index < lastRequired; index++ {
		parameterType := parameters[index]
		argument := (*arguments)[index]
		outcome := typecheck.IsExpressionTypeEquals(s.env, argument, parameterType)
		switch outcome.Result {
		case typecheck.Equals:
		case typecheck.RightSideCasted, typecheck.LeftSideCasted:
			(*arguments)[index] = outcome.Casted
		case typecheck.NotEqualAndCantImplicitCast:
			return diagnostic.Error(
				"Function `%s` argument number %d with type `%s` don't match expected type `%s`",
				functionName, index, argument.ExprType(s.env), parameterType,
			).WithLocation(location)
		case typecheck.Error:
			return outcome.Err
		}
	}

	if hasOptional || hasVarargs {
		lastParameterType := parameters[lastRequired]
		for index := lastRequired; index < argumentsLen; index++ {
			argument := (*arguments)[index]
			outcome := typecheck.IsExpressionTypeEquals(s.env, argument, lastParameterType)
			switch outcome.Result {
			case typecheck.Equals:
			case typecheck.RightSideCasted, typecheck.LeftSideCasted:
				(*arguments)[index] = outcome.Casted
			case typecheck.NotEqualAndCantImplicitCast:
				argumentType := (*arguments)[index].ExprType(s.env)
				if !lastParameterType.Equals(argumentType) {
					return diagnostic.Error(
						"Function `%s` argument number %d with type `%s` don't match expected type `%s`",
						functionName, index, argumentType, lastParameterType,
					).WithLocation(location)
				}
			case typecheck.Error:
				return outcome.Err
			}
		}
	}

	return nil
}

// expressionName reports the field/global-variable name expr refers to, if
// it is a bare symbol or global-variable reference; this is what aggregate
// calls and auto-generated aliasing use as a display name.
func expressionName(expr ast.Expression) (string, bool) {
	switch e := expr.(type) {
	case *ast.SymbolExpression:
		return e.Value, true
	case *ast.GlobalVariableExpression:
		return e.Name, true
	default:
		return "", false
	}
}

func isComparisonOperator(t token.Token) bool {
	switch t.Kind {
	case token.Greater, token.GreaterEqual, token.Less, token.LessEqual, token.NullSafeEqual:
		return true
	default:
		return false
	}
}

func isBitwiseShiftOperator(t token.Token) bool {
	return t.Kind == token.BitwiseLeftShift || t.Kind == token.BitwiseRightShift
}

func isTermOperator(t token.Token) bool {
	return t.Kind == token.Plus || t.Kind == token.Minus
}

func isFactorOperator(t token.Token) bool {
	return t.Kind == token.Star || t.Kind == token.Slash || t.Kind == token.Percentage
}

func isPrefixUnaryOperator(t token.Token) bool {
	return t.Kind == token.Bang || t.Kind == token.Minus
}

func (s *state) typeMismatchError(position int, expected, got types.DataType) *diagnostic.Diagnostic {
	return diagnostic.Error("Type mismatch, expected `%s` but got `%s`", expected, got).WithLocation(s.safeSpan(position))
}

func (s *state) unexpectedExpressionError() *diagnostic.Diagnostic {
	location := s.safeSpan(s.position)

	if s.position == 0 || s.position >= len(s.tokens) {
		return diagnostic.Error("Can't complete parsing this expression").WithLocation(location)
	}

	current := s.tokens[s.position]
	previous := s.tokens[s.position-1]

	if current.Kind == token.Ascending || current.Kind == token.Descending {
		return diagnostic.Error("`ASC` and `DESC` must be used in `ORDER BY` statement").WithLocation(location)
	}
	if previous.Kind == token.Equal && current.Kind == token.Equal {
		return diagnostic.Error("Unexpected `==`, Just use `=` to check equality").
			AddHelp("Try to remove the extra `=`").WithLocation(location)
	}
	if previous.Kind == token.Greater && current.Kind == token.Equal {
		return diagnostic.Error("Unexpected `> =`, do you mean `>=`?").
			AddHelp("Try to remove space between `> =`").WithLocation(location)
	}
	if previous.Kind == token.Less && current.Kind == token.Equal {
		return diagnostic.Error("Unexpected `< =`, do you mean `<=`?").
			AddHelp("Try to remove space between `< =`").WithLocation(location)
	}
	if previous.Kind == token.Greater && current.Kind == token.Greater {
		return diagnostic.Error("Unexpected `> >`, do you mean `>>`?").
			AddHelp("Try to remove space between `> >`").WithLocation(location)
	}
	if previous.Kind == token.Less && current.Kind == token.Less {
		return diagnostic.Error("Unexpected `< <`, do you mean `<<`?").
			AddHelp("Try to remove space between `< <`").WithLocation(location)
	}
	if previous.Kind == token.Less && current.Kind == token.Greater {
		return diagnostic.Error("Unexpected `< >`, do you mean `<>`?").
			AddHelp("Try to remove space between `< >`").WithLocation(location)
	}

	return diagnostic.Error("Can't complete parsing this expression").WithLocation(location)
}
