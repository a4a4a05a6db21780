// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package eval is X1: the recursive expression evaluator that turns a typed
// ast.Expression into a types.Value against one row. The type checker
// (embedded in internal/parser) already proved every expression it hands
// here is well-typed, so eval reports only the handful of errors that can
// only surface at runtime: arithmetic overflow, division by zero, and a
// malformed GLOB pattern.
package eval

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/hashicorp/gitql/internal/ast"
	"github.com/hashicorp/gitql/internal/datetime"
	"github.com/hashicorp/gitql/internal/environment"
	"github.com/hashicorp/gitql/internal/function"
	"github.com/hashicorp/gitql/internal/types"
)

// Expression evaluates expr against one row. titles and values are
// positionally aligned, the same shape internal/object.Row carries;
// SymbolExpression resolves a column by looking up its name in titles.
func Expression(env *environment.Environment, expr ast.Expression, titles []string, values []types.Value) (types.Value, error) {
	switch e := expr.(type) {
	case *ast.StringExpression:
		return stringLiteralValue(e), nil

	case *ast.SymbolExpression:
		if idx := columnIndex(titles, e.Value); idx >= 0 {
			return values[idx], nil
		}
		return types.NewNull(), nil

	case *ast.GlobalVariableExpression:
		if v, ok := env.Globals[e.Name]; ok {
			return v, nil
		}
		return types.NewNull(), nil

	case *ast.NumberExpression:
		return e.Value, nil

	case *ast.BooleanExpression:
		return types.NewBoolean(e.IsTrue), nil

	case *ast.NullExpression:
		return types.NewNull(), nil

	case *ast.PrefixUnary:
		return evalPrefixUnary(env, e, titles, values)

	case *ast.ArithmeticExpression:
		return evalArithmetic(env, e, titles, values)

	case *ast.ComparisonExpression:
		return evalComparison(env, e, titles, values)

	case *ast.LikeExpression:
		return evalLike(env, e, titles, values)

	case *ast.GlobExpression:
		return evalGlob(env, e, titles, values)

	case *ast.LogicalExpression:
		return evalLogical(env, e, titles, values)

	case *ast.BitwiseExpression:
		return evalBitwise(env, e, titles, values)

	case *ast.CallExpression:
		return evalCall(env, e, titles, values)

	case *ast.BetweenExpression:
		return evalBetween(env, e, titles, values)

	case *ast.CaseExpression:
		return evalCase(env, e, titles, values)

	case *ast.InExpression:
		return evalIn(env, e, titles, values)

	case *ast.IsNullExpression:
		return evalIsNull(env, e, titles, values)

	case *ast.AssignmentExpression:
		result, err := Expression(env, e.Value, titles, values)
		if err != nil {
			return types.Value{}, err
		}
		env.Globals[e.Symbol] = result
		return result, nil

	default:
		return types.Value{}, fmt.Errorf("eval: unsupported expression kind %v", expr.Kind())
	}
}

func columnIndex(titles []string, name string) int {
	for i, t := range titles {
		if t == name {
			return i
		}
	}
	return -1
}

func stringLiteralValue(e *ast.StringExpression) types.Value {
	switch e.ValueType {
	case ast.StringValueTime:
		return types.NewTime(e.Value)
	case ast.StringValueDate:
		return types.NewDate(datetime.DateToEpoch(e.Value))
	case ast.StringValueDateTime:
		return types.NewDateTime(datetime.DateTimeToEpoch(e.Value))
	default:
		return types.NewText(e.Value)
	}
}

func evalPrefixUnary(env *environment.Environment, e *ast.PrefixUnary, titles []string, values []types.Value) (types.Value, error) {
	rhs, err := Expression(env, e.Right, titles, values)
	if err != nil {
		return types.Value{}, err
	}
	if e.Op == ast.PrefixBang {
		return types.NewBoolean(!rhs.AsBool()), nil
	}
	return types.NewInteger(-rhs.AsInt()), nil
}

func evalArithmetic(env *environment.Environment, e *ast.ArithmeticExpression, titles []string, values []types.Value) (types.Value, error) {
	lhs, err := Expression(env, e.Left, titles, values)
	if err != nil {
		return types.Value{}, err
	}
	rhs, err := Expression(env, e.Right, titles, values)
	if err != nil {
		return types.Value{}, err
	}
	switch e.Operator {
	case ast.ArithmeticPlus:
		return lhs.Plus(rhs)
	case ast.ArithmeticMinus:
		return lhs.Minus(rhs)
	case ast.ArithmeticStar:
		return lhs.Mul(rhs)
	case ast.ArithmeticSlash:
		return lhs.Div(rhs)
	default:
		return lhs.Modulus(rhs)
	}
}

func evalComparison(env *environment.Environment, e *ast.ComparisonExpression, titles []string, values []types.Value) (types.Value, error) {
	lhs, err := Expression(env, e.Left, titles, values)
	if err != nil {
		return types.Value{}, err
	}
	rhs, err := Expression(env, e.Right, titles, values)
	if err != nil {
		return types.Value{}, err
	}

	if e.Operator == ast.ComparisonNullSafeEqual {
		if lhs.IsNull() && rhs.IsNull() {
			return types.NewInteger(1), nil
		}
		if lhs.IsNull() || rhs.IsNull() {
			return types.NewInteger(0), nil
		}
		if lhs.Equals(rhs) {
			return types.NewInteger(1), nil
		}
		return types.NewInteger(0), nil
	}

	if e.Operator == ast.ComparisonEqual {
		return types.NewBoolean(lhs.Equals(rhs)), nil
	}
	if e.Operator == ast.ComparisonNotEqual {
		return types.NewBoolean(!lhs.Equals(rhs)), nil
	}

	// Compare's contract is reversed (see types.Value.Compare): cmp ==
	// Greater means lhs.Compare(rhs) < 0, and so on.
	cmp := lhs.Compare(rhs)
	switch e.Operator {
	case ast.ComparisonGreater:
		return types.NewBoolean(cmp < 0), nil
	case ast.ComparisonGreaterEqual:
		return types.NewBoolean(cmp <= 0), nil
	case ast.ComparisonLess:
		return types.NewBoolean(cmp > 0), nil
	default: // ComparisonLessEqual
		return types.NewBoolean(cmp >= 0), nil
	}
}

func evalLogical(env *environment.Environment, e *ast.LogicalExpression, titles []string, values []types.Value) (types.Value, error) {
	lhs, err := Expression(env, e.Left, titles, values)
	if err != nil {
		return types.Value{}, err
	}

	// OR/AND short-circuit; XOR always needs both sides.
	switch e.Operator {
	case ast.LogicalOr:
		if lhs.AsBool() {
			return types.NewBoolean(true), nil
		}
	case ast.LogicalAnd:
		if !lhs.AsBool() {
			return types.NewBoolean(false), nil
		}
	}

	rhs, err := Expression(env, e.Right, titles, values)
	if err != nil {
		return types.Value{}, err
	}
	switch e.Operator {
	case ast.LogicalOr:
		return types.NewBoolean(lhs.AsBool() || rhs.AsBool()), nil
	case ast.LogicalAnd:
		return types.NewBoolean(lhs.AsBool() && rhs.AsBool()), nil
	default: // LogicalXor
		return types.NewBoolean(lhs.AsBool() != rhs.AsBool()), nil
	}
}

func evalBitwise(env *environment.Environment, e *ast.BitwiseExpression, titles []string, values []types.Value) (types.Value, error) {
	lhs, err := Expression(env, e.Left, titles, values)
	if err != nil {
		return types.Value{}, err
	}
	rhs, err := Expression(env, e.Right, titles, values)
	if err != nil {
		return types.Value{}, err
	}
	switch e.Operator {
	case ast.BitwiseOr:
		return types.NewInteger(lhs.AsInt() | rhs.AsInt()), nil
	case ast.BitwiseAnd:
		return types.NewInteger(lhs.AsInt() & rhs.AsInt()), nil
	case ast.BitwiseRightShift:
		return types.NewInteger(lhs.AsInt() >> uint(rhs.AsInt())), nil
	default: // BitwiseLeftShift
		return types.NewInteger(lhs.AsInt() << uint(rhs.AsInt())), nil
	}
}

func evalBetween(env *environment.Environment, e *ast.BetweenExpression, titles []string, values []types.Value) (types.Value, error) {
	value, err := Expression(env, e.Value, titles, values)
	if err != nil {
		return types.Value{}, err
	}
	start, err := Expression(env, e.RangeStart, titles, values)
	if err != nil {
		return types.Value{}, err
	}
	end, err := Expression(env, e.RangeEnd, titles, values)
	if err != nil {
		return types.Value{}, err
	}
	inRange := value.Compare(start) <= 0 && value.Compare(end) >= 0
	return types.NewBoolean(inRange), nil
}

func evalIn(env *environment.Environment, e *ast.InExpression, titles []string, values []types.Value) (types.Value, error) {
	argument, err := Expression(env, e.Argument, titles, values)
	if err != nil {
		return types.Value{}, err
	}
	found := false
	for _, valueExpr := range e.Values {
		candidate, err := Expression(env, valueExpr, titles, values)
		if err != nil {
			return types.Value{}, err
		}
		if argument.Equals(candidate) {
			found = true
			break
		}
	}
	if e.HasNotKeyword {
		return types.NewBoolean(!found), nil
	}
	return types.NewBoolean(found), nil
}

func evalIsNull(env *environment.Environment, e *ast.IsNullExpression, titles []string, values []types.Value) (types.Value, error) {
	argument, err := Expression(env, e.Argument, titles, values)
	if err != nil {
		return types.Value{}, err
	}
	if e.HasNot {
		return types.NewBoolean(!argument.IsNull()), nil
	}
	return types.NewBoolean(argument.IsNull()), nil
}

func evalCase(env *environment.Environment, e *ast.CaseExpression, titles []string, values []types.Value) (types.Value, error) {
	for i, condition := range e.Conditions {
		result, err := Expression(env, condition, titles, values)
		if err != nil {
			return types.Value{}, err
		}
		if result.AsBool() {
			return Expression(env, e.Values[i], titles, values)
		}
	}
	return Expression(env, e.DefaultValue, titles, values)
}

func evalCall(env *environment.Environment, e *ast.CallExpression, titles []string, values []types.Value) (types.Value, error) {
	arguments := make([]types.Value, len(e.Arguments))
	for i, argExpr := range e.Arguments {
		v, err := Expression(env, argExpr, titles, values)
		if err != nil {
			return types.Value{}, err
		}
		arguments[i] = v
	}

	scalar, ok := function.Lookup(e.FunctionName)
	if !ok {
		return types.Value{}, fmt.Errorf("eval: no such function %q", e.FunctionName)
	}
	return scalar(arguments)
}

func evalLike(env *environment.Environment, e *ast.LikeExpression, titles []string, values []types.Value) (types.Value, error) {
	input, err := Expression(env, e.Input, titles, values)
	if err != nil {
		return types.Value{}, err
	}
	pattern, err := Expression(env, e.Pattern, titles, values)
	if err != nil {
		return types.Value{}, err
	}
	return types.NewBoolean(likeMatch(pattern.AsText(), input.AsText())), nil
}

// likeMatch implements SQL LIKE's `%`/`_` wildcards with a recursive walk
// over the pattern's runes, anchored at both ends of the input.
// LIKE is case-insensitive, so both sides are case-folded before matching.
// No library in the example pack targets SQL LIKE directly, so this is the
// one hand-rolled matcher in the evaluator (see DESIGN.md).
func likeMatch(pattern, input string) bool {
	return likeMatchRunes([]rune(strings.ToLower(pattern)), []rune(strings.ToLower(input)))
}

func likeMatchRunes(pattern, input []rune) bool {
	if len(pattern) == 0 {
		return len(input) == 0
	}
	switch pattern[0] {
	case '%':
		// A `%` matches any run of characters, including none; try every
		// split point.
		for i := 0; i <= len(input); i++ {
			if likeMatchRunes(pattern[1:], input[i:]) {
				return true
			}
		}
		return false
	case '_':
		if len(input) == 0 {
			return false
		}
		return likeMatchRunes(pattern[1:], input[1:])
	default:
		if len(input) == 0 || input[0] != pattern[0] {
			return false
		}
		return likeMatchRunes(pattern[1:], input[1:])
	}
}

var (
	globCacheMu sync.Mutex
	globCache   = make(map[string]glob.Glob)
)

func compileGlob(pattern string) (glob.Glob, error) {
	globCacheMu.Lock()
	defer globCacheMu.Unlock()
	if g, ok := globCache[pattern]; ok {
		return g, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	globCache[pattern] = g
	return g, nil
}

func evalGlob(env *environment.Environment, e *ast.GlobExpression, titles []string, values []types.Value) (types.Value, error) {
	input, err := Expression(env, e.Input, titles, values)
	if err != nil {
		return types.Value{}, err
	}
	pattern, err := Expression(env, e.Pattern, titles, values)
	if err != nil {
		return types.Value{}, err
	}
	g, err := compileGlob(pattern.AsText())
	if err != nil {
		return types.Value{}, fmt.Errorf("eval: invalid GLOB pattern %q: %w", pattern.AsText(), err)
	}
	return types.NewBoolean(g.Match(input.AsText())), nil
}
