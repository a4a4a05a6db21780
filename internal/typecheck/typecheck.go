// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package typecheck is P2: the parser's helper for deciding whether two
// expression types line up, including the engine's one form of implicit
// casting — a Text literal compared against a Time/Date/DateTime column.
package typecheck

import (
	"github.com/hashicorp/gitql/internal/ast"
	"github.com/hashicorp/gitql/internal/datetime"
	"github.com/hashicorp/gitql/internal/diagnostic"
	"github.com/hashicorp/gitql/internal/environment"
	"github.com/hashicorp/gitql/internal/types"
)

// Result discriminates the outcome of a type comparison.
type Result int

const (
	// Equals: both sides already have the same type.
	Equals Result = iota
	// NotEqualAndCantImplicitCast: the types differ and no casting rule
	// applies; the caller decides whether that's an error.
	NotEqualAndCantImplicitCast
	// Error: casting was attempted and the literal didn't parse.
	Error
	// RightSideCasted: the right-hand expression was replaced by a cast
	// form that now matches the left-hand type.
	RightSideCasted
	// LeftSideCasted: the left-hand expression was replaced by a cast form
	// that now matches the right-hand type.
	LeftSideCasted
)

// Outcome is the result of IsExpressionTypeEquals or AreTypesEquals.
type Outcome struct {
	Result Result
	Casted ast.Expression       // set for RightSideCasted/LeftSideCasted
	Err    *diagnostic.Diagnostic // set for Error
}

// IsExpressionTypeEquals checks expr's static type against dataType,
// implicitly casting a Text string literal to Time/Date/DateTime when
// dataType demands it and the literal parses in that format.
func IsExpressionTypeEquals(scope *environment.Environment, expr ast.Expression, dataType types.DataType) Outcome {
	exprType := expr.ExprType(scope)
	if exprType.Equals(dataType) {
		return Outcome{Result: Equals}
	}

	str, isString := expr.(*ast.StringExpression)

	if dataType.Equals(types.Time) && exprType.Equals(types.Text) && isString {
		if !datetime.IsValidTimeFormat(str.Value) {
			return Outcome{Result: Error, Err: timeCastError("Can't compare Time and Text `%s` because it can't be implicitly casted to Time", str.Value)}
		}
		return Outcome{Result: RightSideCasted, Casted: &ast.StringExpression{Value: str.Value, ValueType: ast.StringValueTime}}
	}

	if dataType.Equals(types.Date) && exprType.Equals(types.Text) && isString {
		if !datetime.IsValidDateFormat(str.Value) {
			return Outcome{Result: Error, Err: dateCastError("Can't compare Date and Text `%s` because it can't be implicitly casted to Date", str.Value)}
		}
		return Outcome{Result: RightSideCasted, Casted: &ast.StringExpression{Value: str.Value, ValueType: ast.StringValueDate}}
	}

	if dataType.Equals(types.DateTime) && exprType.Equals(types.Text) && isString {
		if !datetime.IsValidDateTimeFormat(str.Value) {
			return Outcome{Result: Error, Err: dateTimeCastError("Can't compare DateTime and Text `%s` because it can't be implicitly casted to DateTime", str.Value)}
		}
		return Outcome{Result: RightSideCasted, Casted: &ast.StringExpression{Value: str.Value, ValueType: ast.StringValueDateTime}}
	}

	return Outcome{Result: NotEqualAndCantImplicitCast}
}

// AreTypesEquals checks two expressions' static types against each other,
// implicitly casting whichever side is a Text string literal when the
// other side is Time/Date/DateTime.
func AreTypesEquals(scope *environment.Environment, lhs, rhs ast.Expression) Outcome {
	lhsType := lhs.ExprType(scope)
	rhsType := rhs.ExprType(scope)
	if lhsType.Equals(rhsType) {
		return Outcome{Result: Equals}
	}

	lhsStr, lhsIsString := lhs.(*ast.StringExpression)
	rhsStr, rhsIsString := rhs.(*ast.StringExpression)

	if lhsType.Equals(types.Time) && rhsType.Equals(types.Text) && rhsIsString {
		if !datetime.IsValidTimeFormat(rhsStr.Value) {
			return Outcome{Result: Error, Err: timeCastError("Can't compare Time and Text `%s` because it can't be implicitly casted to Time", rhsStr.Value)}
		}
		return Outcome{Result: RightSideCasted, Casted: &ast.StringExpression{Value: rhsStr.Value, ValueType: ast.StringValueTime}}
	}
	if lhsType.Equals(types.Text) && rhsType.Equals(types.Time) && lhsIsString {
		if !datetime.IsValidTimeFormat(lhsStr.Value) {
			return Outcome{Result: Error, Err: timeCastError("Can't compare Text `%s` and Time because it can't be implicitly casted to Time", lhsStr.Value)}
		}
		return Outcome{Result: LeftSideCasted, Casted: &ast.StringExpression{Value: lhsStr.Value, ValueType: ast.StringValueTime}}
	}

	if lhsType.Equals(types.Date) && rhsType.Equals(types.Text) && rhsIsString {
		if !datetime.IsValidDateFormat(rhsStr.Value) {
			return Outcome{Result: Error, Err: dateCastError("Can't compare Date and Text(`%s`) because Text can't be implicitly casted to Date", rhsStr.Value)}
		}
		return Outcome{Result: RightSideCasted, Casted: &ast.StringExpression{Value: rhsStr.Value, ValueType: ast.StringValueDate}}
	}
	if lhsType.Equals(types.Text) && rhsType.Equals(types.Date) && lhsIsString {
		if !datetime.IsValidDateFormat(lhsStr.Value) {
			return Outcome{Result: Error, Err: dateCastError("Can't compare Text(`%s`) and Date because Text can't be implicitly casted to Date", lhsStr.Value)}
		}
		return Outcome{Result: LeftSideCasted, Casted: &ast.StringExpression{Value: lhsStr.Value, ValueType: ast.StringValueDate}}
	}

	if lhsType.Equals(types.DateTime) && rhsType.Equals(types.Text) && rhsIsString {
		if !datetime.IsValidDateTimeFormat(rhsStr.Value) {
			return Outcome{Result: Error, Err: dateTimeCastError("Can't compare DateTime and Text `%s` because it can't be implicitly casted to DateTime", rhsStr.Value)}
		}
		return Outcome{Result: RightSideCasted, Casted: &ast.StringExpression{Value: rhsStr.Value, ValueType: ast.StringValueDateTime}}
	}
	if lhsType.Equals(types.Text) && rhsType.Equals(types.DateTime) && lhsIsString {
		if !datetime.IsValidDateTimeFormat(lhsStr.Value) {
			return Outcome{Result: Error, Err: dateTimeCastError("Can't compare Text `%s` and DateTime because it can't be implicitly casted to DateTime", lhsStr.Value)}
		}
		return Outcome{Result: LeftSideCasted, Casted: &ast.StringExpression{Value: lhsStr.Value, ValueType: ast.StringValueDateTime}}
	}

	return Outcome{Result: NotEqualAndCantImplicitCast}
}

// CheckAllValuesAreSameType reports the common type of arguments if every
// element shares one, for validating an IN values list. An empty list
// reports Any, matching the source's default.
func CheckAllValuesAreSameType(scope *environment.Environment, arguments []ast.Expression) (types.DataType, bool) {
	if len(arguments) == 0 {
		return types.Any, true
	}
	dataType := arguments[0].ExprType(scope)
	for _, arg := range arguments[1:] {
		if !arg.ExprType(scope).Equals(dataType) {
			return types.DataType{}, false
		}
	}
	return dataType, true
}

func timeCastError(format, value string) *diagnostic.Diagnostic {
	return diagnostic.Error(format, value).
		AddHelp("A valid Time format must match `HH:MM:SS` or `HH:MM:SS.SSS`").
		AddHelp("You can use `MAKETIME(hour, minute, second)` function to create date value")
}

func dateCastError(format, value string) *diagnostic.Diagnostic {
	return diagnostic.Error(format, value).
		AddHelp("A valid Date format must match `YYYY-MM-DD`").
		AddHelp("You can use `MAKEDATE(year, dayOfYear)` function to a create date value")
}

func dateTimeCastError(format, value string) *diagnostic.Diagnostic {
	return diagnostic.Error(format, value).
		AddHelp("A valid DateTime format must match `YYYY-MM-DD HH:MM:SS` or `YYYY-MM-DD HH:MM:SS.SSS`")
}
