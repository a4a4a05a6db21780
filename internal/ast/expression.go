// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package ast is the typed expression and statement tree produced by the
// parser and walked by the evaluator and executor.
package ast

import (
	"github.com/hashicorp/gitql/internal/catalog"
	"github.com/hashicorp/gitql/internal/environment"
	"github.com/hashicorp/gitql/internal/function"
	"github.com/hashicorp/gitql/internal/types"
)

// ExpressionKind discriminates the concrete Expression implementations.
type ExpressionKind int

const (
	KindAssignment ExpressionKind = iota
	KindString
	KindSymbol
	KindGlobalVariable
	KindNumber
	KindBoolean
	KindPrefixUnary
	KindArithmetic
	KindComparison
	KindLike
	KindGlob
	KindLogical
	KindBitwise
	KindCall
	KindBetween
	KindCase
	KindIn
	KindIsNull
	KindNull
)

// Expression is any node that can be evaluated to a types.Value. ExprType
// resolves the node's static type against scope, for the type checker and
// for callers that need a type without evaluating (aggregate splicing,
// column naming).
type Expression interface {
	Kind() ExpressionKind
	ExprType(scope *environment.Environment) types.DataType
}

// IsConst reports whether expr is a literal the parser can fold without a
// row in scope: Number, Boolean, or String.
func IsConst(expr Expression) bool {
	switch expr.Kind() {
	case KindNumber, KindBoolean, KindString:
		return true
	default:
		return false
	}
}

// AssignmentExpression is `@var := value`.
type AssignmentExpression struct {
	Symbol string
	Value  Expression
}

func (e *AssignmentExpression) Kind() ExpressionKind { return KindAssignment }
func (e *AssignmentExpression) ExprType(scope *environment.Environment) types.DataType {
	return e.Value.ExprType(scope)
}

// StringValueType distinguishes a string literal's eventual type: most
// string literals are Text, but the type checker implicitly casts some to
// Time/Date/DateTime when compared against a column of that type.
type StringValueType int

const (
	StringValueText StringValueType = iota
	StringValueTime
	StringValueDate
	StringValueDateTime
)

// StringExpression is a string literal, pre- or post-implicit-cast.
type StringExpression struct {
	Value     string
	ValueType StringValueType
}

func (e *StringExpression) Kind() ExpressionKind { return KindString }
func (e *StringExpression) ExprType(scope *environment.Environment) types.DataType {
	switch e.ValueType {
	case StringValueTime:
		return types.Time
	case StringValueDate:
		return types.Date
	case StringValueDateTime:
		return types.DateTime
	default:
		return types.Text
	}
}

// SymbolExpression references a column name or a symbol table entry.
type SymbolExpression struct {
	Value string
}

func (e *SymbolExpression) Kind() ExpressionKind { return KindSymbol }
func (e *SymbolExpression) ExprType(scope *environment.Environment) types.DataType {
	if scope.Contains(e.Value) {
		return scope.Scopes[e.Value]
	}
	if t, ok := catalog.FieldType(e.Value); ok {
		return t
	}
	return types.Undefined
}

// GlobalVariableExpression references `@name`.
type GlobalVariableExpression struct {
	Name string
}

func (e *GlobalVariableExpression) Kind() ExpressionKind { return KindGlobalVariable }
func (e *GlobalVariableExpression) ExprType(scope *environment.Environment) types.DataType {
	if t, ok := scope.GlobalsTypes[e.Name]; ok {
		return t
	}
	return types.Undefined
}

// NumberExpression is an Integer or Float literal.
type NumberExpression struct {
	Value types.Value
}

func (e *NumberExpression) Kind() ExpressionKind { return KindNumber }
func (e *NumberExpression) ExprType(scope *environment.Environment) types.DataType {
	return e.Value.DataType()
}

// BooleanExpression is a TRUE/FALSE literal.
type BooleanExpression struct {
	IsTrue bool
}

func (e *BooleanExpression) Kind() ExpressionKind { return KindBoolean }
func (e *BooleanExpression) ExprType(scope *environment.Environment) types.DataType {
	return types.Boolean
}

// PrefixUnaryOperator is the operator of a PrefixUnary expression.
type PrefixUnaryOperator int

const (
	PrefixMinus PrefixUnaryOperator = iota
	PrefixBang
)

// PrefixUnary is `-x` or `!x`.
type PrefixUnary struct {
	Right Expression
	Op    PrefixUnaryOperator
}

func (e *PrefixUnary) Kind() ExpressionKind { return KindPrefixUnary }
func (e *PrefixUnary) ExprType(scope *environment.Environment) types.DataType {
	if e.Op == PrefixBang {
		return types.Boolean
	}
	return types.Integer
}

// ArithmeticOperator is the operator of an ArithmeticExpression.
type ArithmeticOperator int

const (
	ArithmeticPlus ArithmeticOperator = iota
	ArithmeticMinus
	ArithmeticStar
	ArithmeticSlash
	ArithmeticModulus
)

// ArithmeticExpression is a binary +, -, *, /, or % expression.
type ArithmeticExpression struct {
	Left     Expression
	Operator ArithmeticOperator
	Right    Expression
}

func (e *ArithmeticExpression) Kind() ExpressionKind { return KindArithmetic }
func (e *ArithmeticExpression) ExprType(scope *environment.Environment) types.DataType {
	if e.Left.ExprType(scope) == types.Integer && e.Right.ExprType(scope) == types.Integer {
		return types.Integer
	}
	return types.Float
}

// ComparisonOperator is the operator of a ComparisonExpression.
type ComparisonOperator int

const (
	ComparisonGreater ComparisonOperator = iota
	ComparisonGreaterEqual
	ComparisonLess
	ComparisonLessEqual
	ComparisonEqual
	ComparisonNotEqual
	ComparisonNullSafeEqual
)

// ComparisonExpression is a binary comparison. NullSafeEqual (`<=>`)
// evaluates to Integer, not Boolean, matching the source.
type ComparisonExpression struct {
	Left     Expression
	Operator ComparisonOperator
	Right    Expression
}

func (e *ComparisonExpression) Kind() ExpressionKind { return KindComparison }
func (e *ComparisonExpression) ExprType(scope *environment.Environment) types.DataType {
	if e.Operator == ComparisonNullSafeEqual {
		return types.Integer
	}
	return types.Boolean
}

// LikeExpression is `input LIKE pattern`.
type LikeExpression struct {
	Input   Expression
	Pattern Expression
}

func (e *LikeExpression) Kind() ExpressionKind { return KindLike }
func (e *LikeExpression) ExprType(scope *environment.Environment) types.DataType {
	return types.Boolean
}

// GlobExpression is `input GLOB pattern`.
type GlobExpression struct {
	Input   Expression
	Pattern Expression
}

func (e *GlobExpression) Kind() ExpressionKind { return KindGlob }
func (e *GlobExpression) ExprType(scope *environment.Environment) types.DataType {
	return types.Boolean
}

// LogicalOperator is the operator of a LogicalExpression.
type LogicalOperator int

const (
	LogicalOr LogicalOperator = iota
	LogicalAnd
	LogicalXor
)

// LogicalExpression is a binary AND/OR/XOR expression.
type LogicalExpression struct {
	Left     Expression
	Operator LogicalOperator
	Right    Expression
}

func (e *LogicalExpression) Kind() ExpressionKind { return KindLogical }
func (e *LogicalExpression) ExprType(scope *environment.Environment) types.DataType {
	return types.Boolean
}

// BitwiseOperator is the operator of a BitwiseExpression.
type BitwiseOperator int

const (
	BitwiseOr BitwiseOperator = iota
	BitwiseAnd
	BitwiseRightShift
	BitwiseLeftShift
)

// BitwiseExpression is a binary |, &, >>, or << expression.
type BitwiseExpression struct {
	Left     Expression
	Operator BitwiseOperator
	Right    Expression
}

func (e *BitwiseExpression) Kind() ExpressionKind { return KindBitwise }
func (e *BitwiseExpression) ExprType(scope *environment.Environment) types.DataType {
	return types.Integer
}

// CallExpression is a scalar or aggregate function call.
type CallExpression struct {
	FunctionName  string
	Arguments     []Expression
	IsAggregation bool
}

func (e *CallExpression) Kind() ExpressionKind { return KindCall }
func (e *CallExpression) ExprType(scope *environment.Environment) types.DataType {
	if e.IsAggregation {
		proto, ok := function.LookupAggregatePrototype(e.FunctionName)
		if !ok {
			return types.Undefined
		}
		return proto.Result
	}
	proto, ok := function.LookupPrototype(e.FunctionName)
	if !ok {
		return types.Undefined
	}
	return proto.Result
}

// BetweenExpression is `value BETWEEN rangeStart .. rangeEnd`.
type BetweenExpression struct {
	Value      Expression
	RangeStart Expression
	RangeEnd   Expression
}

func (e *BetweenExpression) Kind() ExpressionKind { return KindBetween }
func (e *BetweenExpression) ExprType(scope *environment.Environment) types.DataType {
	return types.Boolean
}

// CaseExpression is `CASE WHEN c1 THEN v1 ... ELSE default END`. Conditions
// and Values are positionally aligned; DefaultValue is the ELSE branch,
// which the parser requires.
type CaseExpression struct {
	Conditions   []Expression
	Values       []Expression
	DefaultValue Expression
	ValuesType   types.DataType
}

func (e *CaseExpression) Kind() ExpressionKind { return KindCase }
func (e *CaseExpression) ExprType(scope *environment.Environment) types.DataType {
	return e.ValuesType
}

// InExpression is `argument [NOT] IN (values...)`.
type InExpression struct {
	Argument      Expression
	Values        []Expression
	ValuesType    types.DataType
	HasNotKeyword bool
}

func (e *InExpression) Kind() ExpressionKind { return KindIn }
func (e *InExpression) ExprType(scope *environment.Environment) types.DataType {
	return e.ValuesType
}

// IsNullExpression is `argument IS [NOT] NULL`.
type IsNullExpression struct {
	Argument Expression
	HasNot   bool
}

func (e *IsNullExpression) Kind() ExpressionKind { return KindIsNull }
func (e *IsNullExpression) ExprType(scope *environment.Environment) types.DataType {
	return types.Boolean
}

// NullExpression is the NULL literal.
type NullExpression struct{}

func (e *NullExpression) Kind() ExpressionKind { return KindNull }
func (e *NullExpression) ExprType(scope *environment.Environment) types.DataType {
	return types.Null
}
