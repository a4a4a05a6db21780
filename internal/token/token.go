// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package token defines the lexical tokens produced by the tokenizer and
// consumed by the parser.
package token

import "github.com/hashicorp/gitql/internal/diagnostic"

type Kind int

const (
	Set Kind = iota
	Select
	Distinct
	From
	Group
	Where
	Having
	Limit
	Offset
	Order
	By
	In
	Is
	Not
	Like
	Glob

	Case
	When
	Then
	Else
	End

	Between
	DotDot

	Greater
	GreaterEqual
	Less
	LessEqual
	Equal
	Bang
	BangEqual
	NullSafeEqual

	As

	LeftParen
	RightParen

	LogicalOr
	LogicalAnd
	LogicalXor

	BitwiseOr
	BitwiseAnd
	BitwiseRightShift
	BitwiseLeftShift

	Symbol
	GlobalVariable
	Integer
	Float
	String

	True
	False
	Null

	ColonEqual

	Plus
	Minus
	Star
	Slash
	Percentage

	Comma
	Dot
	Semicolon

	Ascending
	Descending

	EOF
)

var names = map[Kind]string{
	Set: "SET", Select: "SELECT", Distinct: "DISTINCT", From: "FROM",
	Group: "GROUP", Where: "WHERE", Having: "HAVING", Limit: "LIMIT",
	Offset: "OFFSET", Order: "ORDER", By: "BY", In: "IN", Is: "IS",
	Not: "NOT", Like: "LIKE", Glob: "GLOB", Case: "CASE", When: "WHEN",
	Then: "THEN", Else: "ELSE", End: "END", Between: "BETWEEN",
	DotDot: "..", Greater: ">", GreaterEqual: ">=", Less: "<",
	LessEqual: "<=", Equal: "=", Bang: "!", BangEqual: "!=",
	NullSafeEqual: "<=>", As: "AS", LeftParen: "(", RightParen: ")",
	LogicalOr: "OR", LogicalAnd: "AND", LogicalXor: "XOR",
	BitwiseOr: "|", BitwiseAnd: "&", BitwiseRightShift: ">>",
	BitwiseLeftShift: "<<", Symbol: "symbol", GlobalVariable: "global variable",
	Integer: "integer", Float: "float", String: "string", True: "TRUE",
	False: "FALSE", Null: "NULL", ColonEqual: ":=", Plus: "+", Minus: "-",
	Star: "*", Slash: "/", Percentage: "%", Comma: ",", Dot: ".",
	Semicolon: ";", Ascending: "ASC", Descending: "DESC", EOF: "<eof>",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

// Keywords is the case-insensitive keyword set; identifiers are lowercased
// before this lookup, so keys here are all-lowercase.
var Keywords = map[string]Kind{
	"set": Set, "select": Select, "distinct": Distinct, "from": From,
	"group": Group, "where": Where, "having": Having, "limit": Limit,
	"offset": Offset, "order": Order, "by": By, "in": In, "is": Is,
	"not": Not, "like": Like, "glob": Glob, "between": Between,
	"case": Case, "when": When, "then": Then, "else": Else, "end": End,
	"as": As, "true": True, "false": False, "null": Null,
	"and": LogicalAnd, "or": LogicalOr, "xor": LogicalXor,
	"asc": Ascending, "desc": Descending,
}

// Token is a single lexeme: its kind, literal text, and source span.
type Token struct {
	Kind    Kind
	Literal string
	Span    diagnostic.Span
}
