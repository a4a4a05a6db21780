// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package function is L5: the registries of scalar and aggregate functions
// callable from a query, plus the parameter/result DataTypes the type
// checker matches call sites against.
package function

import "github.com/hashicorp/gitql/internal/types"

// Scalar is a builtin function's implementation. It receives already
// type-checked arguments and returns the computed value, or an error for the
// rare builtin that can fail at runtime (integer overflow in ABS).
type Scalar func(args []types.Value) (types.Value, error)

// Prototype is a scalar function's call signature.
type Prototype struct {
	Parameters []types.DataType
	Result     types.DataType
}

// Functions is the scalar function registry, keyed by lowercase name.
var Functions = map[string]Scalar{
	"lower":      textLower,
	"upper":      textUpper,
	"reverse":    textReverse,
	"replicate":  textReplicate,
	"space":      textSpace,
	"trim":       textTrim,
	"ltrim":      textLeftTrim,
	"rtrim":      textRightTrim,
	"len":        textLen,
	"ascii":      textASCII,
	"left":       textLeft,
	"datalength": textDataLength,
	"char":       textChar,
	"nchar":      textChar,
	"replace":    textReplace,
	"substring":  textSubstring,
	"stuff":      textStuff,
	"right":      textRight,
	"translate":  textTranslate,
	"soundex":    textSoundex,
	"concat":     textConcat,
	"unicode":    textUnicode,

	"current_date":      dateCurrentDate,
	"current_time":      dateCurrentTime,
	"current_timestamp": dateCurrentTimestamp,
	"now":               dateCurrentTimestamp,
	"makedate":          dateMakeDate,

	"abs":    numericAbs,
	"pi":     numericPi,
	"floor":  numericFloor,
	"round":  numericRound,
	"square": numericSquare,
	"sin":    numericSin,
	"asin":   numericAsin,
	"cos":    numericCos,
	"tan":    numericTan,

	"isnull":    generalIsNull,
	"isnumeric": generalIsNumeric,
	"typeof":    generalTypeOf,
}

// Prototypes is the scalar function signature registry, keyed by lowercase
// name. Every key in Functions has a matching entry here.
var Prototypes = map[string]Prototype{
	"lower":      {Parameters: []types.DataType{types.Text}, Result: types.Text},
	"upper":      {Parameters: []types.DataType{types.Text}, Result: types.Text},
	"reverse":    {Parameters: []types.DataType{types.Text}, Result: types.Text},
	"replicate":  {Parameters: []types.DataType{types.Text, types.Integer}, Result: types.Text},
	"space":      {Parameters: []types.DataType{types.Integer}, Result: types.Text},
	"trim":       {Parameters: []types.DataType{types.Text}, Result: types.Text},
	"ltrim":      {Parameters: []types.DataType{types.Text}, Result: types.Text},
	"rtrim":      {Parameters: []types.DataType{types.Text}, Result: types.Text},
	"len":        {Parameters: []types.DataType{types.Text}, Result: types.Integer},
	"ascii":      {Parameters: []types.DataType{types.Text}, Result: types.Integer},
	"left":       {Parameters: []types.DataType{types.Text, types.Integer}, Result: types.Text},
	"datalength": {Parameters: []types.DataType{types.Text}, Result: types.Integer},
	"char":       {Parameters: []types.DataType{types.Integer}, Result: types.Text},
	"nchar":      {Parameters: []types.DataType{types.Integer}, Result: types.Text},
	"replace":    {Parameters: []types.DataType{types.Text, types.Text, types.Text}, Result: types.Text},
	"substring":  {Parameters: []types.DataType{types.Text, types.Integer, types.Integer}, Result: types.Text},
	"stuff":      {Parameters: []types.DataType{types.Text, types.Integer, types.Integer, types.Text}, Result: types.Text},
	"right":      {Parameters: []types.DataType{types.Text, types.Integer}, Result: types.Text},
	"translate":  {Parameters: []types.DataType{types.Text, types.Text, types.Text}, Result: types.Text},
	"soundex":    {Parameters: []types.DataType{types.Text}, Result: types.Text},
	"concat":     {Parameters: []types.DataType{types.Text, types.Text}, Result: types.Text},
	"unicode":    {Parameters: []types.DataType{types.Text}, Result: types.Integer},

	"current_date":      {Parameters: nil, Result: types.Date},
	"current_time":      {Parameters: nil, Result: types.Time},
	"current_timestamp": {Parameters: nil, Result: types.DateTime},
	"now":               {Parameters: nil, Result: types.DateTime},
	"makedate":          {Parameters: []types.DataType{types.Integer, types.Integer}, Result: types.Date},

	"abs":    {Parameters: []types.DataType{types.Integer}, Result: types.Integer},
	"pi":     {Parameters: nil, Result: types.Float},
	"floor":  {Parameters: []types.DataType{types.Float}, Result: types.Integer},
	"round":  {Parameters: []types.DataType{types.Float}, Result: types.Integer},
	"square": {Parameters: []types.DataType{types.Integer}, Result: types.Integer},
	"sin":    {Parameters: []types.DataType{types.Float}, Result: types.Float},
	"asin":   {Parameters: []types.DataType{types.Float}, Result: types.Float},
	"cos":    {Parameters: []types.DataType{types.Float}, Result: types.Float},
	"tan":    {Parameters: []types.DataType{types.Float}, Result: types.Float},

	"isnull":    {Parameters: []types.DataType{types.Any}, Result: types.Boolean},
	"isnumeric": {Parameters: []types.DataType{types.Any}, Result: types.Boolean},
	"typeof":    {Parameters: []types.DataType{types.Any}, Result: types.Text},
}

// Lookup returns the scalar implementation registered for name, and whether
// it was found. name is matched case-sensitively; callers are expected to
// have already lowercased it the way the tokenizer lowercases identifiers.
func Lookup(name string) (Scalar, bool) {
	fn, ok := Functions[name]
	return fn, ok
}

// LookupPrototype returns the call signature registered for name.
func LookupPrototype(name string) (Prototype, bool) {
	proto, ok := Prototypes[name]
	return proto, ok
}
