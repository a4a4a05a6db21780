// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package types implements the value and type lattice used throughout the
// query engine: the tagged scalar Value and the DataType it carries.
package types

import "fmt"

// Kind tags the concrete shape of a DataType.
type Kind int

const (
	KindUndefined Kind = iota
	KindText
	KindInteger
	KindFloat
	KindBoolean
	KindDate
	KindTime
	KindDateTime
	KindNull
	KindAny
	KindVariant
	KindOptional
	KindVarargs
)

// DataType is the lattice used by the type checker. Concrete kinds compare
// equal only to themselves; the composite kinds (Any, Variant, Optional,
// Varargs) widen that rule. composite is a pointer (rather than an inline
// slice) specifically so DataType stays comparable with ==: every concrete
// kind leaves it nil, and two concrete DataTypes of the same kind are then
// == regardless of where they were constructed.
type DataType struct {
	kind      Kind
	composite *compositeType
}

type compositeType struct {
	members []DataType
}

var (
	Undefined = DataType{kind: KindUndefined}
	Text      = DataType{kind: KindText}
	Integer   = DataType{kind: KindInteger}
	Float     = DataType{kind: KindFloat}
	Boolean   = DataType{kind: KindBoolean}
	Date      = DataType{kind: KindDate}
	Time      = DataType{kind: KindTime}
	DateTime  = DataType{kind: KindDateTime}
	Null      = DataType{kind: KindNull}
	Any       = DataType{kind: KindAny}
)

// Variant builds a composite type matching any of members.
func Variant(members ...DataType) DataType {
	return DataType{kind: KindVariant, composite: &compositeType{members: members}}
}

// Optional builds a composite type legal as the last parameter of a
// function prototype; it matches its element type or an absent argument.
func Optional(elem DataType) DataType {
	return DataType{kind: KindOptional, composite: &compositeType{members: []DataType{elem}}}
}

// Varargs builds a composite type legal as the last parameter of a
// function prototype, matching zero or more arguments of elem.
func Varargs(elem DataType) DataType {
	return DataType{kind: KindVarargs, composite: &compositeType{members: []DataType{elem}}}
}

func (d DataType) Kind() Kind { return d.kind }

// Elem returns the single wrapped type of an Optional/Varargs, or the zero
// value if d isn't one of those kinds.
func (d DataType) Elem() DataType {
	if (d.kind == KindOptional || d.kind == KindVarargs) && d.composite != nil && len(d.composite.members) == 1 {
		return d.composite.members[0]
	}
	return DataType{}
}

// Members returns the listed types of a Variant, or nil otherwise.
func (d DataType) Members() []DataType {
	if d.kind == KindVariant && d.composite != nil {
		return d.composite.members
	}
	return nil
}

// Equals is the type lattice's structural equality, symmetric in the
// composite kinds: either side being Any, a matching Variant member, or a
// matching Optional/Varargs element counts as equal.
func (d DataType) Equals(other DataType) bool {
	if d.kind == KindAny || other.kind == KindAny {
		return true
	}
	if d.isComposite() && d.matchesComposite(other) {
		return true
	}
	if other.isComposite() && other.matchesComposite(d) {
		return true
	}
	return d.kind == other.kind
}

func (d DataType) isComposite() bool {
	return d.kind == KindVariant || d.kind == KindOptional || d.kind == KindVarargs
}

// matchesComposite reports whether d (a composite type) accepts other.
func (d DataType) matchesComposite(other DataType) bool {
	if d.composite == nil {
		return false
	}
	switch d.kind {
	case KindVariant:
		for _, m := range d.composite.members {
			if m.Equals(other) {
				return true
			}
		}
		return false
	case KindOptional, KindVarargs:
		return d.composite.members[0].Equals(other)
	default:
		return false
	}
}

// IsNumber reports whether d is Integer or Float.
func (d DataType) IsNumber() bool {
	return d.kind == KindInteger || d.kind == KindFloat
}

// IsInt reports whether d is Integer.
func (d DataType) IsInt() bool { return d.kind == KindInteger }

// IsText reports whether d is Text.
func (d DataType) IsText() bool { return d.kind == KindText }

// IsNull reports whether d is Null.
func (d DataType) IsNull() bool { return d.kind == KindNull }

// IsUndefined reports whether d is Undefined (the zero value).
func (d DataType) IsUndefined() bool { return d.kind == KindUndefined }

// IsOptional reports whether d is an Optional(...) composite.
func (d DataType) IsOptional() bool { return d.kind == KindOptional }

// IsVarargs reports whether d is a Varargs(...) composite.
func (d DataType) IsVarargs() bool { return d.kind == KindVarargs }

func (d DataType) String() string {
	switch d.kind {
	case KindUndefined:
		return "Undefined"
	case KindText:
		return "Text"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindBoolean:
		return "Boolean"
	case KindDate:
		return "Date"
	case KindTime:
		return "Time"
	case KindDateTime:
		return "DateTime"
	case KindNull:
		return "Null"
	case KindAny:
		return "Any"
	case KindVariant:
		return fmt.Sprintf("Variant%v", d.composite.members)
	case KindOptional:
		return fmt.Sprintf("Optional(%s)", d.composite.members[0])
	case KindVarargs:
		return fmt.Sprintf("Varargs(%s)", d.composite.members[0])
	default:
		return "Unknown"
	}
}
