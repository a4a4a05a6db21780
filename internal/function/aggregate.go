// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package function

import (
	"github.com/hashicorp/gitql/internal/object"
	"github.com/hashicorp/gitql/internal/types"
)

// Aggregate computes one aggregate value over every row of a group,
// resolving fieldName against titles to find the column index.
type Aggregate func(fieldName string, titles []string, group object.Group) types.Value

// AggregatePrototype is an aggregate function's call signature: a single
// argument type (the Variant list MIN/MAX accept, or Integer for SUM/AVG,
// or Any for COUNT) and its result type.
type AggregatePrototype struct {
	Parameter types.DataType
	Result    types.DataType
}

// Aggregates is the aggregate function registry, keyed by lowercase name.
var Aggregates = map[string]Aggregate{
	"max":   aggregateMax,
	"min":   aggregateMin,
	"sum":   aggregateSum,
	"avg":   aggregateAverage,
	"count": aggregateCount,
}

// AggregatePrototypes mirrors Aggregates with each function's signature.
var AggregatePrototypes = map[string]AggregatePrototype{
	"max": {
		Parameter: types.Variant(types.Integer, types.Float, types.Text, types.Date, types.Time, types.DateTime),
		Result:    types.Integer,
	},
	"min": {
		Parameter: types.Variant(types.Integer, types.Float, types.Text, types.Date, types.Time, types.DateTime),
		Result:    types.Integer,
	},
	"sum":   {Parameter: types.Integer, Result: types.Integer},
	"avg":   {Parameter: types.Integer, Result: types.Integer},
	"count": {Parameter: types.Any, Result: types.Integer},
}

// LookupAggregate returns the aggregate implementation registered for name.
func LookupAggregate(name string) (Aggregate, bool) {
	fn, ok := Aggregates[name]
	return fn, ok
}

// LookupAggregatePrototype returns the call signature registered for name.
func LookupAggregatePrototype(name string) (AggregatePrototype, bool) {
	proto, ok := AggregatePrototypes[name]
	return proto, ok
}

func columnIndex(fieldName string, titles []string) int {
	for i, t := range titles {
		if t == fieldName {
			return i
		}
	}
	return -1
}

// aggregateMax and aggregateMin are written against Value.Compare's
// reversed contract exactly as the source calls it: maxValue.compare(field)
// == Greater / minValue.compare(field) == Less. Do not "simplify" the
// argument order here without re-deriving it from Compare's contract.
func aggregateMax(fieldName string, titles []string, group object.Group) types.Value {
	idx := columnIndex(fieldName, titles)
	maxValue := group.Rows[0].Values[idx]
	for _, row := range group.Rows {
		field := row.Values[idx]
		if maxValue.Compare(field) == 1 {
			maxValue = field
		}
	}
	return maxValue
}

func aggregateMin(fieldName string, titles []string, group object.Group) types.Value {
	idx := columnIndex(fieldName, titles)
	minValue := group.Rows[0].Values[idx]
	for _, row := range group.Rows {
		field := row.Values[idx]
		if minValue.Compare(field) == -1 {
			minValue = field
		}
	}
	return minValue
}

func aggregateSum(fieldName string, titles []string, group object.Group) types.Value {
	idx := columnIndex(fieldName, titles)
	var sum int64
	for _, row := range group.Rows {
		sum += row.Values[idx].AsInt()
	}
	return types.NewInteger(sum)
}

func aggregateAverage(fieldName string, titles []string, group object.Group) types.Value {
	idx := columnIndex(fieldName, titles)
	var sum int64
	for _, row := range group.Rows {
		sum += row.Values[idx].AsInt()
	}
	count := int64(len(group.Rows))
	return types.NewInteger(sum / count)
}

func aggregateCount(fieldName string, titles []string, group object.Group) types.Value {
	return types.NewInteger(int64(len(group.Rows)))
}
