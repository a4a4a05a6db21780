// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package function

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/gitql/internal/object"
	"github.com/hashicorp/gitql/internal/types"
)

func groupOf(t *testing.T, values ...int64) object.Group {
	t.Helper()
	g := object.Group{}
	for _, v := range values {
		g.Rows = append(g.Rows, object.Row{Values: []types.Value{types.NewInteger(v)}})
	}
	return g
}

func Test_AggregateMax(t *testing.T) {
	got := aggregateMax("field1", []string{"field1"}, groupOf(t, 1, 2, 3))
	assert.Equal(t, int64(3), got.AsInt())
}

func Test_AggregateMin(t *testing.T) {
	got := aggregateMin("field1", []string{"field1"}, groupOf(t, 1, 2, 3))
	assert.Equal(t, int64(1), got.AsInt())
}

func Test_AggregateSum(t *testing.T) {
	got := aggregateSum("field1", []string{"field1"}, groupOf(t, 1, 2, 3))
	assert.Equal(t, int64(6), got.AsInt())
}

func Test_AggregateAverage(t *testing.T) {
	got := aggregateAverage("field1", []string{"field1"}, groupOf(t, 1, 2, 3))
	assert.Equal(t, int64(2), got.AsInt())
}

func Test_AggregateCount(t *testing.T) {
	got := aggregateCount("field1", []string{"field1"}, groupOf(t, 1, 2, 3))
	assert.Equal(t, int64(3), got.AsInt())
}

func Test_LookupAggregate(t *testing.T) {
	for name := range AggregatePrototypes {
		_, ok := LookupAggregate(name)
		assert.True(t, ok, "prototype %q has no registered aggregate", name)
	}
	_, ok := LookupAggregate("nonexistent")
	assert.False(t, ok)
}

func Test_AggregateMinMax_RespectCompareReversedContract(t *testing.T) {
	// Regression pin: Value.Compare(a, b) returns cmp(b, a). aggregateMax
	// and aggregateMin call it as max.Compare(field)/min.Compare(field),
	// which still produces ordinary max/min behavior under that contract.
	group := groupOf(t, 5, 1, 9, 3)
	require.Equal(t, int64(9), aggregateMax("f", []string{"f"}, group).AsInt())
	require.Equal(t, int64(1), aggregateMin("f", []string{"f"}, group).AsInt())
}
