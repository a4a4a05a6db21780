// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Value_Equals(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"int-int-eq", NewInteger(1), NewInteger(1), true},
		{"int-int-neq", NewInteger(1), NewInteger(2), false},
		{"int-null", NewInteger(1), NewNull(), false},
		{"text-eq", NewText("hello"), NewText("hello"), true},
		{"text-neq", NewText("hello"), NewText("world"), false},
		{"bool-eq", NewBoolean(true), NewBoolean(true), true},
		{"null-null", NewNull(), NewNull(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equals(tt.b))
		})
	}
}

// Test_Value_Compare pins the reversed-ordering contract: Compare(a, b)
// returns cmp(b, a), not cmp(a, b).
func Test_Value_Compare(t *testing.T) {
	small, big := NewInteger(1), NewInteger(2)
	assert.Equal(t, 1, small.Compare(big))
	assert.Equal(t, -1, big.Compare(small))
	assert.Equal(t, 0, small.Compare(NewInteger(1)))
}

func Test_Value_Arithmetic(t *testing.T) {
	sum, err := NewInteger(2).Plus(NewInteger(3))
	require.NoError(t, err)
	assert.Equal(t, int64(5), sum.AsInt())

	mixed, err := NewInteger(2).Plus(NewFloat(1.5))
	require.NoError(t, err)
	assert.Equal(t, 3.5, mixed.AsFloat())

	diff, err := NewInteger(5).Minus(NewInteger(3))
	require.NoError(t, err)
	assert.Equal(t, int64(2), diff.AsInt())

	_, err = NewInteger(math.MaxInt64).Plus(NewInteger(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflow")

	_, err = NewInteger(math.MinInt64).Minus(NewInteger(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflow")

	_, err = NewInteger(1).Div(NewInteger(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "divide")

	_, err = NewInteger(1).Modulus(NewInteger(0))
	require.Error(t, err)

	product, err := NewInteger(3).Mul(NewInteger(4))
	require.NoError(t, err)
	assert.Equal(t, int64(12), product.AsInt())
}

func Test_Value_Literal(t *testing.T) {
	assert.Equal(t, "Null", NewNull().Literal())
	assert.Equal(t, "42", NewInteger(42).Literal())
	assert.Equal(t, "true", NewBoolean(true).Literal())
}
