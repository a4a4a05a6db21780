// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package function

import (
	"errors"
	"math"

	"github.com/hashicorp/gitql/internal/types"
)

// numericAbs errors on math.MinInt64, whose negation has no representable
// Integer result; the source's unchecked i64::abs() would silently return
// the same negative number back.
func numericAbs(args []types.Value) (types.Value, error) {
	v := args[0].AsInt()
	if v == math.MinInt64 {
		return types.Value{}, errors.New("integer overflow in ABS")
	}
	if v < 0 {
		v = -v
	}
	return types.NewInteger(v), nil
}

func numericPi(args []types.Value) (types.Value, error) {
	return types.NewFloat(math.Pi), nil
}

func numericFloor(args []types.Value) (types.Value, error) {
	return types.NewInteger(int64(math.Floor(args[0].AsFloat()))), nil
}

func numericRound(args []types.Value) (types.Value, error) {
	return types.NewInteger(int64(math.Round(args[0].AsFloat()))), nil
}

func numericSquare(args []types.Value) (types.Value, error) {
	v := args[0].AsInt()
	return types.NewInteger(v * v), nil
}

func numericSin(args []types.Value) (types.Value, error) {
	return types.NewFloat(math.Sin(args[0].AsFloat())), nil
}

func numericAsin(args []types.Value) (types.Value, error) {
	return types.NewFloat(math.Asin(args[0].AsFloat())), nil
}

func numericCos(args []types.Value) (types.Value, error) {
	return types.NewFloat(math.Cos(args[0].AsFloat())), nil
}

func numericTan(args []types.Value) (types.Value, error) {
	return types.NewFloat(math.Tan(args[0].AsFloat())), nil
}
