// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package function

import "github.com/hashicorp/gitql/internal/types"

func generalIsNull(args []types.Value) (types.Value, error) {
	return types.NewBoolean(args[0].DataType() == types.Null), nil
}

func generalIsNumeric(args []types.Value) (types.Value, error) {
	return types.NewBoolean(args[0].DataType().IsNumber()), nil
}

func generalTypeOf(args []types.Value) (types.Value, error) {
	return types.NewText(args[0].DataType().String()), nil
}
