// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package function

import (
	"github.com/hashicorp/gitql/internal/datetime"
	"github.com/hashicorp/gitql/internal/types"
)

func dateCurrentDate(args []types.Value) (types.Value, error) {
	return types.NewDate(datetime.Now().Unix()), nil
}

func dateCurrentTime(args []types.Value) (types.Value, error) {
	now := datetime.Now().Unix()
	return types.NewTime(datetime.EpochToTime(now)), nil
}

func dateCurrentTimestamp(args []types.Value) (types.Value, error) {
	return types.NewDateTime(datetime.Now().Unix()), nil
}

func dateMakeDate(args []types.Value) (types.Value, error) {
	year := int(args[0].AsInt())
	dayOfYear := int(args[1].AsInt())
	return types.NewDate(datetime.EpochFromYearAndDay(year, dayOfYear)), nil
}
