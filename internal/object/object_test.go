// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/gitql/internal/types"
)

func Test_GitQLObject_Flat(t *testing.T) {
	obj := GitQLObject{
		Titles: []string{"a"},
		Groups: []Group{
			{Rows: []Row{{Values: []types.Value{types.NewInteger(1)}}}},
			{Rows: []Row{{Values: []types.Value{types.NewInteger(2)}}}},
		},
	}
	flat := obj.Flat()
	require.Len(t, flat.Rows, 2)
	assert.Equal(t, int64(1), flat.Rows[0].Values[0].AsInt())
	assert.Equal(t, int64(2), flat.Rows[1].Values[0].AsInt())
}

func Test_GitQLObject_AsCSV(t *testing.T) {
	obj := GitQLObject{
		Titles: []string{"name", "count"},
		Groups: []Group{{Rows: []Row{
			{Values: []types.Value{types.NewText("a"), types.NewInteger(1)}},
		}}},
	}
	out, err := obj.AsCSV()
	require.NoError(t, err)
	assert.Equal(t, "name,count\na,1\n", string(out))
}

func Test_GitQLObject_AsJSON(t *testing.T) {
	obj := GitQLObject{
		Titles: []string{"name"},
		Groups: []Group{{Rows: []Row{
			{Values: []types.Value{types.NewText("a")}},
		}}},
	}
	out, err := obj.AsJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"a"}]`, string(out))
}

func Test_GitQLObject_Empty(t *testing.T) {
	var obj GitQLObject
	assert.True(t, obj.IsEmpty())
	out, err := obj.AsJSON()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}
