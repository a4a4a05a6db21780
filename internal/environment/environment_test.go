// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hashicorp/gitql/internal/types"
)

func Test_Environment_DefineAndContains(t *testing.T) {
	env := New()
	env.Define("field1", types.Text)
	env.DefineGlobal("@field2", types.Integer)

	assert.True(t, env.Contains("field1"))
	assert.True(t, env.Contains("@field2"))
	assert.False(t, env.Contains("invalid"))
}

func Test_Environment_ResolveType(t *testing.T) {
	env := New()
	env.Define("field1", types.Text)
	env.DefineGlobal("@field2", types.Integer)

	dt, ok := env.ResolveType("field1")
	assert.True(t, ok)
	assert.Equal(t, types.Text, dt)

	dt, ok = env.ResolveType("@field2")
	assert.True(t, ok)
	assert.Equal(t, types.Integer, dt)

	_, ok = env.ResolveType("invalid")
	assert.False(t, ok)
}

func Test_Environment_ClearSession(t *testing.T) {
	env := New()
	env.Define("field1", types.Text)
	env.ClearSession()
	assert.Empty(t, env.Scopes)
}
