// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hashicorp/gitql/internal/types"
)

func Test_Catalog_IsTable(t *testing.T) {
	assert.True(t, IsTable("commits"))
	assert.False(t, IsTable("unknown"))
}

func Test_Catalog_Fields(t *testing.T) {
	fields, ok := Fields("tags")
	assert.True(t, ok)
	assert.Equal(t, []string{"name", "repo"}, fields)
}

func Test_Catalog_FieldType(t *testing.T) {
	dt, ok := FieldType("is_head")
	assert.True(t, ok)
	assert.Equal(t, types.Boolean, dt)

	dt, ok = FieldType("datetime")
	assert.True(t, ok)
	assert.Equal(t, types.DateTime, dt)
}
