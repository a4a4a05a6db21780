// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Diagnostic_Error(t *testing.T) {
	d := Error("unresolved table name")
	assert.Equal(t, "Error", d.Label())
	assert.Equal(t, "unresolved table name", d.Message())
}

func Test_Diagnostic_Chaining(t *testing.T) {
	d := Error("bad literal").
		WithLocation(Span{Start: 1, End: 2}).
		AddNote("a note").
		AddHelp("a help").
		WithDocs("https://example.com/docs")

	assert.Equal(t, &Span{Start: 1, End: 2}, d.Location())
	assert.Equal(t, []string{"a note"}, d.Notes())
	assert.Equal(t, []string{"a help"}, d.Helps())
	assert.Equal(t, "https://example.com/docs", d.Docs())
}

func Test_Diagnostic_ErrorInterface(t *testing.T) {
	var err error = Exception("internal invariant violated")
	assert.Contains(t, err.Error(), "Exception")
}
