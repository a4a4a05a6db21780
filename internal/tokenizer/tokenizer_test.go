// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/gitql/internal/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	tokens, diag := Tokenize(src)
	require.Nil(t, diag)
	out := make([]token.Kind, 0, len(tokens))
	for _, tk := range tokens {
		out = append(out, tk.Kind)
	}
	return out
}

func Test_Tokenize_Select(t *testing.T) {
	got := kinds(t, "SELECT * FROM commits WHERE is_head = true LIMIT 1")
	assert.Equal(t, []token.Kind{
		token.Select, token.Star, token.From, token.Symbol, token.Where,
		token.Symbol, token.Equal, token.True, token.Limit, token.Integer, token.EOF,
	}, got)
}

func Test_Tokenize_KeywordsAreCaseInsensitive(t *testing.T) {
	got := kinds(t, "select 1")
	assert.Equal(t, token.Select, got[0])
}

func Test_Tokenize_NumberForms(t *testing.T) {
	tokens, diag := Tokenize("0x01 0b01 0o01 3.14 42")
	require.Nil(t, diag)
	require.Len(t, tokens, 6)
	for i, want := range []string{"1", "1", "1", "3.14", "42"} {
		assert.Equal(t, want, tokens[i].Literal)
	}
	assert.Equal(t, token.Float, tokens[3].Kind)
	assert.Equal(t, token.Integer, tokens[4].Kind)
}

func Test_Tokenize_AngleBracketQuirk(t *testing.T) {
	tokens, diag := Tokenize("1 <> 2")
	require.Nil(t, diag)
	assert.Equal(t, token.BangEqual, tokens[1].Kind)
	assert.Equal(t, "<>", tokens[1].Literal)
}

func Test_Tokenize_GlobalVariable(t *testing.T) {
	tokens, diag := Tokenize("SET @x := 5")
	require.Nil(t, diag)
	assert.Equal(t, token.GlobalVariable, tokens[1].Kind)
	assert.Equal(t, "@x", tokens[1].Literal)
	assert.Equal(t, token.ColonEqual, tokens[2].Kind)
}

func Test_Tokenize_Comments(t *testing.T) {
	got := kinds(t, "SELECT 1 -- trailing comment\n/* block */ FROM commits")
	assert.Equal(t, []token.Kind{token.Select, token.Integer, token.From, token.Symbol, token.EOF}, got)
}

func Test_Tokenize_UnterminatedString(t *testing.T) {
	_, diag := Tokenize(`SELECT "unterminated`)
	require.NotNil(t, diag)
}

func Test_Tokenize_UnterminatedBlockComment(t *testing.T) {
	_, diag := Tokenize(`SELECT 1 /* oops`)
	require.NotNil(t, diag)
}

func Test_Tokenize_BacktickIdentifier(t *testing.T) {
	tokens, diag := Tokenize("SELECT `order` FROM commits")
	require.Nil(t, diag)
	assert.Equal(t, token.Symbol, tokens[1].Kind)
	assert.Equal(t, "order", tokens[1].Literal)
}

func Test_Tokenize_Between(t *testing.T) {
	got := kinds(t, "SELECT a BETWEEN 1..5")
	assert.Contains(t, got, token.DotDot)
}
