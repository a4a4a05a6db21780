// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gitsource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/gitql/internal/ast"
	"github.com/hashicorp/gitql/internal/environment"
	"github.com/hashicorp/gitql/internal/types"
)

// newTestRepo builds a throwaway repository with one commit, one branch,
// and one tag, the same way the original engine's test suite builds a
// disposable bare repo via gix to exercise its row source.
func newTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	filePath := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(filePath, []byte("hello world\n"), 0o644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	sig := &object.Signature{Name: "name", Email: "name@example.com", When: time.Unix(1700000000, 0)}
	_, err = wt.Commit("initial commit", &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)

	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.ReferenceName("refs/heads/feature"), head.Hash())))
	_, err = repo.CreateTag("v1.0.0", head.Hash(), nil)
	require.NoError(t, err)

	return dir
}

func Test_Open_RejectsNonRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func Test_SelectRows_Refs(t *testing.T) {
	src, err := Open(newTestRepo(t), WithName("myrepo"))
	require.NoError(t, err)

	env := environment.New()
	group, err := src.SelectRows(env, "refs", []string{"name", "repo"}, []string{"name", "repo"}, []ast.Expression{
		&ast.SymbolExpression{Value: "name"},
		&ast.SymbolExpression{Value: "repo"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, group.Rows)
	for _, row := range group.Rows {
		assert.Equal(t, "myrepo", row.Values[1].AsText())
	}
}

func Test_SelectRows_Commits(t *testing.T) {
	src, err := Open(newTestRepo(t), WithName("myrepo"))
	require.NoError(t, err)

	env := environment.New()
	group, err := src.SelectRows(env, "commits", []string{"title", "email"}, []string{"title", "email"}, []ast.Expression{
		&ast.SymbolExpression{Value: "title"},
		&ast.SymbolExpression{Value: "email"},
	})
	require.NoError(t, err)
	require.Len(t, group.Rows, 1)
	assert.Equal(t, "initial commit", group.Rows[0].Values[0].AsText())
	assert.Equal(t, "name@example.com", group.Rows[0].Values[1].AsText())
}

func Test_SelectRows_BranchesIncludesHead(t *testing.T) {
	src, err := Open(newTestRepo(t), WithName("myrepo"))
	require.NoError(t, err)

	env := environment.New()
	group, err := src.SelectRows(env, "branches", []string{"name", "is_head"}, []string{"name", "is_head"}, []ast.Expression{
		&ast.SymbolExpression{Value: "name"},
		&ast.SymbolExpression{Value: "is_head"},
	})
	require.NoError(t, err)
	assert.Len(t, group.Rows, 2)

	foundHead := false
	for _, row := range group.Rows {
		if row.Values[1].AsBool() {
			foundHead = true
		}
	}
	assert.True(t, foundHead)
}

func Test_SelectRows_Tags(t *testing.T) {
	src, err := Open(newTestRepo(t), WithName("myrepo"))
	require.NoError(t, err)

	env := environment.New()
	group, err := src.SelectRows(env, "tags", []string{"name"}, []string{"name"}, []ast.Expression{
		&ast.SymbolExpression{Value: "name"},
	})
	require.NoError(t, err)
	require.Len(t, group.Rows, 1)
	assert.Equal(t, "v1.0.0", group.Rows[0].Values[0].AsText())
}

func Test_SelectRows_DiffsReportsInsertions(t *testing.T) {
	src, err := Open(newTestRepo(t), WithName("myrepo"))
	require.NoError(t, err)

	env := environment.New()
	group, err := src.SelectRows(env, "diffs", []string{"insertions", "files_changed"}, []string{"insertions", "files_changed"}, []ast.Expression{
		&ast.SymbolExpression{Value: "insertions"},
		&ast.SymbolExpression{Value: "files_changed"},
	})
	require.NoError(t, err)
	require.Len(t, group.Rows, 1)
	assert.Equal(t, int64(1), group.Rows[0].Values[0].AsInt())
	assert.Equal(t, int64(1), group.Rows[0].Values[1].AsInt())
}

func Test_SelectRows_EmptyTableNameForLiteralProjection(t *testing.T) {
	src, err := Open(newTestRepo(t))
	require.NoError(t, err)

	env := environment.New()
	group, err := src.SelectRows(env, "", []string{"column_1"}, []string{"column_1"}, []ast.Expression{
		&ast.ArithmeticExpression{
			Left:     &ast.NumberExpression{Value: types.NewInteger(1)},
			Operator: ast.ArithmeticPlus,
			Right:    &ast.NumberExpression{Value: types.NewInteger(1)},
		},
	})
	require.NoError(t, err)
	require.Len(t, group.Rows, 1)
	assert.Equal(t, int64(2), group.Rows[0].Values[0].AsInt())
}
