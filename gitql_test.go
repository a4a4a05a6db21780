// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gitql

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/gitql/internal/gitsource"
	"github.com/hashicorp/gitql/internal/types"
)

// newTestRepo builds a throwaway repository with two commits, the same way
// internal/gitsource's own tests build a disposable repo via go-git.
func newTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	sig := &object.Signature{Name: "ada", Email: "ada@example.com", When: time.Unix(1700000000, 0)}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("initial commit", &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello again\n"), 0o644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	sig.When = sig.When.Add(time.Hour)
	_, err = wt.Commit("second commit", &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)

	return dir
}

// Test_Session_Run_EndToEnd exercises tokenize -> parse -> engine -> gitsource
// through the one entry point external callers use, rather than each layer
// in isolation.
func Test_Session_Run_EndToEnd(t *testing.T) {
	source, err := gitsource.Open(newTestRepo(t), gitsource.WithName("myrepo"))
	require.NoError(t, err)

	session, err := NewSession()
	require.NoError(t, err)

	result, err := session.Run(`SELECT title, email FROM commits ORDER BY title`, source)
	require.NoError(t, err)
	require.False(t, result.IsGlobalVariable)
	require.Equal(t, 1, result.Object.Len())

	rows := result.Object.Groups[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "initial commit", rows[0].Values[0].AsText())
	assert.Equal(t, "second commit", rows[1].Values[0].AsText())
	assert.Equal(t, "ada@example.com", rows[0].Values[1].AsText())
}

// Test_Session_Run_SetGlobalVariablePersistsAcrossCalls checks that SET
// writes to the session, not to a scope Run discards, and that a later
// query can read it back.
func Test_Session_Run_SetGlobalVariablePersistsAcrossCalls(t *testing.T) {
	source, err := gitsource.Open(newTestRepo(t))
	require.NoError(t, err)

	session, err := NewSession()
	require.NoError(t, err)

	result, err := session.Run(`SET @count := 1 + 1`, source)
	require.NoError(t, err)
	assert.True(t, result.IsGlobalVariable)

	result, err = session.Run(`SELECT @count`, source)
	require.NoError(t, err)
	require.Len(t, result.Object.Groups[0].Rows, 1)
	assert.Equal(t, int64(2), result.Object.Groups[0].Rows[0].Values[0].AsInt())
}

func Test_Session_Run_NoRowSourcesIsAnError(t *testing.T) {
	session, err := NewSession()
	require.NoError(t, err)

	_, err = session.Run(`SELECT 1 + 1`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoRowSources)
}

func Test_NewSession_WithGlobalPreseedsGlobals(t *testing.T) {
	source, err := gitsource.Open(newTestRepo(t))
	require.NoError(t, err)

	session, err := NewSession(WithGlobal("@seed", types.NewInteger(41)))
	require.NoError(t, err)

	result, err := session.Run(`SELECT @seed + 1`, source)
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.Object.Groups[0].Rows[0].Values[0].AsInt())
}
