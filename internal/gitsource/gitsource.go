// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package gitsource is the reference engine.RowSource: it reads refs,
// commits, branches, diffs, and tags out of an on-disk Git repository via
// go-git and evaluates each selected field expression against every
// physical record, the way internal/exec's Select clause expects.
package gitsource

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	gitobject "github.com/go-git/go-git/v5/plumbing/object"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp/gitql/internal/ast"
	"github.com/hashicorp/gitql/internal/catalog"
	"github.com/hashicorp/gitql/internal/environment"
	"github.com/hashicorp/gitql/internal/eval"
	"github.com/hashicorp/gitql/internal/object"
	"github.com/hashicorp/gitql/internal/types"
)

// Source is a RowSource backed by one on-disk Git repository.
type Source struct {
	repo   *git.Repository
	name   string
	logger hclog.Logger
}

// Open opens the repository at path (bare or with a working tree) as a
// Source. The `repo` column of every row it produces defaults to path,
// overridable with WithName.
func Open(path string, opt ...Option) (*Source, error) {
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, fmt.Errorf("gitsource.Open: %w", err)
	}

	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("gitsource.Open: %w", err)
	}

	name := opts.withName
	if name == "" {
		name = path
	}

	return &Source{repo: repo, name: name, logger: opts.withLogger}, nil
}

// record is one physical row's raw columns, keyed by the catalog's column
// order for the table it came from.
type record struct {
	titles []string
	values []types.Value
}

// SelectRows implements exec.RowSource (aliased as engine.RowSource).
func (s *Source) SelectRows(env *environment.Environment, tableName string, fieldNames, titles []string, fieldValues []ast.Expression) (object.Group, error) {
	records, err := s.records(tableName)
	if err != nil {
		return object.Group{}, err
	}

	group := object.Group{Rows: make([]object.Row, 0, len(records))}
	for _, rec := range records {
		row := object.Row{Values: make([]types.Value, len(fieldNames))}
		for i, fieldName := range fieldNames {
			expr := ast.Expression(&ast.SymbolExpression{Value: fieldName})
			if i < len(fieldValues) {
				expr = fieldValues[i]
			}
			value, err := eval.Expression(env, expr, rec.titles, rec.values)
			if err != nil {
				return object.Group{}, err
			}
			row.Values[i] = value
		}
		group.Rows = append(group.Rows, row)
	}
	return group, nil
}

func (s *Source) records(tableName string) ([]record, error) {
	switch tableName {
	case "":
		return []record{{}}, nil
	case "refs":
		return s.refsRecords()
	case "commits":
		return s.commitsRecords()
	case "branches":
		return s.branchesRecords()
	case "diffs":
		return s.diffsRecords()
	case "tags":
		return s.tagsRecords()
	default:
		return nil, fmt.Errorf("gitsource: unknown table %q", tableName)
	}
}

func newRecord(table string, column func(name string) types.Value) record {
	fields, _ := catalog.Fields(table)
	rec := record{titles: fields, values: make([]types.Value, len(fields))}
	for i, field := range fields {
		rec.values[i] = column(field)
	}
	return rec
}

func refType(name plumbing.ReferenceName) string {
	switch {
	case name == plumbing.HEAD:
		return "HEAD"
	case name.IsTag():
		return "tag"
	case name.IsRemote():
		return "remote_branch"
	case name.IsBranch():
		return "branch"
	default:
		return "ref"
	}
}

func (s *Source) refsRecords() ([]record, error) {
	iter, err := s.repo.References()
	if err != nil {
		return nil, fmt.Errorf("gitsource: list references: %w", err)
	}
	defer iter.Close()

	var records []record
	var errs *multierror.Error
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		records = append(records, newRecord("refs", func(field string) types.Value {
			switch field {
			case "name":
				return types.NewText(ref.Name().Short())
			case "full_name":
				return types.NewText(ref.Name().String())
			case "type":
				return types.NewText(refType(ref.Name()))
			default: // repo
				return types.NewText(s.name)
			}
		}))
		return nil
	})
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	return records, errs.ErrorOrNil()
}

func (s *Source) tagsRecords() ([]record, error) {
	iter, err := s.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("gitsource: list tags: %w", err)
	}
	defer iter.Close()

	var records []record
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		records = append(records, newRecord("tags", func(field string) types.Value {
			if field == "name" {
				return types.NewText(ref.Name().Short())
			}
			return types.NewText(s.name)
		}))
		return nil
	})
	if err != nil {
		return records, fmt.Errorf("gitsource: walk tags: %w", err)
	}
	return records, nil
}

func (s *Source) branchesRecords() ([]record, error) {
	head, headErr := s.repo.Head()

	iter, err := s.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("gitsource: list branches: %w", err)
	}
	defer iter.Close()

	var records []record
	var errs *multierror.Error
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		count, countErr := s.commitCount(ref.Hash())
		if countErr != nil {
			errs = multierror.Append(errs, countErr)
			s.logger.Warn("gitsource: failed to count commits for branch", "branch", ref.Name().Short(), "error", countErr)
		}

		isHead := headErr == nil && head.Name() == ref.Name()

		records = append(records, newRecord("branches", func(field string) types.Value {
			switch field {
			case "name":
				return types.NewText(ref.Name().Short())
			case "commit_count":
				return types.NewInteger(int64(count))
			case "is_head":
				return types.NewBoolean(isHead)
			case "is_remote":
				return types.NewBoolean(false)
			default: // repo
				return types.NewText(s.name)
			}
		}))
		return nil
	})
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	return records, errs.ErrorOrNil()
}

func (s *Source) commitCount(from plumbing.Hash) (int, error) {
	iter, err := s.repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	count := 0
	err = iter.ForEach(func(*gitobject.Commit) error {
		count++
		return nil
	})
	return count, err
}

func (s *Source) commitsRecords() ([]record, error) {
	iter, err := s.repo.CommitObjects()
	if err != nil {
		return nil, fmt.Errorf("gitsource: list commits: %w", err)
	}
	defer iter.Close()

	var records []record
	err = iter.ForEach(func(c *gitobject.Commit) error {
		records = append(records, commitRecord(s.name, c))
		return nil
	})
	if err != nil {
		return records, fmt.Errorf("gitsource: walk commits: %w", err)
	}
	return records, nil
}

func commitRecord(repoName string, c *gitobject.Commit) record {
	title, _, _ := strings.Cut(c.Message, "\n")
	return newRecord("commits", func(field string) types.Value {
		switch field {
		case "commit_id":
			return types.NewText(c.Hash.String())
		case "title":
			return types.NewText(title)
		case "message":
			return types.NewText(c.Message)
		case "name":
			return types.NewText(c.Author.Name)
		case "email":
			return types.NewText(c.Author.Email)
		case "datetime":
			return types.NewDateTime(c.Author.When.Unix())
		default: // repo
			return types.NewText(repoName)
		}
	})
}

func (s *Source) diffsRecords() ([]record, error) {
	iter, err := s.repo.CommitObjects()
	if err != nil {
		return nil, fmt.Errorf("gitsource: list commits for diffs: %w", err)
	}
	defer iter.Close()

	var records []record
	var errs *multierror.Error
	err = iter.ForEach(func(c *gitobject.Commit) error {
		stats, statErr := c.Stats()
		if statErr != nil {
			errs = multierror.Append(errs, fmt.Errorf("gitsource: stats for commit %s: %w", c.Hash, statErr))
			s.logger.Warn("gitsource: failed to compute diff stats", "commit", c.Hash.String(), "error", statErr)
			return nil
		}

		var insertions, deletions int
		for _, stat := range stats {
			insertions += stat.Addition
			deletions += stat.Deletion
		}

		records = append(records, newRecord("diffs", func(field string) types.Value {
			switch field {
			case "commit_id":
				return types.NewText(c.Hash.String())
			case "name":
				return types.NewText(c.Author.Name)
			case "email":
				return types.NewText(c.Author.Email)
			case "insertions":
				return types.NewInteger(int64(insertions))
			case "deletions":
				return types.NewInteger(int64(deletions))
			case "files_changed":
				return types.NewInteger(int64(len(stats)))
			default: // repo
				return types.NewText(s.name)
			}
		}))
		return nil
	})
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	return records, errs.ErrorOrNil()
}
