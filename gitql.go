// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gitql

import (
	"fmt"

	"github.com/hashicorp/gitql/internal/engine"
	"github.com/hashicorp/gitql/internal/environment"
	"github.com/hashicorp/gitql/internal/parser"
	"github.com/hashicorp/gitql/internal/tokenizer"
)

// RowSource is the interface one queryable repository satisfies.
// internal/gitsource.Source is the reference implementation, backed by
// go-git; callers with other ways of producing rows can implement it
// directly.
type RowSource = engine.RowSource

// Result is what running a query produced: either a set of rows (a SELECT)
// or nothing beyond a global variable assignment (SET).
type Result = engine.Result

// Session is a query environment: it holds global variables across calls
// to Run the way a database connection holds session state. A Session is
// not safe for concurrent use; each query is evaluated synchronously
// end-to-end.
type Session struct {
	env *environment.Environment
}

// NewSession returns a Session ready to Run queries, with any globals from
// WithGlobal already defined.
func NewSession(opt ...Option) (*Session, error) {
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, fmt.Errorf("gitql.NewSession: %w", err)
	}

	env := environment.New()
	for name, value := range opts.withGlobals {
		env.Globals[name] = value
		env.DefineGlobal(name, value.DataType())
	}
	return &Session{env: env}, nil
}

// Run parses and evaluates one query against sources. A SELECT with a
// non-empty FROM is run against every source in order and its rows
// appended in that order; a SELECT with no FROM clause (a literal
// projection) only ever touches sources[0], and a SET touches no source.
// Run still requires at least one source for every query.
//
// Local bindings a query's WHERE/GROUP BY/etc. introduce do not survive
// past the call; global variables set with SET persist on the Session for
// subsequent calls to Run.
func (s *Session) Run(query string, sources ...RowSource) (Result, error) {
	if len(sources) == 0 {
		return Result{}, fmt.Errorf("gitql.Run: %w", ErrNoRowSources)
	}

	tokens, diag := tokenizer.Tokenize(query)
	if diag != nil {
		return Result{}, diag
	}

	q, diag := parser.Parse(s.env, tokens)
	if diag != nil {
		return Result{}, diag
	}

	result, err := engine.Evaluate(s.env, sources, q)
	s.env.ClearSession()
	if err != nil {
		return Result{}, fmt.Errorf("gitql.Run: %w", err)
	}
	return result, nil
}
