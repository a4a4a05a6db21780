// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Command gitql runs one query against one or more Git repositories and
// prints the result as JSON or CSV.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp/gitql"
	"github.com/hashicorp/gitql/internal/gitsource"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("gitql", flag.ContinueOnError)
	query := fs.String("query", "", "query to run, e.g. SELECT name FROM refs")
	format := fs.String("format", "csv", "output format: csv or json")
	logLevel := fs.String("log-level", "warn", "log level: trace, debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "gitql",
		Level: hclog.LevelFromString(*logLevel),
	})

	if *query == "" {
		fmt.Fprintln(os.Stderr, "gitql: -query is required")
		return 2
	}

	repoPaths := fs.Args()
	if len(repoPaths) == 0 {
		repoPaths = []string{"."}
	}

	sources := make([]gitql.RowSource, 0, len(repoPaths))
	for _, path := range repoPaths {
		source, err := gitsource.Open(path, gitsource.WithLogger(logger), gitsource.WithName(path))
		if err != nil {
			logger.Error("failed to open repository", "path", path, "error", err)
			return 1
		}
		sources = append(sources, source)
	}

	session, err := gitql.NewSession()
	if err != nil {
		logger.Error("failed to start session", "error", err)
		return 1
	}

	result, err := session.Run(*query, sources...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gitql: %s\n", err)
		return 1
	}

	if result.IsGlobalVariable {
		return 0
	}

	return printResult(result, *format)
}

func printResult(result gitql.Result, format string) int {
	var (
		out []byte
		err error
	)
	switch strings.ToLower(format) {
	case "json":
		out, err = result.Object.AsJSON()
	case "csv":
		out, err = result.Object.AsCSV()
	default:
		fmt.Fprintf(os.Stderr, "gitql: unknown format %q\n", format)
		return 2
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "gitql: %s\n", err)
		return 1
	}
	os.Stdout.Write(out)
	return 0
}
