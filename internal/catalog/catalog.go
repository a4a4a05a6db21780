// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package catalog is the static, process-wide registry of tables the
// engine knows how to query, and the column types each one carries.
package catalog

import "github.com/hashicorp/gitql/internal/types"

// TablesFieldsNames maps each known table to its ordered column list;
// ordering matters because it drives SELECT * expansion.
var TablesFieldsNames = map[string][]string{
	"refs": {"name", "full_name", "type", "repo"},
	"commits": {
		"commit_id", "title", "message", "name", "email", "datetime", "repo",
	},
	"branches": {"name", "commit_count", "is_head", "is_remote", "repo"},
	"diffs": {
		"commit_id", "name", "email", "insertions", "deletions", "files_changed", "repo",
	},
	"tags": {"name", "repo"},
}

// TablesFieldsTypes maps every column name across every table to its type.
// Column names are unique across the catalog, so one flat map suffices.
var TablesFieldsTypes = map[string]types.DataType{
	"commit_id":     types.Text,
	"title":         types.Text,
	"message":       types.Text,
	"name":          types.Text,
	"full_name":     types.Text,
	"email":         types.Text,
	"type":          types.Text,
	"repo":          types.Text,
	"insertions":    types.Integer,
	"deletions":     types.Integer,
	"files_changed": types.Integer,
	"commit_count":  types.Integer,
	"datetime":      types.DateTime,
	"is_head":       types.Boolean,
	"is_remote":     types.Boolean,
}

// IsTable reports whether name is a known catalog table.
func IsTable(name string) bool {
	_, ok := TablesFieldsNames[name]
	return ok
}

// Fields returns the ordered column list for a known table.
func Fields(table string) ([]string, bool) {
	fields, ok := TablesFieldsNames[table]
	return fields, ok
}

// FieldType returns the type of a known column name.
func FieldType(field string) (types.DataType, bool) {
	dt, ok := TablesFieldsTypes[field]
	return dt, ok
}
