// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package environment implements the session symbol table: global
// variables (values and their types) and the per-query local scope.
package environment

import (
	"strings"

	"github.com/hashicorp/gitql/internal/types"
)

// Environment is the query compiler and evaluator's symbol table. Locals
// (Scopes) live for one query; globals persist for the session.
type Environment struct {
	Globals      map[string]types.Value
	GlobalsTypes map[string]types.DataType
	Scopes       map[string]types.DataType
}

// New returns an Environment with all three maps initialized empty.
func New() *Environment {
	return &Environment{
		Globals:      make(map[string]types.Value),
		GlobalsTypes: make(map[string]types.DataType),
		Scopes:       make(map[string]types.DataType),
	}
}

// Define records name's type in the current query's local scope.
func (e *Environment) Define(name string, dt types.DataType) {
	e.Scopes[name] = dt
}

// DefineGlobal records name's type in the session-wide global scope.
func (e *Environment) DefineGlobal(name string, dt types.DataType) {
	e.GlobalsTypes[name] = dt
}

// Contains reports whether name is known in either scope.
func (e *Environment) Contains(name string) bool {
	if _, ok := e.Scopes[name]; ok {
		return true
	}
	_, ok := e.GlobalsTypes[name]
	return ok
}

// ResolveType dispatches by the leading '@' that marks a global name.
func (e *Environment) ResolveType(name string) (types.DataType, bool) {
	if strings.HasPrefix(name, "@") {
		dt, ok := e.GlobalsTypes[name]
		return dt, ok
	}
	dt, ok := e.Scopes[name]
	return dt, ok
}

// ClearSession drops the local scope only; globals persist across queries.
func (e *Environment) ClearSession() {
	e.Scopes = make(map[string]types.DataType)
}
