// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gitql

import "errors"

var (
	// ErrInvalidParameter is returned when an Option is given an argument
	// that can be rejected without evaluating any query.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNoRowSources is returned by Session.Run when called without at
	// least one RowSource. Run checks this before parsing, so it applies to
	// every query, a SET included, although only a SELECT reads sources[0].
	ErrNoRowSources = errors.New("no row sources provided")
)
