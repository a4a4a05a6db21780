// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package diagnostic implements the structured compile-time error the
// tokenizer, parser, and type checker return instead of a bare string:
// a label, message, source span, notes, helps, and an optional doc link.
package diagnostic

import "fmt"

// Span is a byte-offset range into the source text, [Start, End).
type Span struct {
	Start int
	End   int
}

// Diagnostic is a fluent-built compile-time error. Every With*/Add* method
// returns the receiver so callers can chain construction, the way the
// source's builder does.
type Diagnostic struct {
	Lbl   string
	Msg   string
	Loc   *Span
	Nts   []string
	Hlps  []string
	DocURL string
}

// New returns a Diagnostic with a caller-chosen label.
func New(label, message string) *Diagnostic {
	return &Diagnostic{Lbl: label, Msg: message}
}

// Error returns a Diagnostic labeled "Error".
func Error(format string, args ...any) *Diagnostic {
	return New("Error", fmt.Sprintf(format, args...))
}

// Exception returns a Diagnostic labeled "Exception", for conditions the
// parser treats as an internal invariant violation rather than user error.
func Exception(format string, args ...any) *Diagnostic {
	return New("Exception", fmt.Sprintf(format, args...))
}

func (d *Diagnostic) WithLocation(span Span) *Diagnostic {
	d.Loc = &span
	return d
}

func (d *Diagnostic) AddNote(note string) *Diagnostic {
	d.Nts = append(d.Nts, note)
	return d
}

func (d *Diagnostic) AddHelp(help string) *Diagnostic {
	d.Hlps = append(d.Hlps, help)
	return d
}

func (d *Diagnostic) WithDocs(url string) *Diagnostic {
	d.DocURL = url
	return d
}

func (d *Diagnostic) Label() string      { return d.Lbl }
func (d *Diagnostic) Message() string    { return d.Msg }
func (d *Diagnostic) Location() *Span    { return d.Loc }
func (d *Diagnostic) Notes() []string    { return d.Nts }
func (d *Diagnostic) Helps() []string    { return d.Hlps }
func (d *Diagnostic) Docs() string       { return d.DocURL }

// Error satisfies the error interface so a Diagnostic can flow through any
// Go API that expects one; callers that want the structured fields type-
// assert back to *Diagnostic.
func (d *Diagnostic) Error() string {
	if d.Loc != nil {
		return fmt.Sprintf("%s: %s (at %d:%d)", d.Lbl, d.Msg, d.Loc.Start, d.Loc.End)
	}
	return fmt.Sprintf("%s: %s", d.Lbl, d.Msg)
}
