// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package object implements the in-memory result shape the executor
// produces: rows of values, grouped, carrying their column titles.
package object

import (
	"bytes"
	"encoding/csv"
	"encoding/json"

	"github.com/hashicorp/gitql/internal/types"
)

// Row is an ordered sequence of values, positionally aligned with the
// enclosing object's titles.
type Row struct {
	Values []types.Value
}

// Group is an ordered sequence of rows.
type Group struct {
	Rows []Row
}

func (g *Group) Len() int { return len(g.Rows) }

func (g *Group) IsEmpty() bool { return len(g.Rows) == 0 }

// GitQLObject is the engine's top-level result: ordered column display
// names plus an ordered sequence of groups (more than one only while
// GROUP BY is mid-pipeline; the executor collapses back to one group by
// the time a query finishes, see internal/engine).
type GitQLObject struct {
	Titles []string
	Groups []Group
}

func (o *GitQLObject) Len() int { return len(o.Groups) }

func (o *GitQLObject) IsEmpty() bool { return len(o.Groups) == 0 }

// Flat concatenates every group's rows into a single group, preserving
// group and row order.
func (o *GitQLObject) Flat() Group {
	flat := Group{}
	for _, g := range o.Groups {
		flat.Rows = append(flat.Rows, g.Rows...)
	}
	return flat
}

// AsJSON renders the first group as an array of objects keyed by title.
// Matching the source, later groups (mid-pipeline GROUP BY artifacts) are
// not included; by the time a query finishes there is only ever one group.
func (o *GitQLObject) AsJSON() ([]byte, error) {
	if o.IsEmpty() {
		return []byte("[]"), nil
	}
	rows := o.Groups[0].Rows
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(o.Titles))
		for i, title := range o.Titles {
			if i < len(row.Values) {
				obj[title] = row.Values[i].Literal()
			}
		}
		out = append(out, obj)
	}
	return json.Marshal(out)
}

// AsCSV renders the first group as RFC 4180 CSV, titles as the header row.
func (o *GitQLObject) AsCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(o.Titles); err != nil {
		return nil, err
	}
	if !o.IsEmpty() {
		for _, row := range o.Groups[0].Rows {
			record := make([]string, len(row.Values))
			for i, v := range row.Values {
				record[i] = v.Literal()
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
