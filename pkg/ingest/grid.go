// Package ingest reads loosely structured platform exports into a Grid of
// trimmed cells and locates the header row.
//
// Delimited text and spreadsheets share the same header detection, so a
// workbook and its CSV export resolve to the same header row.
package ingest

import (
	"strings"

	"github.com/agentstation/learnmerge/pkg/normalize"
)

// Format identifies how a Grid was read.
type Format string

// Supported input formats.
const (
	FormatText        Format = "text"
	FormatSpreadsheet Format = "spreadsheet"
)

// Warning is a non-fatal problem found while reading input.
type Warning struct {
	Row     int    `json:"row" yaml:"row"`
	Message string `json:"message" yaml:"message"`
}

// Grid is an ordered sequence of rows with a detected header row.
type Grid struct {
	Rows      [][]string `json:"rows" yaml:"rows"`
	HeaderRow int        `json:"headerRow" yaml:"headerRow"`
	Delimiter rune       `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`
	Encoding  string     `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Format    Format     `json:"format" yaml:"format"`
	Sheet     string     `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	Warnings  []Warning  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// FromRows builds a Grid from pre-parsed cells, dropping blank rows and
// detecting the header row.
func FromRows(rows [][]string, format Format) *Grid {
	g := &Grid{Format: format}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
		}
		if isBlank(cells) {
			continue
		}
		g.Rows = append(g.Rows, cells)
	}
	g.HeaderRow = DetectHeaderRow(g.Rows)
	return g
}

// Empty reports whether the grid holds no rows at all.
func (g *Grid) Empty() bool {
	return g == nil || len(g.Rows) == 0
}

// Headers returns the header row cells, or nil for an empty grid.
func (g *Grid) Headers() []string {
	if g.Empty() || g.HeaderRow >= len(g.Rows) {
		return nil
	}
	return g.Rows[g.HeaderRow]
}

// DataRows returns the rows following the header.
func (g *Grid) DataRows() [][]string {
	if g.Empty() || g.HeaderRow+1 >= len(g.Rows) {
		return nil
	}
	return g.Rows[g.HeaderRow+1:]
}

// Width is the widest row length in the grid.
func (g *Grid) Width() int {
	if g == nil {
		return 0
	}
	w := 0
	for _, row := range g.Rows {
		w = max(w, len(row))
	}
	return w
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

// Cell returns row[i] or "" when the row is shorter.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func cleanCells(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = normalize.Clean(c)
	}
	return out
}
