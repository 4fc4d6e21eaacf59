package output

import (
	"fmt"
	"io"

	"github.com/agentstation/learnmerge/internal/cmd/table"
	"github.com/agentstation/learnmerge/pkg/reconcile"
	"github.com/agentstation/learnmerge/pkg/schema"
)

// FormatResult writes a reconciliation result. Table output shows the
// summary, the per-source report and the pair list; structured formats
// emit the whole result.
func FormatResult(w io.Writer, res *reconcile.Result, format Format) error {
	if !format.IsTable() {
		return NewFormatter(format).Format(w, res)
	}

	formatter := NewFormatter(format)
	sections := []struct {
		title string
		data  table.Data
	}{
		{"Summary", table.SummaryToTableData(res.Summary)},
		{"Sources", table.SourcesToTableData(res.Sources)},
		{"Pairs", table.PairsToTableData(res.Pairs, format == FormatWide)},
	}
	for i, s := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, s.title); err != nil {
			return err
		}
		if err := formatter.Format(w, s.data); err != nil {
			return err
		}
	}
	return nil
}

// FormatPairs writes matched pairs only.
func FormatPairs(w io.Writer, pairs []reconcile.MatchedPair, format Format) error {
	var data any = pairs
	if format.IsTable() {
		data = table.PairsToTableData(pairs, format == FormatWide)
	}
	return NewFormatter(format).Format(w, data)
}

// Inspection describes how one input file was read.
type Inspection struct {
	File      string        `json:"file" yaml:"file"`
	Format    string        `json:"format" yaml:"format"`
	Encoding  string        `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Delimiter string        `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`
	Sheet     string        `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	HeaderRow int           `json:"headerRow" yaml:"headerRow"`
	DataRows  int           `json:"dataRows" yaml:"dataRows"`
	Layout    schema.Layout `json:"layout" yaml:"layout"`
	Warnings  []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// FormatInspection writes an input inspection.
func FormatInspection(w io.Writer, in Inspection, format Format) error {
	if !format.IsTable() {
		return NewFormatter(format).Format(w, in)
	}

	details := table.Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"File", in.File},
			{"Format", in.Format},
			{"Encoding", orDash(in.Encoding)},
			{"Delimiter", orDash(in.Delimiter)},
			{"Sheet", orDash(in.Sheet)},
			{"Header row", fmt.Sprint(in.HeaderRow + 1)},
			{"Data rows", fmt.Sprint(in.DataRows)},
			{"Email column", string(in.Layout.EmailSource)},
		},
	}
	for _, warning := range in.Warnings {
		details.Rows = append(details.Rows, []string{"Warning", warning})
	}

	formatter := NewFormatter(format)
	if err := formatter.Format(w, details); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return formatter.Format(w, table.LayoutToTableData(in.Layout))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
