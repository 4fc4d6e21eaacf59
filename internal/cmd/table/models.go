// Package table converts reconciliation values into rows for table output.
package table

import (
	"strconv"
	"strings"

	"github.com/agentstation/learnmerge/pkg/reconcile"
	"github.com/agentstation/learnmerge/pkg/schema"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// Pair states shown in the status column.
const (
	StateReady  = "Ready"
	StateReview = "Review"
)

// PairsToTableData converts matched pairs to table format. Wide output adds
// email classifications, warnings and the decision reason.
func PairsToTableData(pairs []reconcile.MatchedPair, wide bool) Data {
	headers := []string{"ID", "Type", "Match", "Score", "Name", "Primary", "Primary Email", "Secondary Email", "Gaps", "Status"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft}
	if wide {
		headers = append(headers, "Email A", "Email B", "Warnings", "Decision")
		align = append(align, AlignLeft, AlignLeft, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		state := StateReady
		if p.NeedsReview() {
			state = StateReview
		}
		row := []string{
			ShortID(p.ID),
			string(p.Kind),
			string(p.Strategy),
			strconv.Itoa(p.Score),
			p.Name,
			p.PrimaryAccount,
			p.PrimaryEmail,
			p.SecondaryEmail,
			strconv.Itoa(len(p.MigrationSteps)),
			state,
		}
		if wide {
			warnings := strings.Join(p.Warnings, "; ")
			if warnings == "" {
				warnings = "-"
			}
			row = append(row, string(p.EmailAType), string(p.EmailBType), warnings, Truncate(p.DecisionReason, 80))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// SummaryToTableData converts run figures to a metric/value table.
func SummaryToTableData(s reconcile.Summary) Data {
	return Data{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Duplicate pairs", strconv.Itoa(s.Total)},
			{"Exact email", strconv.Itoa(s.ExactEmail)},
			{"Same phone", strconv.Itoa(s.SamePhone)},
			{"Fuzzy name", strconv.Itoa(s.FuzzyName)},
			{"Intra-platform", strconv.Itoa(s.Intra)},
			{"Tied", strconv.Itoa(s.Tied)},
			{"Needs review", strconv.Itoa(s.NeedsReview)},
			{"Ready to merge", strconv.Itoa(s.Ready)},
			{"Missing courses", strconv.Itoa(s.MissingCourses)},
		},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// SourcesToTableData converts per-source reports to table format.
func SourcesToTableData(sources []reconcile.SourceReport) Data {
	rows := make([][]string, 0, len(sources))
	for _, s := range sources {
		warnings := strings.Join(s.Warnings, "; ")
		if warnings == "" {
			warnings = "-"
		}
		rows = append(rows, []string{
			s.Platform.String(),
			strconv.Itoa(s.HeaderRow + 1),
			string(s.EmailSource),
			strconv.Itoa(s.DataRows),
			strconv.Itoa(s.Records),
			strconv.Itoa(s.Merged),
			strconv.Itoa(s.SkippedNoEmail),
			warnings,
		})
	}
	return Data{
		Headers:         []string{"Platform", "Header Row", "Email Column", "Rows", "Records", "Merged", "No Email", "Warnings"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft},
	}
}

// LayoutToTableData lists where each identity field was found.
func LayoutToTableData(l schema.Layout) Data {
	columns := l.Columns()
	rows := make([][]string, 0, len(columns))
	for _, c := range columns {
		index, header := "-", "-"
		if c.Index != schema.NotFound {
			index = strconv.Itoa(c.Index + 1)
			header = l.ColumnName(c.Index)
		}
		rows = append(rows, []string{string(c.Field), index, header})
	}
	return Data{
		Headers:         []string{"Field", "Column", "Header"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft},
	}
}

// ShortID trims a pair ID to its prefix and first UUID group.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i >= 0 {
		if j := strings.IndexByte(id[i+1:], '-'); j >= 0 {
			return id[:i+1+j]
		}
	}
	return id
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
