// Package export renders reconciliation results as migration artifacts:
// SQL and Python action scripts, a gap CSV and a Markdown review report.
// Nothing here executes against a live system.
package export

import (
	"fmt"
	"strings"

	pkgerrors "github.com/agentstation/learnmerge/pkg/errors"
	"github.com/agentstation/learnmerge/pkg/reconcile"
	"github.com/agentstation/learnmerge/pkg/records"
)

// Format names an export artifact.
type Format string

// Supported export formats.
const (
	FormatSQL      Format = "sql"
	FormatPython   Format = "python"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Formats lists every export format.
var Formats = []Format{FormatSQL, FormatPython, FormatCSV, FormatMarkdown}

// ParseFormat parses a format name, accepting common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sql":
		return FormatSQL, nil
	case "python", "py":
		return FormatPython, nil
	case "csv", "gaps":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", pkgerrors.NewValidationError("format", s, fmt.Sprintf("unsupported export format %q (want sql, python, csv or markdown)", s))
}

// Extension is the conventional file extension for f.
func (f Format) Extension() string {
	switch f {
	case FormatPython:
		return ".py"
	case FormatMarkdown:
		return ".md"
	}
	return "." + string(f)
}

// tablePrefix turns a platform label into an identifier-safe table prefix.
func tablePrefix(p records.Platform) string {
	var b strings.Builder
	for _, r := range strings.ToLower(p.String()) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "platform"
	}
	return b.String()
}

// mergeable reports whether a pair gets live statements.
func mergeable(p reconcile.MatchedPair) bool {
	return p.ShouldDeleteSecondary && p.Status != reconcile.StatusReviewNeeded
}
