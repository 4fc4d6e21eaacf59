package export

import (
	"io"

	"github.com/agentstation/learnmerge/pkg/reconcile"
)

// Write renders res in format f.
func Write(w io.Writer, f Format, res *reconcile.Result) error {
	switch f {
	case FormatSQL:
		return SQL(w, res.Pairs)
	case FormatPython:
		return Python(w, res.Pairs)
	case FormatCSV:
		return GapCSV(w, res.Pairs)
	case FormatMarkdown:
		return Markdown(w, res)
	}
	_, err := ParseFormat(string(f))
	return err
}
