package ingest

import (
	"io"

	"github.com/xuri/excelize/v2"

	pkgerrors "github.com/agentstation/learnmerge/pkg/errors"
)

// ParseSpreadsheet reads the first sheet of an Office Open XML workbook.
func ParseSpreadsheet(r io.Reader) (*Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, pkgerrors.NewParseError("xlsx", "", "cannot open workbook", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Grid{Format: FormatSpreadsheet}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, pkgerrors.NewParseError("xlsx", "", "cannot read sheet "+sheets[0], err)
	}

	g := FromRows(rows, FormatSpreadsheet)
	g.Sheet = sheets[0]
	return g, nil
}
