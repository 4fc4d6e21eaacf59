package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/agentstation/learnmerge/pkg/errors"
)

// Load reads a platform or directory export from disk, choosing the reader
// by file extension. Legacy binary .xls workbooks are rejected.
func Load(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.WrapIO("read", path, err)
	}
	g, err := Parse(data, path)
	if err != nil {
		var perr *pkgerrors.ParseError
		if pkgerrors.As(err, &perr) && perr.File == "" {
			perr.File = path
		}
		return nil, err
	}
	return g, nil
}

// Parse reads data using the format implied by name's extension.
func Parse(data []byte, name string) (*Grid, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return ParseSpreadsheet(bytes.NewReader(data))
	case ".xls":
		return nil, pkgerrors.NewParseError("xls", name, "legacy binary workbooks are not supported; save as .xlsx or .csv", pkgerrors.ErrUnsupportedFormat)
	default:
		return ParseText(data)
	}
}
