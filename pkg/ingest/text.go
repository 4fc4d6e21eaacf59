package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	pkgerrors "github.com/agentstation/learnmerge/pkg/errors"
)

// delimiterSample is how many leading characters DetectDelimiter inspects.
const delimiterSample = 500

// DetectDelimiter picks tab, semicolon or comma by counting occurrences in
// the first 500 characters. Tab needs strictly more hits than both others,
// semicolon strictly more than comma; comma is the default.
func DetectDelimiter(text string) rune {
	sample := []rune(text)
	if len(sample) > delimiterSample {
		sample = sample[:delimiterSample]
	}
	var commas, semis, tabs int
	for _, r := range sample {
		switch r {
		case ',':
			commas++
		case ';':
			semis++
		case '\t':
			tabs++
		}
	}
	switch {
	case tabs > semis && tabs > commas:
		return '\t'
	case semis > commas:
		return ';'
	default:
		return ','
	}
}

// ParseText reads delimited text. Malformed records become Grid warnings;
// only a decoding failure is returned as an error.
func ParseText(data []byte) (*Grid, error) {
	decoded, enc, err := Decode(data)
	if err != nil {
		return nil, pkgerrors.NewParseError("csv", "", "decoding failed", err)
	}
	text := string(decoded)
	if strings.TrimSpace(text) == "" {
		return &Grid{Format: FormatText, Encoding: enc, Delimiter: ','}, nil
	}

	delim := DetectDelimiter(text)
	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		rows     [][]string
		warnings []Warning
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				warnings = append(warnings, Warning{Row: perr.Line, Message: fmt.Sprintf("skipped malformed row: %v", perr.Err)})
				continue
			}
			return nil, pkgerrors.NewParseError("csv", "", "read failed", err)
		}
		rows = append(rows, record)
	}

	g := FromRows(rows, FormatText)
	g.Delimiter = delim
	g.Encoding = enc
	g.Warnings = warnings
	return g, nil
}
