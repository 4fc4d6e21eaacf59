package ingest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"

	pkgerrors "github.com/agentstation/learnmerge/pkg/errors"
	"github.com/agentstation/learnmerge/pkg/ingest"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{"empty defaults to comma", "", ','},
		{"comma", "a,b,c\n1,2,3", ','},
		{"semicolon", "a;b;c\n1;2;3", ';'},
		{"tab", "a\tb\tc", '\t'},
		{"semicolon tie with comma keeps comma", "a;b,c", ','},
		{"tab tie with semicolon keeps semicolon", "a\tb;c;d\te", ';'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ingest.DetectDelimiter(tt.text))
		})
	}
}

func TestDetectDelimiterSampleLimit(t *testing.T) {
	text := strings.Repeat("x", 500) + strings.Repeat(";", 50)
	assert.Equal(t, ',', ingest.DetectDelimiter(text))
}

func TestDetectHeaderRow(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want int
	}{
		{
			name: "primary keyword on first row",
			rows: [][]string{{"Email", "Name"}, {"a@x.com", "A"}},
			want: 0,
		},
		{
			name: "primary keyword after banner rows",
			rows: [][]string{{"Course Report"}, {"Generated 2024"}, {"Full Name", "E-mail Address", "Safety"}},
			want: 2,
		},
		{
			name: "prefix needs a space",
			rows: [][]string{{"emailed", "x"}, {"Mail", "y"}},
			want: 1,
		},
		{
			name: "secondary keyword fallback",
			rows: [][]string{{"Report"}, {"Student Name", "Phone Number", "Safety"}, {"John", "555", "Completed"}},
			want: 1,
		},
		{
			name: "secondary header wins over later primary-looking data",
			rows: [][]string{
				{"Name", "Phone", "Address", "Department"},
				{"John", "555", "john@x.com", "Mail Room"},
				{"Jane", "556", "jane@x.com", "Login Issues"},
			},
			want: 0,
		},
		{
			name: "earlier secondary row beats later primary row",
			rows: [][]string{{"Report"}, {"Student", "Status"}, {"Email", "Name"}},
			want: 1,
		},
		{
			name: "single secondary keyword is not enough",
			rows: [][]string{{"Report"}, {"Name", "Safety"}},
			want: 0,
		},
		{
			name: "no signal defaults to zero",
			rows: [][]string{{"a", "b"}, {"c", "d"}},
			want: 0,
		},
		{
			name: "empty",
			rows: nil,
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ingest.DetectHeaderRow(tt.rows))
		})
	}
}

func TestParseTextKeepsRowsBelowSecondaryHeader(t *testing.T) {
	g, err := ingest.ParseText([]byte("Name,Phone,Address,Department\nJohn,555,john@x.com,Mail Room\nJane,556,jane@x.com,Finance\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, g.HeaderRow)
	require.Len(t, g.DataRows(), 2)
	assert.Equal(t, "John", g.DataRows()[0][0])
}

func TestDetectHeaderRowScanLimit(t *testing.T) {
	rows := make([][]string, 0, 25)
	for i := 0; i < 21; i++ {
		rows = append(rows, []string{"filler"})
	}
	rows = append(rows, []string{"Email", "Name"})
	assert.Equal(t, 0, ingest.DetectHeaderRow(rows))
}

func TestParseText(t *testing.T) {
	t.Run("quoted fields and blank lines", func(t *testing.T) {
		data := []byte("Name,Email,Safety\n\n\"Doe, John\",john@x.com,\"Completed\"\n   \nJane,jane@x.com,In Progress\n")
		g, err := ingest.ParseText(data)
		require.NoError(t, err)

		assert.Equal(t, ',', g.Delimiter)
		assert.Equal(t, ingest.FormatText, g.Format)
		assert.Equal(t, 0, g.HeaderRow)
		require.Len(t, g.Rows, 3)
		assert.Equal(t, []string{"Doe, John", "john@x.com", "Completed"}, g.Rows[1])
		assert.Len(t, g.DataRows(), 2)
	})

	t.Run("semicolon with ragged rows", func(t *testing.T) {
		g, err := ingest.ParseText([]byte("Email;Name;Course A\n a@x.com ; A \nb@x.com;B;Completed;extra\n"))
		require.NoError(t, err)

		assert.Equal(t, ';', g.Delimiter)
		assert.Equal(t, []string{"a@x.com", "A"}, g.Rows[1])
		assert.Equal(t, 4, g.Width())
	})

	t.Run("empty input", func(t *testing.T) {
		g, err := ingest.ParseText(nil)
		require.NoError(t, err)
		assert.True(t, g.Empty())
		assert.Nil(t, g.Headers())
		assert.Nil(t, g.DataRows())
	})

	t.Run("utf-8 bom", func(t *testing.T) {
		g, err := ingest.ParseText(append([]byte{0xEF, 0xBB, 0xBF}, []byte("Email\na@x.com\n")...))
		require.NoError(t, err)
		assert.Equal(t, ingest.EncodingUTF8BOM, g.Encoding)
		assert.Equal(t, "Email", g.Headers()[0])
	})

	t.Run("utf-16le bom", func(t *testing.T) {
		enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
		data, err := enc.Bytes([]byte("Email\tName\nx@y.com\tسارة\n"))
		require.NoError(t, err)

		g, err := ingest.ParseText(data)
		require.NoError(t, err)
		assert.Equal(t, ingest.EncodingUTF16LE, g.Encoding)
		assert.Equal(t, '\t', g.Delimiter)
		assert.Equal(t, "سارة", g.Rows[1][1])
	})

	t.Run("latin-1 fallback", func(t *testing.T) {
		g, err := ingest.ParseText([]byte("Email,Name\nj@x.com,Jos\xe9\n"))
		require.NoError(t, err)
		assert.Equal(t, ingest.EncodingLatin1, g.Encoding)
		assert.Equal(t, "José", g.Rows[1][1])
	})
}

func TestCell(t *testing.T) {
	row := []string{"a", "b"}
	assert.Equal(t, "b", ingest.Cell(row, 1))
	assert.Empty(t, ingest.Cell(row, 2))
	assert.Empty(t, ingest.Cell(row, -1))
}

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseSpreadsheet(t *testing.T) {
	data := workbook(t, [][]any{
		{"Pharmacy LMS export"},
		{},
		{"Full Name", "Username", "Safety"},
		{"John", "john@x.com", "Completed (achieved pass grade)"},
	})

	g, err := ingest.Parse(data, "pharmacy.xlsx")
	require.NoError(t, err)

	assert.Equal(t, ingest.FormatSpreadsheet, g.Format)
	assert.Equal(t, "Sheet1", g.Sheet)
	assert.Len(t, g.Rows, 3, "blank row dropped")
	assert.Equal(t, 1, g.HeaderRow)
	assert.Equal(t, []string{"Full Name", "Username", "Safety"}, g.Headers())
}

func TestSpreadsheetAndTextAgree(t *testing.T) {
	rows := [][]any{
		{"Report"},
		{"Student", "Mobile", "Course"},
		{"A", "1", "Completed"},
	}
	sheet, err := ingest.Parse(workbook(t, rows), "a.xlsx")
	require.NoError(t, err)
	text, err := ingest.ParseText([]byte("Report\nStudent,Mobile,Course\nA,1,Completed\n"))
	require.NoError(t, err)

	assert.Equal(t, text.HeaderRow, sheet.HeaderRow)
	assert.Equal(t, text.Headers(), sheet.Headers())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv file", func(t *testing.T) {
		path := filepath.Join(dir, "talent.csv")
		require.NoError(t, os.WriteFile(path, []byte("email,name\na@x.com,A\n"), 0o600))
		g, err := ingest.Load(path)
		require.NoError(t, err)
		assert.Len(t, g.DataRows(), 1)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ingest.Load(filepath.Join(dir, "nope.csv"))
		var ioErr *pkgerrors.IOError
		assert.ErrorAs(t, err, &ioErr)
	})

	t.Run("legacy xls", func(t *testing.T) {
		path := filepath.Join(dir, "old.xls")
		require.NoError(t, os.WriteFile(path, []byte{0xD0, 0xCF}, 0o600))
		_, err := ingest.Load(path)
		assert.True(t, pkgerrors.IsUnsupportedFormat(err))
	})

	t.Run("corrupt xlsx", func(t *testing.T) {
		path := filepath.Join(dir, "bad.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o600))
		_, err := ingest.Load(path)
		var perr *pkgerrors.ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, path, perr.File)
	})
}
