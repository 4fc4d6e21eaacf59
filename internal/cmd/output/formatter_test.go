package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/learnmerge/internal/cmd/table"
	pkgerrors "github.com/agentstation/learnmerge/pkg/errors"
	"github.com/agentstation/learnmerge/pkg/match"
	"github.com/agentstation/learnmerge/pkg/reconcile"
)

func sampleResult() *reconcile.Result {
	pairs := []reconcile.MatchedPair{{
		ID:             "DUP-0000aaaa-1111",
		Kind:           match.KindInter,
		Strategy:       match.StrategyExactEmail,
		Score:          100,
		Name:           "Sara",
		PrimaryAccount: "Talent",
		PrimaryEmail:   "sara@x.com",
		SecondaryEmail: "sara@x.com",
		Status:         reconcile.StatusDecided,
		Warnings:       []string{},
		MigrationSteps: []reconcile.MigrationStep{},
	}}
	return &reconcile.Result{Pairs: pairs, Summary: reconcile.Summarize(pairs), Config: match.DefaultConfig()}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{" wide ", FormatWide, false},
		{"", "", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, pkgerrors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestTableFormatter(t *testing.T) {
	t.Run("table data", func(t *testing.T) {
		var buf bytes.Buffer
		data := table.Data{
			Headers: []string{"Metric", "Value"},
			Rows:    [][]string{{"pairs", "7"}},
		}
		require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))
		assert.Contains(t, buf.String(), "pairs")
		assert.Contains(t, buf.String(), "7")
	})

	t.Run("falls back to json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatTable).Format(&buf, map[string]int{"n": 1}))
		assert.JSONEq(t, `{"n":1}`, buf.String())
	})
}

func TestFormatResult(t *testing.T) {
	res := sampleResult()

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatResult(&buf, res, FormatJSON))
		var decoded reconcile.Result
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded.Pairs, 1)
		assert.Equal(t, "sara@x.com", decoded.Pairs[0].PrimaryEmail)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatResult(&buf, res, FormatYAML))
		var decoded map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Contains(t, decoded, "pairs")
		assert.Contains(t, decoded, "summary")
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatResult(&buf, res, FormatTable))
		out := buf.String()
		assert.Contains(t, out, "Summary")
		assert.Contains(t, out, "Pairs")
		assert.Contains(t, out, "sara@x.com")
		assert.Contains(t, out, "DUP-0000aaaa")
	})
}

func TestFormatInspection(t *testing.T) {
	var buf bytes.Buffer
	in := Inspection{File: "talent.csv", Format: "text", Delimiter: ";", HeaderRow: 2, DataRows: 4}
	require.NoError(t, FormatInspection(&buf, in, FormatJSON))
	assert.Contains(t, buf.String(), `"delimiter": ";"`)
	assert.Contains(t, buf.String(), `"headerRow": 2`)
}
