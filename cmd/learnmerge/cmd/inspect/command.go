// Package inspect provides the inspect command, which shows how an export
// file is read before it is reconciled.
package inspect

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/learnmerge/internal/cmd/output"
	"github.com/agentstation/learnmerge/pkg/ingest"
	"github.com/agentstation/learnmerge/pkg/schema"
)

// AppContext defines what the inspect command needs from the app.
type AppContext interface {
	OutputFormat() string
}

// NewCommand creates the inspect command.
func NewCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "inspect <file>",
		GroupID: "core",
		Short:   "Show how an export is parsed",
		Long: `Inspect reports the detected encoding, delimiter and header row of an
export, and which column was resolved for each identity field.`,
		Example: `  learnmerge inspect talent.csv
  learnmerge inspect pharmacy.xlsx -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(string(output.DetectFormat(app.OutputFormat())))
			if err != nil {
				return err
			}

			grid, err := ingest.Load(args[0])
			if err != nil {
				return err
			}
			return output.FormatInspection(cmd.OutOrStdout(), Describe(args[0], grid), format)
		},
	}
}

// Describe summarises how grid was read from file.
func Describe(file string, grid *ingest.Grid) output.Inspection {
	in := output.Inspection{
		File:      file,
		Format:    string(grid.Format),
		Encoding:  grid.Encoding,
		Sheet:     grid.Sheet,
		HeaderRow: grid.HeaderRow,
		DataRows:  len(grid.DataRows()),
		Layout:    schema.Resolve(grid),
	}
	if grid.Delimiter != 0 {
		in.Delimiter = DelimiterName(grid.Delimiter)
	}
	for _, w := range grid.Warnings {
		in.Warnings = append(in.Warnings, fmt.Sprintf("row %d: %s", w.Row, w.Message))
	}
	return in
}

// DelimiterName spells out invisible delimiters.
func DelimiterName(r rune) string {
	if r == '\t' {
		return "tab"
	}
	return string(r)
}
