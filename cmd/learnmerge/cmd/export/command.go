// Package export provides the export command, which renders a saved
// reconciliation result as a migration artifact.
package export

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/learnmerge/pkg/errors"
	"github.com/agentstation/learnmerge/pkg/export"
)

// AppContext defines what the export command needs from the app.
type AppContext interface {
	Logger() *zerolog.Logger
}

// NewCommand creates the export command.
func NewCommand(app AppContext) *cobra.Command {
	var as, out string
	cmd := &cobra.Command{
		Use:     "export <result.json|result.yaml>",
		GroupID: "core",
		Short:   "Render a saved result as SQL, Python, CSV or Markdown",
		Long: `Export turns a result saved with "reconcile --save" into an artifact.
The scripts are only rendered; nothing is executed. Pairs that need review
are emitted commented out.`,
		Example: `  learnmerge export result.json --as sql > merge.sql
  learnmerge export result.yaml --as markdown --out review.md
  learnmerge export result.json --as csv --out gaps.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(as)
			if err != nil {
				return err
			}
			res, err := export.LoadResult(args[0])
			if err != nil {
				return err
			}

			if out == "" {
				return export.Write(cmd.OutOrStdout(), format, res)
			}

			file, err := os.Create(out)
			if err != nil {
				return errors.WrapIO("create", out, err)
			}
			if err := export.Write(file, format, res); err != nil {
				_ = file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return errors.WrapIO("close", out, err)
			}
			app.Logger().Info().Str("path", out).Str("format", string(format)).Int("pairs", len(res.Pairs)).Msg("export written")
			return nil
		},
	}

	cmd.Flags().StringVar(&as, "as", string(export.FormatSQL), "artifact: sql, python, csv, markdown")
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}
