// Package reconcile provides the reconcile command.
package reconcile

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/learnmerge"
	"github.com/agentstation/learnmerge/internal/cmd/output"
	"github.com/agentstation/learnmerge/pkg/errors"
	"github.com/agentstation/learnmerge/pkg/export"
	"github.com/agentstation/learnmerge/pkg/logging"
	recon "github.com/agentstation/learnmerge/pkg/reconcile"
)

// AppContext defines what the reconcile command needs from the app.
type AppContext interface {
	Engine(opts ...learnmerge.Option) (learnmerge.Engine, error)
	Reviewer(ctx context.Context, draftEmail bool) (learnmerge.Reviewer, error)
	Logger() *zerolog.Logger
	OutputFormat() string
}

type flags struct {
	directory  string
	threshold  float64
	intra      bool
	noArabic   bool
	strategies string
	platforms  string
	narrate    bool
	draftEmail bool
	save       string
	script     string
	scriptOut  string
}

// NewCommand creates the reconcile command.
func NewCommand(app AppContext) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:     "reconcile <platform-a-export> <platform-b-export>",
		GroupID: "core",
		Short:   "Find duplicate accounts and plan their merge",
		Long: `Reconcile reads two platform exports, matches accounts that belong to the
same person (exact email, then phone, then fuzzy name), keeps the account
with more completed courses and lists the completions to migrate.

Pairs with equal progress are marked "Review Needed" and never merged
automatically.`,
		Example: `  learnmerge reconcile talent.csv pharmacy.xlsx
  learnmerge reconcile talent.csv pharmacy.csv -d employees.csv --intra
  learnmerge reconcile a.csv b.csv --threshold 0.9 --strategies email,fuzzy -o json
  learnmerge reconcile a.csv b.csv --save result.yaml --script sql --script-out merge.sql
  learnmerge reconcile a.csv b.csv --narrate --draft-email -o yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, f, args)
		},
	}

	cmd.Flags().StringVarP(&f.directory, "directory", "d", "", "employee directory export")
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0, "fuzzy name threshold between 0 and 1")
	cmd.Flags().BoolVar(&f.intra, "intra", false, "also look for duplicates within each platform")
	cmd.Flags().BoolVar(&f.noArabic, "no-arabic", false, "disable Arabic name normalization")
	cmd.Flags().StringVar(&f.strategies, "strategies", "", "comma separated strategies: email, phone, fuzzy")
	cmd.Flags().StringVar(&f.platforms, "platforms", "", "labels for the two exports, e.g. Talent,Pharmacy")
	cmd.Flags().BoolVar(&f.narrate, "narrate", false, "ask Gemini to review every pair (needs GEMINI_API_KEY)")
	cmd.Flags().BoolVar(&f.draftEmail, "draft-email", false, "with --narrate, draft a notification email per pair")
	cmd.Flags().StringVar(&f.save, "save", "", "write the full result to a .json or .yaml file")
	cmd.Flags().StringVar(&f.script, "script", "", "also render an artifact: sql, python, csv, markdown")
	cmd.Flags().StringVar(&f.scriptOut, "script-out", "", "file for --script (default stdout after the result)")

	return cmd
}

func run(cmd *cobra.Command, app AppContext, f *flags, args []string) error {
	format, err := output.ParseFormat(string(output.DetectFormat(app.OutputFormat())))
	if err != nil {
		return err
	}

	if f.script != "" {
		if _, err := export.ParseFormat(f.script); err != nil {
			return err
		}
	}

	opts, err := engineOptions(cmd, f)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if f.narrate {
		reviewer, err := app.Reviewer(ctx, f.draftEmail)
		if err != nil {
			return err
		}
		opts = append(opts, learnmerge.WithReviewer(reviewer), learnmerge.WithAutoEnrich(true))
	} else if f.draftEmail {
		return errors.NewValidationError("draft-email", true, "--draft-email requires --narrate")
	}

	engine, err := app.Engine(opts...)
	if err != nil {
		return err
	}

	res, err := engine.Reconcile(ctx, learnmerge.Files{A: args[0], B: args[1], Directory: f.directory})
	if err != nil {
		return err
	}

	if f.save != "" {
		if err := export.SaveResult(f.save, res); err != nil {
			return err
		}
		logging.FromContext(ctx).Info().Str("path", f.save).Msg("result saved")
	}

	if err := output.FormatResult(cmd.OutOrStdout(), res, format); err != nil {
		return err
	}

	if f.script != "" {
		return writeScript(cmd, f, res)
	}
	return nil
}

func engineOptions(cmd *cobra.Command, f *flags) ([]learnmerge.Option, error) {
	var opts []learnmerge.Option
	if cmd.Flags().Changed("threshold") {
		opts = append(opts, learnmerge.WithThreshold(f.threshold))
	}
	if cmd.Flags().Changed("intra") {
		opts = append(opts, learnmerge.WithIntraPlatform(f.intra))
	}
	if f.noArabic {
		opts = append(opts, learnmerge.WithLocaleAware(false))
	}
	if f.strategies != "" {
		opts = append(opts, learnmerge.WithStrategies(strings.Split(f.strategies, ",")...))
	}
	if f.platforms != "" {
		labels := strings.Split(f.platforms, ",")
		if len(labels) != 2 {
			return nil, errors.NewValidationError("platforms", f.platforms, "expected two comma separated labels")
		}
		opts = append(opts, learnmerge.WithPlatforms(strings.TrimSpace(labels[0]), strings.TrimSpace(labels[1])))
	}
	return opts, nil
}

func writeScript(cmd *cobra.Command, f *flags, res *recon.Result) error {
	format, err := export.ParseFormat(f.script)
	if err != nil {
		return err
	}
	if f.scriptOut == "" {
		return export.Write(cmd.OutOrStdout(), format, res)
	}

	file, err := os.Create(f.scriptOut)
	if err != nil {
		return errors.WrapIO("create", f.scriptOut, err)
	}
	if err := export.Write(file, format, res); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return errors.WrapIO("close", f.scriptOut, err)
	}
	return nil
}
