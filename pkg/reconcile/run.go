package reconcile

import (
	"context"
	"fmt"

	"github.com/agentstation/learnmerge/pkg/directory"
	"github.com/agentstation/learnmerge/pkg/ingest"
	"github.com/agentstation/learnmerge/pkg/logging"
	"github.com/agentstation/learnmerge/pkg/match"
	"github.com/agentstation/learnmerge/pkg/records"
	"github.com/agentstation/learnmerge/pkg/schema"
)

// Source is one platform export, already read into a grid. A nil grid is
// an empty source.
type Source struct {
	Platform records.Platform
	Grid     *ingest.Grid
}

// Input is everything one run reconciles. Directory may be nil.
type Input struct {
	A         Source
	B         Source
	Directory *ingest.Grid
}

// Options configures a run.
type Options struct {
	Match   match.Config
	Workers int
}

// SourceReport describes how one export was read.
type SourceReport struct {
	records.Report `yaml:",inline"`
	HeaderRow      int                `json:"headerRow" yaml:"headerRow"`
	EmailSource    schema.EmailSource `json:"emailSource" yaml:"emailSource"`
}

// Result is the output of one run.
type Result struct {
	Pairs   []MatchedPair  `json:"pairs" yaml:"pairs"`
	Summary Summary        `json:"summary" yaml:"summary"`
	Sources []SourceReport `json:"sources" yaml:"sources"`
	Config  match.Config   `json:"config" yaml:"config"`
}

// Run resolves schemas, builds and consolidates records, matches, decides
// and enriches. Data-quality problems never fail a run; only an invalid
// configuration or a canceled context does, and then no partial result is
// returned.
func Run(ctx context.Context, in Input, opts Options) (*Result, error) {
	matcher, err := match.New(opts.Match)
	if err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)
	buildOpts := records.BuildOptions{Workers: opts.Workers}

	res := &Result{Config: opts.Match}

	a, reportA, err := loadSource(ctx, in.A, buildOpts)
	if err != nil {
		return nil, err
	}
	b, reportB, err := loadSource(ctx, in.B, buildOpts)
	if err != nil {
		return nil, err
	}
	res.Sources = append(res.Sources, reportA, reportB)

	var dir []records.DirectoryRecord
	if !in.Directory.Empty() {
		layout := schema.Resolve(in.Directory)
		var report records.Report
		dir, report = records.BuildDirectory(ctx, in.Directory, layout)
		report.Warnings = append(gridWarnings(in.Directory), report.Warnings...)
		res.Sources = append(res.Sources, SourceReport{Report: report, HeaderRow: in.Directory.HeaderRow, EmailSource: layout.EmailSource})
	} else if warnings := gridWarnings(in.Directory); len(warnings) > 0 {
		report := records.Report{Platform: records.PlatformDirectory, Warnings: warnings}
		res.Sources = append(res.Sources, SourceReport{Report: report, EmailSource: schema.EmailUnresolved})
	}
	idx := directory.NewIndex(dir)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates, err := matcher.Match(logging.WithStage(ctx, "match"), in.A.Platform, a, in.B.Platform, b)
	if err != nil {
		return nil, err
	}

	res.Pairs = make([]MatchedPair, 0, len(candidates))
	for _, c := range candidates {
		res.Pairs = append(res.Pairs, NewPair(c, idx))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Summary = Summarize(res.Pairs)

	logger.Info().
		Int("pairs", res.Summary.Total).
		Int("needs_review", res.Summary.NeedsReview).
		Int("missing_courses", res.Summary.MissingCourses).
		Int("directory", idx.Len()).
		Msg("reconciliation complete")
	return res, nil
}

func loadSource(ctx context.Context, src Source, opts records.BuildOptions) ([]records.IdentityRecord, SourceReport, error) {
	ctx = logging.WithPlatform(ctx, src.Platform.String())
	if err := ctx.Err(); err != nil {
		return nil, SourceReport{}, err
	}
	if src.Grid.Empty() {
		logging.FromContext(ctx).Warn().Msg("source is empty")
		warnings := append(gridWarnings(src.Grid), "source is empty")
		return nil, SourceReport{Report: records.Report{Platform: src.Platform, Warnings: warnings}, EmailSource: schema.EmailUnresolved}, nil
	}

	layout := schema.Resolve(src.Grid)
	if layout.EmailSource == schema.EmailFromContent {
		logging.FromContext(ctx).Info().Int("column", layout.Email).Msg("email column inferred from cell content")
	}
	recs, report, err := records.BuildIdentities(ctx, src.Grid, layout, src.Platform, opts)
	if err != nil {
		return nil, SourceReport{}, err
	}
	report.Warnings = append(gridWarnings(src.Grid), report.Warnings...)
	consolidated := records.Consolidate(recs)
	report.Merged = len(recs) - len(consolidated)
	report.Records = len(consolidated)

	logging.FromContext(ctx).Debug().
		Int("rows", report.DataRows).
		Int("records", report.Records).
		Int("merged", report.Merged).
		Msg("source loaded")
	return consolidated, SourceReport{Report: report, HeaderRow: src.Grid.HeaderRow, EmailSource: layout.EmailSource}, nil
}

// gridWarnings renders reader warnings (malformed lines) for the report.
func gridWarnings(g *ingest.Grid) []string {
	if g == nil || len(g.Warnings) == 0 {
		return nil
	}
	out := make([]string, 0, len(g.Warnings))
	for _, w := range g.Warnings {
		if w.Row > 0 {
			out = append(out, fmt.Sprintf("row %d: %s", w.Row, w.Message))
			continue
		}
		out = append(out, w.Message)
	}
	return out
}
