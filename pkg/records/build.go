package records

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/learnmerge/pkg/ingest"
	"github.com/agentstation/learnmerge/pkg/logging"
	"github.com/agentstation/learnmerge/pkg/normalize"
	"github.com/agentstation/learnmerge/pkg/schema"
)

// BuildOptions tunes record building.
type BuildOptions struct {
	// Workers bounds concurrent row processing. Zero uses GOMAXPROCS.
	Workers int
}

func (o BuildOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// BuildIdentities turns each data row of g into an IdentityRecord for
// platform. Rows without an email are skipped; a grid without an email
// column yields no records and a warning on the report. Output preserves
// row order regardless of worker count.
func BuildIdentities(ctx context.Context, g *ingest.Grid, layout schema.Layout, platform Platform, opts BuildOptions) ([]IdentityRecord, Report, error) {
	logger := logging.FromContext(ctx).With().Str("platform", platform.String()).Logger()
	rows := g.DataRows()
	report := Report{Platform: platform, DataRows: len(rows)}

	if len(rows) == 0 {
		return nil, report, nil
	}
	if !layout.HasEmail() {
		msg := "no email column found; all rows dropped"
		report.SkippedNoEmail = len(rows)
		report.Warnings = append(report.Warnings, msg)
		logger.Warn().Int("rows", len(rows)).Msg(msg)
		return nil, report, nil
	}

	slots := make([]*IdentityRecord, len(rows))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.workers())
	for k, row := range rows {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			slots[k] = buildIdentity(row, g.HeaderRow+1+k, layout, platform)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, report, err
	}

	out := make([]IdentityRecord, 0, len(rows))
	for _, rec := range slots {
		if rec == nil {
			report.SkippedNoEmail++
			continue
		}
		out = append(out, *rec)
	}
	report.Records = len(out)

	if report.SkippedNoEmail > 0 {
		logger.Debug().Int("skipped", report.SkippedNoEmail).Msg("rows without email skipped")
	}
	return out, report, nil
}

func buildIdentity(row []string, rowIdx int, layout schema.Layout, platform Platform) *IdentityRecord {
	email := normalize.Clean(ingest.Cell(row, layout.Email))
	if email == "" {
		return nil
	}

	rec := &IdentityRecord{
		ID:        cellOr(row, layout.ID, fmt.Sprintf("USR-%d", rowIdx)),
		FullName:  ingest.Cell(row, layout.Name),
		Email:     email,
		Phone:     ingest.Cell(row, layout.Phone),
		Role:      cellOr(row, layout.Role, DefaultRole),
		LastLogin: ingest.Cell(row, layout.LastLogin),
		Platform:  platform,
		SourceRow: rowIdx,
	}

	seen := make(map[string]struct{})
	for i, cell := range row {
		if layout.IsMetadata(i) || !IsCompleted(cell) {
			continue
		}
		rec.CompletedCourses = appendUnique(rec.CompletedCourses, seen, layout.ColumnName(i))
	}
	return rec
}

// BuildDirectory reads employee rows. The official email column is used
// when the directory has one, otherwise the generic email column. Rows with
// a blank value in the chosen column are skipped, even if another email
// column is filled.
func BuildDirectory(ctx context.Context, g *ingest.Grid, layout schema.Layout) ([]DirectoryRecord, Report) {
	rows := g.DataRows()
	report := Report{Platform: PlatformDirectory, DataRows: len(rows)}
	if len(rows) > 0 && !layout.HasDirectoryEmail() {
		msg := "no official or email column found in directory"
		report.SkippedNoEmail = len(rows)
		report.Warnings = append(report.Warnings, msg)
		logging.FromContext(ctx).Warn().Int("rows", len(rows)).Msg(msg)
		return nil, report
	}

	var out []DirectoryRecord
	for k, row := range rows {
		col := layout.OfficialEmail
		if col == schema.NotFound {
			col = layout.Email
		}
		official := normalize.Clean(ingest.Cell(row, col))
		if official == "" {
			report.SkippedNoEmail++
			continue
		}
		out = append(out, DirectoryRecord{
			EmployeeCode:  cellOr(row, layout.ID, fmt.Sprintf("EMP-%d", g.HeaderRow+1+k)),
			FullName:      cellOr(row, layout.Name, UnknownName),
			OfficialEmail: official,
			PersonalEmail: normalize.Clean(ingest.Cell(row, layout.PersonalEmail)),
			JobTitle:      ingest.Cell(row, layout.Role),
		})
	}
	report.Records = len(out)
	return out, report
}

func cellOr(row []string, i int, fallback string) string {
	if v := ingest.Cell(row, i); v != "" {
		return v
	}
	return fallback
}
