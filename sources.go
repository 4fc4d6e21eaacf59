package learnmerge

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/learnmerge/pkg/errors"
	"github.com/agentstation/learnmerge/pkg/ingest"
	"github.com/agentstation/learnmerge/pkg/logging"
	"github.com/agentstation/learnmerge/pkg/records"
	"github.com/agentstation/learnmerge/pkg/reconcile"
)

// UnreadableWarning prefixes the report warning of a source whose file
// exists but cannot be parsed.
const UnreadableWarning = "source unreadable"

// Files names the exports of one run. Directory is optional.
type Files struct {
	A         string
	B         string
	Directory string
}

// load reads all files concurrently. A file that cannot be opened fails
// the run; a file that opens but cannot be parsed becomes an empty source
// with a warning.
func (e *engine) load(ctx context.Context, files Files) (reconcile.Input, error) {
	if files.A == "" || files.B == "" {
		return reconcile.Input{}, errors.NewValidationError("files", files, "both platform exports are required")
	}

	in := reconcile.Input{
		A: reconcile.Source{Platform: e.config.platformA},
		B: reconcile.Source{Platform: e.config.platformB},
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.A.Grid, err = loadGrid(ctx, in.A.Platform, files.A)
		return err
	})
	g.Go(func() (err error) {
		in.B.Grid, err = loadGrid(ctx, in.B.Platform, files.B)
		return err
	})
	if files.Directory != "" {
		g.Go(func() (err error) {
			in.Directory, err = loadGrid(ctx, records.PlatformDirectory, files.Directory)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return reconcile.Input{}, err
	}
	return in, nil
}

func loadGrid(ctx context.Context, platform records.Platform, path string) (*ingest.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grid, err := ingest.Load(path)
	if err != nil {
		var perr *errors.ParseError
		if !errors.As(err, &perr) {
			return nil, errors.WrapSource(platform.String(), path, err)
		}
		logging.FromContext(ctx).Warn().
			Err(err).
			Str("platform", platform.String()).
			Str("path", path).
			Msg("source unreadable; continuing without its records")
		return unreadableGrid(err), nil
	}

	logging.FromContext(ctx).Debug().
		Str("platform", platform.String()).
		Str("path", path).
		Str("format", string(grid.Format)).
		Str("encoding", grid.Encoding).
		Int("rows", len(grid.Rows)).
		Msg("source read")
	return grid, nil
}

// unreadableGrid stands in for a source whose content could not be parsed.
// It holds no rows, so the source contributes no records, and its warning
// ends up on the run's source report.
func unreadableGrid(err error) *ingest.Grid {
	return &ingest.Grid{Warnings: []ingest.Warning{{Message: UnreadableWarning + ": " + err.Error()}}}
}

func newRunID() string {
	return uuid.NewString()
}
