package learnmerge

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/learnmerge/pkg/errors"
	"github.com/agentstation/learnmerge/pkg/logging"
	"github.com/agentstation/learnmerge/pkg/reconcile"
)

// Reviewer produces a narrative update for one pair. Failures are reported
// inside the update, never returned.
type Reviewer interface {
	Review(ctx context.Context, p reconcile.MatchedPair) reconcile.NarrativeUpdate
}

// ReviewerFunc allows functions to implement Reviewer.
type ReviewerFunc func(context.Context, reconcile.MatchedPair) reconcile.NarrativeUpdate

// Review implements Reviewer.
func (f ReviewerFunc) Review(ctx context.Context, p reconcile.MatchedPair) reconcile.NarrativeUpdate {
	return f(ctx, p)
}

// Enrich implements Engine. Pairs are reviewed concurrently and written
// back in their original positions; a failed review leaves a warning on
// its pair. Only cancellation fails the call, and then res is untouched.
func (e *engine) Enrich(ctx context.Context, res *reconcile.Result) error {
	if e.config.reviewer == nil {
		return errors.NewConfigError("enrich", "no reviewer configured", errors.ErrAPIKeyRequired)
	}
	if res == nil || len(res.Pairs) == 0 {
		return nil
	}

	logger := logging.FromContext(ctx)
	logger.Info().Int("pairs", len(res.Pairs)).Msg("requesting narrative reviews")

	updated := make([]reconcile.MatchedPair, len(res.Pairs))
	failed := make([]bool, len(res.Pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.reviewConcurrency)
	for i, p := range res.Pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			u := e.config.reviewer.Review(logging.WithPair(gctx, p.ID), p)
			if u.Err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			updated[i] = reconcile.ApplyNarrative(p, u)
			failed[i] = u.Err != nil
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failures := 0
	for i := range updated {
		if failed[i] {
			failures++
		}
		e.hooks.triggerPairEnriched(res.Pairs[i], updated[i])
	}
	res.Pairs = updated
	res.Summary = reconcile.Summarize(res.Pairs)

	logger.Info().Int("failed", failures).Msg("narrative reviews applied")
	return nil
}
